package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"filmorate/internal/domain"
)

// TTL кэша популярных фильмов. Инвалидация по событиям не нужна:
// выборка пересчитывается после истечения срока.
const popularTTL = 30 * time.Second

// FilmCache кэширует выдачу популярных фильмов в Redis. Нулевой
// указатель безопасен: все методы становятся no-op, сервис работает
// напрямую с хранилищем.
type FilmCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewFilmCache подключается к Redis и возвращает кэш.
func NewFilmCache(addr, password string, db int, logger *slog.Logger) (*FilmCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.Info("Connected to Redis", slog.String("addr", addr))
	return &FilmCache{client: client, logger: logger}, nil
}

func popularKey(count int, genreID int64, year int) string {
	return fmt.Sprintf("films:popular:%d:%d:%d", count, genreID, year)
}

// GetPopular возвращает закэшированную выдачу или (nil, false).
func (c *FilmCache) GetPopular(ctx context.Context, count int, genreID int64, year int) ([]*domain.Film, bool) {
	if c == nil {
		return nil, false
	}
	key := popularKey(count, genreID, year)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var films []*domain.Film
	if err := json.Unmarshal(data, &films); err != nil {
		c.logger.WarnContext(ctx, "Failed to unmarshal cached popular films", slog.String("key", key), slog.String("error", err.Error()))
		return nil, false
	}
	return films, true
}

// SetPopular сохраняет выдачу с TTL. Ошибка записи только логируется.
func (c *FilmCache) SetPopular(ctx context.Context, count int, genreID int64, year int, films []*domain.Film) {
	if c == nil {
		return
	}
	data, err := json.Marshal(films)
	if err != nil {
		return
	}
	key := popularKey(count, genreID, year)
	if err := c.client.Set(ctx, key, data, popularTTL).Err(); err != nil {
		c.logger.WarnContext(ctx, "Failed to cache popular films", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func (c *FilmCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
