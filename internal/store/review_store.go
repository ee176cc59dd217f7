package store

import (
	"context"
	"errors"

	"filmorate/internal/domain"
)

var ErrReviewNotFound = errors.New("review not found")

// ReviewStore определяет интерфейс для операций с отзывами и голосами
// за их полезность.
type ReviewStore interface {
	Create(ctx context.Context, review *domain.Review) error
	// Update меняет только content и isPositive; возвращает отзыв
	// после обновления.
	Update(ctx context.Context, review *domain.Review) (*domain.Review, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	// ListByFilm возвращает отзывы на фильм по убыванию useful,
	// не более count штук.
	ListByFilm(ctx context.Context, filmID int64, count int) ([]*domain.Review, error)
	ListAll(ctx context.Context, count int) ([]*domain.Review, error)

	// AddVote регистрирует голос пользователя за отзыв. Повторный
	// голос той же полярности - no-op; голос противоположной
	// полярности заменяет прежний (итоговый сдвиг useful ±2).
	AddVote(ctx context.Context, reviewID, userID int64, isLike bool) error
	// RemoveVote удаляет голос указанной полярности, если он есть,
	// и откатывает его вклад в useful. Отсутствующий голос - no-op.
	RemoveVote(ctx context.Context, reviewID, userID int64, isLike bool) error
}

// FeedStore хранит ленту событий.
type FeedStore interface {
	Append(ctx context.Context, event *domain.FeedEvent) error
	ByUserID(ctx context.Context, userID int64) ([]*domain.FeedEvent, error)
}
