package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"filmorate/internal/api"
	"filmorate/internal/cache"
	"filmorate/internal/config"
	"filmorate/internal/events"
	"filmorate/internal/service"
	"filmorate/internal/store"
)

// connectToDB инициализирует соединение с базой данных.
func connectToDB(dbURL string, logger *slog.Logger) (*sqlx.DB, error) {
	logger.Info("Attempting to connect to PostgreSQL", slog.String("dbURL_used", maskPassword(dbURL)))

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	logger.Info("Successfully connected to PostgreSQL database.")
	return db, nil
}

// maskPassword прячет пароль в строке подключения при логировании.
func maskPassword(dbURL string) string {
	parts := strings.Split(dbURL, ":")
	if len(parts) > 2 {
		passAndHost := strings.Split(parts[2], "@")
		if len(passAndHost) > 1 && passAndHost[0] != "" {
			return strings.Replace(dbURL, passAndHost[0], "********", 1)
		}
	}
	return dbURL
}

// stores собирает четыре хранилища одной реализации.
type stores struct {
	users   store.UserStore
	films   store.FilmStore
	reviews store.ReviewStore
	feed    store.FeedStore
}

func buildStores(cfg config.Config, logger *slog.Logger) (stores, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory storage; data will not survive restarts")
		mem := store.NewMemory()
		return stores{
			users:   mem.Users(),
			films:   mem.Films(),
			reviews: mem.Reviews(),
			feed:    mem.Feed(),
		}, func() {}, nil
	}

	db, err := connectToDB(cfg.DatabaseURL, logger)
	if err != nil {
		return stores{}, nil, err
	}
	closeDB := func() {
		logger.Info("Closing PostgreSQL database connection...")
		if err := db.Close(); err != nil {
			logger.Error("Failed to close PostgreSQL connection", slog.String("error", err.Error()))
		}
	}

	users, err := store.NewPostgresUserStore(db, logger)
	if err != nil {
		closeDB()
		return stores{}, nil, err
	}
	films, err := store.NewPostgresFilmStore(db, logger)
	if err != nil {
		closeDB()
		return stores{}, nil, err
	}
	reviews, err := store.NewPostgresReviewStore(db, logger)
	if err != nil {
		closeDB()
		return stores{}, nil, err
	}
	feed, err := store.NewPostgresFeedStore(db, logger)
	if err != nil {
		closeDB()
		return stores{}, nil, err
	}
	return stores{users: users, films: films, reviews: reviews, feed: feed}, closeDB, nil
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	validate := api.NewValidator()
	cfg := config.Load(logger)

	st, closeStores, err := buildStores(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStores()

	// Лента пишется в хранилище всегда; RabbitMQ подключается поверх,
	// если сконфигурирован.
	publishers := events.Fanout{events.NewStoreRecorder(st.feed, logger)}
	if cfg.AMQPURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.FeedQueue, logger)
		if err != nil {
			logger.Error("Failed to connect to RabbitMQ", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			if err := amqpPub.Close(); err != nil {
				logger.Error("Failed to close RabbitMQ publisher", slog.String("error", err.Error()))
			}
		}()
		publishers = append(publishers, amqpPub)
		logger.Info("Feed events will be published to RabbitMQ", slog.String("queue", cfg.FeedQueue))
	}

	var filmCache *cache.FilmCache
	if cfg.RedisAddr != "" {
		filmCache, err = cache.NewFilmCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
		if err != nil {
			logger.Error("Failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer filmCache.Close()
	}

	userService := service.NewUserService(st.users, st.feed, publishers, logger)
	filmService := service.NewFilmService(st.films, st.users, filmCache, publishers, logger)
	recService := service.NewRecommendationService(st.users, st.films, logger)
	reviewService := service.NewReviewService(st.reviews, st.users, st.films, publishers, logger)

	userHandler := api.NewUserHandler(userService, recService, logger, validate)
	filmHandler := api.NewFilmHandler(filmService, logger, validate)
	reviewHandler := api.NewReviewHandler(reviewService, logger, validate)

	router := api.NewRouter(userHandler, filmHandler, reviewHandler)
	router.Use(api.RequestLogging(logger))

	httpSrv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("HTTP server starting", slog.String("port", cfg.HTTPPort))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server ListenAndServe() failed", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}
}
