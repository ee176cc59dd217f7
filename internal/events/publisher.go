package events

import (
	"context"
	"log/slog"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

// Publisher принимает события ленты после того, как основная запись
// уже выполнена. Публикация не возвращает ошибку: сбой доставки
// события не должен откатывать действие пользователя, реализации
// логируют его сами.
type Publisher interface {
	Publish(ctx context.Context, event *domain.FeedEvent)
}

// Nop отбрасывает события. Используется в тестах и когда лента
// не сконфигурирована.
type Nop struct{}

func (Nop) Publish(ctx context.Context, event *domain.FeedEvent) {}

// StoreRecorder пишет события в хранилище ленты - именно его читает
// GET /users/{id}/feed.
type StoreRecorder struct {
	feed   store.FeedStore
	logger *slog.Logger
}

// NewStoreRecorder создает публикатор поверх хранилища ленты.
func NewStoreRecorder(feed store.FeedStore, logger *slog.Logger) *StoreRecorder {
	return &StoreRecorder{feed: feed, logger: logger}
}

func (r *StoreRecorder) Publish(ctx context.Context, event *domain.FeedEvent) {
	if err := r.feed.Append(ctx, event); err != nil {
		r.logger.ErrorContext(ctx, "Failed to record feed event",
			slog.Int64("userID", event.UserID),
			slog.String("eventType", string(event.EventType)),
			slog.String("operation", string(event.Operation)),
			slog.String("error", err.Error()))
	}
}

// Fanout рассылает событие нескольким публикаторам.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, event *domain.FeedEvent) {
	for _, p := range f {
		p.Publish(ctx, event)
	}
}
