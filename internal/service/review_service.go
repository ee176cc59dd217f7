package service

import (
	"context"
	"log/slog"

	"filmorate/internal/domain"
	"filmorate/internal/events"
	"filmorate/internal/store"
)

// ReviewService реализует операции над отзывами и голосами за их
// полезность.
type ReviewService struct {
	reviews store.ReviewStore
	users   store.UserStore
	films   store.FilmStore
	pub     events.Publisher
	logger  *slog.Logger
}

// NewReviewService создает новый экземпляр ReviewService.
func NewReviewService(reviews store.ReviewStore, users store.UserStore, films store.FilmStore, pub events.Publisher, logger *slog.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, users: users, films: films, pub: pub, logger: logger}
}

func (s *ReviewService) CreateReview(ctx context.Context, req domain.CreateReviewRequest) (*domain.Review, error) {
	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}
	if _, err := s.films.GetByID(ctx, req.FilmID); err != nil {
		return nil, err
	}
	review := &domain.Review{
		Content:    req.Content,
		IsPositive: req.IsPositive,
		UserID:     req.UserID,
		FilmID:     req.FilmID,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Review created", slog.Int64("reviewID", review.ID), slog.Int64("filmID", review.FilmID))
	s.pub.Publish(ctx, newEvent(review.UserID, review.ID, domain.EventReview, domain.OperationAdd))
	return review, nil
}

func (s *ReviewService) UpdateReview(ctx context.Context, req domain.UpdateReviewRequest) (*domain.Review, error) {
	updated, err := s.reviews.Update(ctx, &domain.Review{
		ID:         req.ID,
		Content:    req.Content,
		IsPositive: req.IsPositive,
	})
	if err != nil {
		return nil, err
	}
	// Событие относится к автору отзыва, а не к тому, кто его правил.
	s.pub.Publish(ctx, newEvent(updated.UserID, updated.ID, domain.EventReview, domain.OperationUpdate))
	return updated, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, id int64) error {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}
	s.pub.Publish(ctx, newEvent(review.UserID, review.ID, domain.EventReview, domain.OperationRemove))
	return nil
}

func (s *ReviewService) GetReview(ctx context.Context, id int64) (*domain.Review, error) {
	return s.reviews.GetByID(ctx, id)
}

// ListReviews возвращает отзывы по убыванию useful. filmID == 0 -
// отзывы по всем фильмам.
func (s *ReviewService) ListReviews(ctx context.Context, filmID int64, count int) ([]*domain.Review, error) {
	if filmID == 0 {
		return s.reviews.ListAll(ctx, count)
	}
	if _, err := s.films.GetByID(ctx, filmID); err != nil {
		return nil, err
	}
	return s.reviews.ListByFilm(ctx, filmID, count)
}

// Vote регистрирует лайк или дизлайк отзыва. Голоса не попадают
// в ленту событий.
func (s *ReviewService) Vote(ctx context.Context, reviewID, userID int64, isLike bool) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.reviews.AddVote(ctx, reviewID, userID, isLike)
}

// Unvote снимает голос указанной полярности, если он был.
func (s *ReviewService) Unvote(ctx context.Context, reviewID, userID int64, isLike bool) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.reviews.RemoveVote(ctx, reviewID, userID, isLike)
}
