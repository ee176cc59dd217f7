package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"filmorate/internal/domain"
)

// PostgresReviewStore реализует ReviewStore для PostgreSQL.
type PostgresReviewStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewPostgresReviewStore создает новый экземпляр PostgresReviewStore.
func NewPostgresReviewStore(db *sqlx.DB, logger *slog.Logger) (*PostgresReviewStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &PostgresReviewStore{db: db, logger: logger}, nil
}

func (s *PostgresReviewStore) Create(ctx context.Context, review *domain.Review) error {
	query := `INSERT INTO reviews (content, is_positive, user_id, film_id, useful)
	          VALUES ($1, $2, $3, $4, 0) RETURNING review_id`

	err := s.db.QueryRowContext(ctx, query,
		review.Content, review.IsPositive, review.UserID, review.FilmID).Scan(&review.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to create review in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create review: %w", err)
	}
	review.Useful = 0
	s.logger.InfoContext(ctx, "Review created in DB", slog.Int64("reviewID", review.ID))
	return nil
}

func (s *PostgresReviewStore) Update(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	// Автор, фильм и накопленный useful при обновлении не меняются.
	query := `UPDATE reviews SET content = $1, is_positive = $2 WHERE review_id = $3`

	result, err := s.db.ExecContext(ctx, query, review.Content, review.IsPositive, review.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update review in DB", slog.Int64("reviewID", review.ID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, ErrReviewNotFound
	}
	return s.GetByID(ctx, review.ID)
}

func (s *PostgresReviewStore) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM review_likes WHERE review_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete review votes: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE review_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrReviewNotFound
	}
	return tx.Commit()
}

func (s *PostgresReviewStore) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	var review domain.Review
	err := s.db.GetContext(ctx, &review, `SELECT * FROM reviews WHERE review_id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to get review by ID from DB", slog.Int64("reviewID", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get review by ID: %w", err)
	}
	return &review, nil
}

func (s *PostgresReviewStore) ListByFilm(ctx context.Context, filmID int64, count int) ([]*domain.Review, error) {
	var reviews []*domain.Review
	query := `SELECT * FROM reviews WHERE film_id = $1 ORDER BY useful DESC, review_id ASC LIMIT $2`
	if err := s.db.SelectContext(ctx, &reviews, query, filmID, count); err != nil {
		return nil, fmt.Errorf("failed to list reviews by film: %w", err)
	}
	return reviews, nil
}

func (s *PostgresReviewStore) ListAll(ctx context.Context, count int) ([]*domain.Review, error) {
	var reviews []*domain.Review
	query := `SELECT * FROM reviews ORDER BY useful DESC, review_id ASC LIMIT $1`
	if err := s.db.SelectContext(ctx, &reviews, query, count); err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (s *PostgresReviewStore) AddVote(ctx context.Context, reviewID, userID int64, isLike bool) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM reviews WHERE review_id = $1)`, reviewID); err != nil {
		return fmt.Errorf("failed to check review existence: %w", err)
	}
	if !exists {
		return ErrReviewNotFound
	}

	var existing bool
	err = tx.GetContext(ctx, &existing,
		`SELECT is_like FROM review_likes WHERE review_id = $1 AND user_id = $2`, reviewID, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO review_likes (review_id, user_id, is_like) VALUES ($1, $2, $3)`,
			reviewID, userID, isLike); err != nil {
			return fmt.Errorf("failed to insert review vote: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE reviews SET useful = useful + $1 WHERE review_id = $2`,
			voteDelta(isLike), reviewID); err != nil {
			return fmt.Errorf("failed to apply vote to useful: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to check review vote: %w", err)
	case existing == isLike:
		// Повторный голос той же полярности не удваивается.
		return nil
	default:
		// Смена полярности: старый вклад откатывается, новый
		// применяется, итоговый сдвиг useful равен ±2.
		if _, err := tx.ExecContext(ctx,
			`UPDATE review_likes SET is_like = $1 WHERE review_id = $2 AND user_id = $3`,
			isLike, reviewID, userID); err != nil {
			return fmt.Errorf("failed to flip review vote: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE reviews SET useful = useful + $1 WHERE review_id = $2`,
			2*voteDelta(isLike), reviewID); err != nil {
			return fmt.Errorf("failed to apply flipped vote to useful: %w", err)
		}
	}
	return tx.Commit()
}

func (s *PostgresReviewStore) RemoveVote(ctx context.Context, reviewID, userID int64, isLike bool) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM reviews WHERE review_id = $1)`, reviewID); err != nil {
		return fmt.Errorf("failed to check review existence: %w", err)
	}
	if !exists {
		return ErrReviewNotFound
	}

	// Откат useful только если голос указанной полярности был.
	result, err := tx.ExecContext(ctx,
		`DELETE FROM review_likes WHERE review_id = $1 AND user_id = $2 AND is_like = $3`,
		reviewID, userID, isLike)
	if err != nil {
		return fmt.Errorf("failed to delete review vote: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows > 0 {
		if _, err := tx.ExecContext(ctx,
			`UPDATE reviews SET useful = useful - $1 WHERE review_id = $2`,
			voteDelta(isLike), reviewID); err != nil {
			return fmt.Errorf("failed to roll back vote from useful: %w", err)
		}
	}
	return tx.Commit()
}

// PostgresFeedStore реализует FeedStore для PostgreSQL.
type PostgresFeedStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewPostgresFeedStore создает новый экземпляр PostgresFeedStore.
func NewPostgresFeedStore(db *sqlx.DB, logger *slog.Logger) (*PostgresFeedStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &PostgresFeedStore{db: db, logger: logger}, nil
}

func (s *PostgresFeedStore) Append(ctx context.Context, event *domain.FeedEvent) error {
	query := `INSERT INTO feed (user_id, entity_id, event_type, operation, created_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING event_id`

	err := s.db.QueryRowContext(ctx, query,
		event.UserID, event.EntityID, event.EventType, event.Operation, event.Timestamp).Scan(&event.EventID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to append feed event in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to append feed event: %w", err)
	}
	return nil
}

func (s *PostgresFeedStore) ByUserID(ctx context.Context, userID int64) ([]*domain.FeedEvent, error) {
	var events []*domain.FeedEvent
	query := `SELECT * FROM feed WHERE user_id = $1 ORDER BY event_id`
	if err := s.db.SelectContext(ctx, &events, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list feed events: %w", err)
	}
	return events, nil
}
