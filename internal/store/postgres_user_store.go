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

// PostgresUserStore реализует UserStore для PostgreSQL.
type PostgresUserStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewPostgresUserStore создает новый экземпляр PostgresUserStore.
func NewPostgresUserStore(db *sqlx.DB, logger *slog.Logger) (*PostgresUserStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &PostgresUserStore{db: db, logger: logger}, nil
}

func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (email, login, name, birthday) VALUES ($1, $2, $3, $4) RETURNING user_id`

	err := s.db.QueryRowContext(ctx, query, user.Email, user.Login, user.Name, user.Birthday).Scan(&user.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to create user in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.InfoContext(ctx, "User created in DB", slog.Int64("userID", user.ID))
	return nil
}

func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET email = $1, login = $2, name = $3, birthday = $4 WHERE user_id = $5`

	result, err := s.db.ExecContext(ctx, query, user.Email, user.Login, user.Name, user.Birthday, user.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update user in DB", slog.Int64("userID", user.ID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to update user: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *PostgresUserStore) List(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	if err := s.db.SelectContext(ctx, &users, `SELECT * FROM users ORDER BY user_id`); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list users from DB", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *PostgresUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user, `SELECT * FROM users WHERE user_id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to get user by ID from DB", slog.Int64("userID", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return &user, nil
}

// Delete удаляет пользователя и все зависящие от него записи:
// лайки, дружбу в обе стороны, голоса и отзывы. Все в одной транзакции.
func (s *PostgresUserStore) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	// Откатываем вклад голосов пользователя в useful чужих отзывов.
	if _, err := tx.ExecContext(ctx,
		`UPDATE reviews SET useful = useful - 1
		 WHERE review_id IN (SELECT review_id FROM review_likes WHERE user_id = $1 AND is_like)`, id); err != nil {
		return fmt.Errorf("failed to roll back like votes: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE reviews SET useful = useful + 1
		 WHERE review_id IN (SELECT review_id FROM review_likes WHERE user_id = $1 AND NOT is_like)`, id); err != nil {
		return fmt.Errorf("failed to roll back dislike votes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM review_likes WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete review votes: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM review_likes WHERE review_id IN (SELECT review_id FROM reviews WHERE user_id = $1)`, id); err != nil {
		return fmt.Errorf("failed to delete votes on user reviews: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete user reviews: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete user likes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM friends WHERE requester_id = $1 OR addressee_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete friendships: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrUserNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user delete: %w", err)
	}
	s.logger.InfoContext(ctx, "User deleted from DB with dependent rows", slog.Int64("userID", id))
	return nil
}

// AddFriend выполняет шаг машины состояний дружбы. Обе записи при
// взаимном подтверждении обновляются в одной транзакции.
func (s *PostgresUserStore) AddFriend(ctx context.Context, requesterID, addresseeID int64) (*domain.Friendship, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	reverseStatus, reverseExists, err := friendStatus(ctx, tx, addresseeID, requesterID)
	if err != nil {
		return nil, err
	}
	directStatus, directExists, err := friendStatus(ctx, tx, requesterID, addresseeID)
	if err != nil {
		return nil, err
	}

	edge := &domain.Friendship{RequesterID: requesterID, AddresseeID: addresseeID}

	switch {
	case reverseExists && reverseStatus == domain.StatusUnconfirmed:
		if directExists {
			_, err = tx.ExecContext(ctx,
				`UPDATE friends SET status = $1 WHERE requester_id = $2 AND addressee_id = $3`,
				domain.StatusConfirmed, requesterID, addresseeID)
		} else {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO friends (requester_id, addressee_id, status) VALUES ($1, $2, $3)`,
				requesterID, addresseeID, domain.StatusConfirmed)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to confirm direct edge: %w", err)
		}
		if _, err = tx.ExecContext(ctx,
			`UPDATE friends SET status = $1 WHERE requester_id = $2 AND addressee_id = $3`,
			domain.StatusConfirmed, addresseeID, requesterID); err != nil {
			return nil, fmt.Errorf("failed to confirm reverse edge: %w", err)
		}
		edge.Status = domain.StatusConfirmed

	case directExists:
		// Повторная заявка - no-op, возвращаем текущее состояние.
		edge.Status = directStatus

	default:
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO friends (requester_id, addressee_id, status) VALUES ($1, $2, $3)`,
			requesterID, addresseeID, domain.StatusUnconfirmed); err != nil {
			return nil, fmt.Errorf("failed to insert friendship: %w", err)
		}
		edge.Status = domain.StatusUnconfirmed
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit friendship: %w", err)
	}
	s.logger.InfoContext(ctx, "Friendship edge written",
		slog.Int64("requesterID", requesterID), slog.Int64("addresseeID", addresseeID),
		slog.String("status", string(edge.Status)))
	return edge, nil
}

func friendStatus(ctx context.Context, tx *sqlx.Tx, requesterID, addresseeID int64) (domain.FriendshipStatus, bool, error) {
	var status domain.FriendshipStatus
	err := tx.GetContext(ctx, &status,
		`SELECT status FROM friends WHERE requester_id = $1 AND addressee_id = $2`, requesterID, addresseeID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to check friendship edge: %w", err)
	}
	return status, true, nil
}

func (s *PostgresUserStore) RemoveFriend(ctx context.Context, requesterID, addresseeID int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM friends WHERE requester_id = $1 AND addressee_id = $2`, requesterID, addresseeID); err != nil {
		return fmt.Errorf("failed to delete friendship edge: %w", err)
	}

	// Встречная подтвержденная запись понижается до заявки.
	if _, err := tx.ExecContext(ctx,
		`UPDATE friends SET status = $1 WHERE requester_id = $2 AND addressee_id = $3 AND status = $4`,
		domain.StatusUnconfirmed, addresseeID, requesterID, domain.StatusConfirmed); err != nil {
		return fmt.Errorf("failed to downgrade reverse edge: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit friendship removal: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) FriendsOf(ctx context.Context, userID int64) ([]domain.Friendship, error) {
	var edges []domain.Friendship
	err := s.db.SelectContext(ctx, &edges,
		`SELECT requester_id, addressee_id, status FROM friends WHERE requester_id = $1 ORDER BY addressee_id`, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list friends from DB", slog.Int64("userID", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	return edges, nil
}

func (s *PostgresUserStore) MutualFriends(ctx context.Context, userID, otherID int64) ([]*domain.User, error) {
	query := `SELECT u.* FROM users u
	          JOIN friends f1 ON u.user_id = f1.addressee_id
	          JOIN friends f2 ON u.user_id = f2.addressee_id
	          WHERE f1.requester_id = $1 AND f2.requester_id = $2
	          ORDER BY u.user_id`

	var users []*domain.User
	if err := s.db.SelectContext(ctx, &users, query, userID, otherID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to find mutual friends in DB", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to find mutual friends: %w", err)
	}
	return users, nil
}

func (s *PostgresUserStore) LikesByUser(ctx context.Context, userID int64) ([]int64, error) {
	var filmIDs []int64
	err := s.db.SelectContext(ctx, &filmIDs,
		`SELECT film_id FROM likes WHERE user_id = $1 ORDER BY film_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get likes by user: %w", err)
	}
	return filmIDs, nil
}

// AllLikesByUser собирает полную карту лайков одним запросом -
// движок рекомендаций не должен ходить в БД по пользователю за раз.
func (s *PostgresUserStore) AllLikesByUser(ctx context.Context) (map[int64][]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id, film_id FROM likes`)
	if err != nil {
		return nil, fmt.Errorf("failed to load likes: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]int64)
	for rows.Next() {
		var userID, filmID int64
		if err := rows.Scan(&userID, &filmID); err != nil {
			return nil, fmt.Errorf("failed to scan like row: %w", err)
		}
		result[userID] = append(result[userID], filmID)
	}
	return result, rows.Err()
}
