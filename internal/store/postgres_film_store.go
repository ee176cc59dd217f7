package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"filmorate/internal/domain"
)

// PostgresFilmStore реализует FilmStore для PostgreSQL.
type PostgresFilmStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewPostgresFilmStore создает новый экземпляр PostgresFilmStore.
func NewPostgresFilmStore(db *sqlx.DB, logger *slog.Logger) (*PostgresFilmStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &PostgresFilmStore{db: db, logger: logger}, nil
}

// filmRow - строка таблицы films; жанры, режиссеры и лайки
// подтягиваются отдельными запросами.
type filmRow struct {
	ID          int64       `db:"film_id"`
	Name        string      `db:"name"`
	Description string      `db:"description"`
	ReleaseDate domain.Date `db:"release_date"`
	Duration    int         `db:"duration"`
	MpaID       int64       `db:"mpa_id"`
}

func (s *PostgresFilmStore) Create(ctx context.Context, film *domain.Film) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO films (name, description, release_date, duration, mpa_id)
	          VALUES ($1, $2, $3, $4, $5) RETURNING film_id`
	err = tx.QueryRowContext(ctx, query,
		film.Name, film.Description, film.ReleaseDate, film.Duration, film.Mpa.ID).Scan(&film.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to create film in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create film: %w", err)
	}

	if err := insertFilmLinks(ctx, tx, film); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit film create: %w", err)
	}
	s.logger.InfoContext(ctx, "Film created in DB", slog.Int64("filmID", film.ID))
	return nil
}

func (s *PostgresFilmStore) Update(ctx context.Context, film *domain.Film) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE films SET name = $1, description = $2, release_date = $3, duration = $4, mpa_id = $5
	          WHERE film_id = $6`
	result, err := tx.ExecContext(ctx, query,
		film.Name, film.Description, film.ReleaseDate, film.Duration, film.Mpa.ID, film.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update film in DB", slog.Int64("filmID", film.ID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to update film: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrFilmNotFound
	}

	// Связи жанров и режиссеров переписываются целиком; лайки при
	// обновлении карточки не трогаем.
	if _, err := tx.ExecContext(ctx, `DELETE FROM film_genre WHERE film_id = $1`, film.ID); err != nil {
		return fmt.Errorf("failed to clear film genres: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM film_director WHERE film_id = $1`, film.ID); err != nil {
		return fmt.Errorf("failed to clear film directors: %w", err)
	}
	if err := insertFilmLinks(ctx, tx, film); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit film update: %w", err)
	}
	return nil
}

func insertFilmLinks(ctx context.Context, tx *sqlx.Tx, film *domain.Film) error {
	for _, g := range film.Genres {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO film_genre (film_id, genre_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			film.ID, g.ID); err != nil {
			return fmt.Errorf("failed to link genre %d: %w", g.ID, err)
		}
	}
	for _, d := range film.Directors {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO film_director (film_id, director_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			film.ID, d.ID); err != nil {
			return fmt.Errorf("failed to link director %d: %w", d.ID, err)
		}
	}
	return nil
}

func (s *PostgresFilmStore) List(ctx context.Context) ([]*domain.Film, error) {
	return s.filmsByQuery(ctx, `SELECT * FROM films ORDER BY film_id`)
}

func (s *PostgresFilmStore) GetByID(ctx context.Context, id int64) (*domain.Film, error) {
	films, err := s.filmsByQuery(ctx, `SELECT * FROM films WHERE film_id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(films) == 0 {
		return nil, ErrFilmNotFound
	}
	return films[0], nil
}

func (s *PostgresFilmStore) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM review_likes WHERE review_id IN (SELECT review_id FROM reviews WHERE film_id = $1)`, id); err != nil {
		return fmt.Errorf("failed to delete votes on film reviews: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE film_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete film reviews: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE film_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete film likes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM film_genre WHERE film_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete film genres: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM film_director WHERE film_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete film directors: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM films WHERE film_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete film: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrFilmNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit film delete: %w", err)
	}
	s.logger.InfoContext(ctx, "Film deleted from DB with dependent rows", slog.Int64("filmID", id))
	return nil
}

func (s *PostgresFilmStore) FilmsByIDs(ctx context.Context, ids []int64) ([]*domain.Film, error) {
	if len(ids) == 0 {
		return []*domain.Film{}, nil
	}
	return s.filmsByQuery(ctx,
		`SELECT * FROM films WHERE film_id = ANY($1) ORDER BY film_id`, pq.Array(ids))
}

func (s *PostgresFilmStore) AddLike(ctx context.Context, filmID, userID int64) error {
	if err := s.checkFilmExists(ctx, filmID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO likes (film_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, filmID, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to add like in DB",
			slog.Int64("filmID", filmID), slog.Int64("userID", userID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to add like: %w", err)
	}
	return nil
}

func (s *PostgresFilmStore) RemoveLike(ctx context.Context, filmID, userID int64) error {
	if err := s.checkFilmExists(ctx, filmID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM likes WHERE film_id = $1 AND user_id = $2`, filmID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove like: %w", err)
	}
	return nil
}

func (s *PostgresFilmStore) LikesOf(ctx context.Context, filmID int64) ([]int64, error) {
	if err := s.checkFilmExists(ctx, filmID); err != nil {
		return nil, err
	}
	var userIDs []int64
	err := s.db.SelectContext(ctx, &userIDs,
		`SELECT user_id FROM likes WHERE film_id = $1 ORDER BY user_id`, filmID)
	if err != nil {
		return nil, fmt.Errorf("failed to get film likes: %w", err)
	}
	return userIDs, nil
}

func (s *PostgresFilmStore) checkFilmExists(ctx context.Context, filmID int64) error {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM films WHERE film_id = $1)`, filmID)
	if err != nil {
		return fmt.Errorf("failed to check film existence: %w", err)
	}
	if !exists {
		return ErrFilmNotFound
	}
	return nil
}

func (s *PostgresFilmStore) PopularFilms(ctx context.Context, count int, genreID int64, year int) ([]*domain.Film, error) {
	var (
		conditions []string
		args       []interface{}
		argID      = 1
	)
	query := `SELECT f.* FROM films f LEFT JOIN likes l ON f.film_id = l.film_id`

	if genreID != 0 {
		query += fmt.Sprintf(` JOIN film_genre fg ON f.film_id = fg.film_id AND fg.genre_id = $%d`, argID)
		args = append(args, genreID)
		argID++
	}
	if year != 0 {
		conditions = append(conditions, fmt.Sprintf(`EXTRACT(YEAR FROM f.release_date) = $%d`, argID))
		args = append(args, year)
		argID++
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(` GROUP BY f.film_id ORDER BY COUNT(l.user_id) DESC, f.film_id ASC LIMIT $%d`, argID)
	args = append(args, count)

	return s.filmsByQuery(ctx, query, args...)
}

func (s *PostgresFilmStore) CommonFilms(ctx context.Context, userID, friendID int64) ([]*domain.Film, error) {
	query := `SELECT f.* FROM films f
	          JOIN likes l1 ON f.film_id = l1.film_id AND l1.user_id = $1
	          JOIN likes l2 ON f.film_id = l2.film_id AND l2.user_id = $2
	          LEFT JOIN likes l ON f.film_id = l.film_id
	          GROUP BY f.film_id ORDER BY COUNT(l.user_id) DESC, f.film_id ASC`
	return s.filmsByQuery(ctx, query, userID, friendID)
}

func (s *PostgresFilmStore) SearchByTitle(ctx context.Context, query string) ([]*domain.Film, error) {
	return s.filmsByQuery(ctx,
		`SELECT * FROM films WHERE LOWER(name) LIKE $1 ORDER BY film_id`, likePattern(query))
}

func (s *PostgresFilmStore) SearchByDirector(ctx context.Context, query string) ([]*domain.Film, error) {
	q := `SELECT DISTINCT f.* FROM films f
	      JOIN film_director fd ON f.film_id = fd.film_id
	      JOIN directors d ON fd.director_id = d.director_id
	      WHERE LOWER(d.name) LIKE $1 ORDER BY f.film_id`
	return s.filmsByQuery(ctx, q, likePattern(query))
}

func (s *PostgresFilmStore) SearchByTitleAndDirector(ctx context.Context, query string) ([]*domain.Film, error) {
	q := `SELECT DISTINCT f.* FROM films f
	      LEFT JOIN film_director fd ON f.film_id = fd.film_id
	      LEFT JOIN directors d ON fd.director_id = d.director_id
	      WHERE LOWER(f.name) LIKE $1 OR LOWER(d.name) LIKE $1 ORDER BY f.film_id`
	return s.filmsByQuery(ctx, q, likePattern(query))
}

func likePattern(query string) string {
	return "%" + strings.ToLower(query) + "%"
}

func (s *PostgresFilmStore) CreateDirector(ctx context.Context, director *domain.Director) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO directors (name) VALUES ($1) RETURNING director_id`, director.Name).Scan(&director.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to create director in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create director: %w", err)
	}
	return nil
}

func (s *PostgresFilmStore) UpdateDirector(ctx context.Context, director *domain.Director) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE directors SET name = $1 WHERE director_id = $2`, director.Name, director.ID)
	if err != nil {
		return fmt.Errorf("failed to update director: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrDirectorNotFound
	}
	return nil
}

func (s *PostgresFilmStore) DeleteDirector(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM film_director WHERE director_id = $1`, id); err != nil {
		return fmt.Errorf("failed to unlink director films: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM directors WHERE director_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete director: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrDirectorNotFound
	}
	return tx.Commit()
}

func (s *PostgresFilmStore) GetDirectorByID(ctx context.Context, id int64) (*domain.Director, error) {
	var director domain.Director
	err := s.db.GetContext(ctx, &director,
		`SELECT * FROM directors WHERE director_id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDirectorNotFound
		}
		return nil, fmt.Errorf("failed to get director by ID: %w", err)
	}
	return &director, nil
}

func (s *PostgresFilmStore) ListDirectors(ctx context.Context) ([]*domain.Director, error) {
	var directors []*domain.Director
	if err := s.db.SelectContext(ctx, &directors, `SELECT * FROM directors ORDER BY director_id`); err != nil {
		return nil, fmt.Errorf("failed to list directors: %w", err)
	}
	return directors, nil
}

func (s *PostgresFilmStore) FilmsByDirector(ctx context.Context, directorID int64, sortBy string) ([]*domain.Film, error) {
	if _, err := s.GetDirectorByID(ctx, directorID); err != nil {
		return nil, err
	}

	orderBy := `COUNT(l.user_id) DESC, f.film_id ASC`
	if sortBy == SortByYear {
		orderBy = `f.release_date ASC, f.film_id ASC`
	}
	query := `SELECT f.* FROM films f
	          JOIN film_director fd ON f.film_id = fd.film_id AND fd.director_id = $1
	          LEFT JOIN likes l ON f.film_id = l.film_id
	          GROUP BY f.film_id ORDER BY ` + orderBy
	return s.filmsByQuery(ctx, query, directorID)
}

// filmsByQuery выполняет запрос по таблице films (колонки f.*),
// сохраняет порядок из SQL и дозагружает жанры, режиссеров и лайки
// тремя групповыми запросами.
func (s *PostgresFilmStore) filmsByQuery(ctx context.Context, query string, args ...interface{}) ([]*domain.Film, error) {
	var rows []filmRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "Failed to query films from DB", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to query films: %w", err)
	}
	if len(rows) == 0 {
		return []*domain.Film{}, nil
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	genres, err := s.genresByFilm(ctx, ids)
	if err != nil {
		return nil, err
	}
	directors, err := s.directorsByFilm(ctx, ids)
	if err != nil {
		return nil, err
	}
	likes, err := s.likesByFilm(ctx, ids)
	if err != nil {
		return nil, err
	}

	films := make([]*domain.Film, 0, len(rows))
	for _, row := range rows {
		mpa, ok := domain.MpaByID(row.MpaID)
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrMpaNotFound, row.MpaID)
		}
		films = append(films, &domain.Film{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			ReleaseDate: row.ReleaseDate,
			Duration:    row.Duration,
			Mpa:         mpa,
			Genres:      genres[row.ID],
			Directors:   directors[row.ID],
			Likes:       likes[row.ID],
		})
	}
	return films, nil
}

func (s *PostgresFilmStore) genresByFilm(ctx context.Context, filmIDs []int64) (map[int64][]domain.Genre, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT film_id, genre_id FROM film_genre WHERE film_id = ANY($1) ORDER BY genre_id`, pq.Array(filmIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load film genres: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]domain.Genre)
	for rows.Next() {
		var filmID, genreID int64
		if err := rows.Scan(&filmID, &genreID); err != nil {
			return nil, fmt.Errorf("failed to scan film genre row: %w", err)
		}
		if genre, ok := domain.GenreByID(genreID); ok {
			result[filmID] = append(result[filmID], genre)
		}
	}
	return result, rows.Err()
}

func (s *PostgresFilmStore) directorsByFilm(ctx context.Context, filmIDs []int64) (map[int64][]domain.Director, error) {
	query := `SELECT fd.film_id, d.director_id, d.name FROM film_director fd
	          JOIN directors d ON fd.director_id = d.director_id
	          WHERE fd.film_id = ANY($1) ORDER BY d.director_id`
	rows, err := s.db.QueryContext(ctx, query, pq.Array(filmIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load film directors: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]domain.Director)
	for rows.Next() {
		var (
			filmID   int64
			director domain.Director
		)
		if err := rows.Scan(&filmID, &director.ID, &director.Name); err != nil {
			return nil, fmt.Errorf("failed to scan film director row: %w", err)
		}
		result[filmID] = append(result[filmID], director)
	}
	return result, rows.Err()
}

func (s *PostgresFilmStore) likesByFilm(ctx context.Context, filmIDs []int64) (map[int64][]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT film_id, user_id FROM likes WHERE film_id = ANY($1) ORDER BY user_id`, pq.Array(filmIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load film likes: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]int64)
	for rows.Next() {
		var filmID, userID int64
		if err := rows.Scan(&filmID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan like row: %w", err)
		}
		result[filmID] = append(result[filmID], userID)
	}
	return result, rows.Err()
}
