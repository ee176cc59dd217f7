package store

import (
	"context"
	"errors"

	"filmorate/internal/domain"
)

var (
	ErrFilmNotFound     = errors.New("film not found")
	ErrGenreNotFound    = errors.New("genre not found")
	ErrMpaNotFound      = errors.New("mpa rating not found")
	ErrDirectorNotFound = errors.New("director not found")
)

// Допустимые ключи сортировки для FilmsByDirector.
const (
	SortByYear  = "year"
	SortByLikes = "likes"
)

// FilmStore определяет интерфейс для операций с фильмами, лайками,
// режиссерами и ранжирующими выборками.
type FilmStore interface {
	Create(ctx context.Context, film *domain.Film) error
	Update(ctx context.Context, film *domain.Film) error
	List(ctx context.Context) ([]*domain.Film, error)
	GetByID(ctx context.Context, id int64) (*domain.Film, error)
	// Delete удаляет фильм вместе с лайками, связями жанров и
	// режиссеров и отзывами на него.
	Delete(ctx context.Context, id int64) error
	FilmsByIDs(ctx context.Context, ids []int64) ([]*domain.Film, error)

	// AddLike/RemoveLike идемпотентны: повторный лайк и удаление
	// отсутствующего лайка не меняют состояние и не считаются ошибкой.
	AddLike(ctx context.Context, filmID, userID int64) error
	RemoveLike(ctx context.Context, filmID, userID int64) error
	LikesOf(ctx context.Context, filmID int64) ([]int64, error)

	// PopularFilms возвращает не более count фильмов по убыванию числа
	// лайков (при равенстве - по возрастанию id). genreID == 0 и
	// year == 0 означают отсутствие фильтра.
	PopularFilms(ctx context.Context, count int, genreID int64, year int) ([]*domain.Film, error)
	// CommonFilms возвращает фильмы, лайкнутые обоими пользователями,
	// по убыванию общего числа лайков.
	CommonFilms(ctx context.Context, userID, friendID int64) ([]*domain.Film, error)

	SearchByTitle(ctx context.Context, query string) ([]*domain.Film, error)
	SearchByDirector(ctx context.Context, query string) ([]*domain.Film, error)
	SearchByTitleAndDirector(ctx context.Context, query string) ([]*domain.Film, error)

	CreateDirector(ctx context.Context, director *domain.Director) error
	UpdateDirector(ctx context.Context, director *domain.Director) error
	DeleteDirector(ctx context.Context, id int64) error
	GetDirectorByID(ctx context.Context, id int64) (*domain.Director, error)
	ListDirectors(ctx context.Context) ([]*domain.Director, error)
	// FilmsByDirector возвращает фильмы режиссера, отсортированные по
	// SortByYear (дата релиза по возрастанию) или SortByLikes.
	FilmsByDirector(ctx context.Context, directorID int64, sortBy string) ([]*domain.Film, error)
}
