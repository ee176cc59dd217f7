package domain

import "time"

// EarliestReleaseDate - день первого публичного киносеанса.
// Фильмы с более ранней датой релиза не принимаются.
var EarliestReleaseDate = NewDate(1895, time.December, 28)

// Film представляет модель фильма.
type Film struct {
	ID          int64      `json:"id" db:"film_id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	ReleaseDate Date       `json:"releaseDate" db:"release_date"`
	Duration    int        `json:"duration" db:"duration"` // минуты
	Mpa         Mpa        `json:"mpa"`
	Genres      []Genre    `json:"genres"`
	Directors   []Director `json:"directors"`
	Likes       []int64    `json:"likes,omitempty"` // id пользователей, поставивших лайк
}

// Director представляет модель режиссера.
type Director struct {
	ID   int64  `json:"id" db:"director_id"`
	Name string `json:"name" db:"name"`
}

// GenreRef и аналогичные ссылки в запросах несут только id;
// полные объекты подтягиваются из справочников при сохранении.
type GenreRef struct {
	ID int64 `json:"id" validate:"required"`
}

type MpaRef struct {
	ID int64 `json:"id" validate:"required"`
}

type DirectorRef struct {
	ID int64 `json:"id" validate:"required"`
}

// CreateFilmRequest определяет тело запроса для создания фильма.
type CreateFilmRequest struct {
	Name        string        `json:"name" validate:"required"`
	Description string        `json:"description" validate:"max=200"`
	ReleaseDate Date          `json:"releaseDate" validate:"required"`
	Duration    int           `json:"duration" validate:"required,gt=0"`
	Mpa         MpaRef        `json:"mpa" validate:"required"`
	Genres      []GenreRef    `json:"genres" validate:"omitempty,dive"`
	Directors   []DirectorRef `json:"directors" validate:"omitempty,dive"`
}

// UpdateFilmRequest определяет тело запроса для обновления фильма.
type UpdateFilmRequest struct {
	ID          int64         `json:"id" validate:"required"`
	Name        string        `json:"name" validate:"required"`
	Description string        `json:"description" validate:"max=200"`
	ReleaseDate Date          `json:"releaseDate" validate:"required"`
	Duration    int           `json:"duration" validate:"required,gt=0"`
	Mpa         MpaRef        `json:"mpa" validate:"required"`
	Genres      []GenreRef    `json:"genres" validate:"omitempty,dive"`
	Directors   []DirectorRef `json:"directors" validate:"omitempty,dive"`
}

// CreateDirectorRequest определяет тело запроса для создания режиссера.
type CreateDirectorRequest struct {
	Name string `json:"name" validate:"required"`
}

// UpdateDirectorRequest определяет тело запроса для обновления режиссера.
type UpdateDirectorRequest struct {
	ID   int64  `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}
