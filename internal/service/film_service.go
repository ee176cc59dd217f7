package service

import (
	"context"
	"log/slog"
	"sort"

	"filmorate/internal/cache"
	"filmorate/internal/domain"
	"filmorate/internal/events"
	"filmorate/internal/store"
)

// FilmService реализует операции над фильмами, лайками, режиссерами
// и ранжирующими выборками.
type FilmService struct {
	films  store.FilmStore
	users  store.UserStore
	cache  *cache.FilmCache // nil - кэш выключен
	pub    events.Publisher
	logger *slog.Logger
}

// NewFilmService создает новый экземпляр FilmService.
func NewFilmService(films store.FilmStore, users store.UserStore, filmCache *cache.FilmCache, pub events.Publisher, logger *slog.Logger) *FilmService {
	return &FilmService{films: films, users: users, cache: filmCache, pub: pub, logger: logger}
}

func (s *FilmService) CreateFilm(ctx context.Context, req domain.CreateFilmRequest) (*domain.Film, error) {
	film, err := s.buildFilm(ctx, 0, req.Name, req.Description, req.ReleaseDate, req.Duration, req.Mpa, req.Genres, req.Directors)
	if err != nil {
		return nil, err
	}
	if err := s.films.Create(ctx, film); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Film created", slog.Int64("filmID", film.ID), slog.String("name", film.Name))
	return s.films.GetByID(ctx, film.ID)
}

func (s *FilmService) UpdateFilm(ctx context.Context, req domain.UpdateFilmRequest) (*domain.Film, error) {
	film, err := s.buildFilm(ctx, req.ID, req.Name, req.Description, req.ReleaseDate, req.Duration, req.Mpa, req.Genres, req.Directors)
	if err != nil {
		return nil, err
	}
	if err := s.films.Update(ctx, film); err != nil {
		return nil, err
	}
	return s.films.GetByID(ctx, film.ID)
}

// buildFilm проверяет дату релиза и разрешает ссылки на справочники
// и режиссеров в полные объекты. Дубликаты жанров схлопываются.
func (s *FilmService) buildFilm(ctx context.Context, id int64, name, description string, releaseDate domain.Date,
	duration int, mpaRef domain.MpaRef, genreRefs []domain.GenreRef, directorRefs []domain.DirectorRef) (*domain.Film, error) {

	if releaseDate.Before(domain.EarliestReleaseDate.Time) {
		return nil, ErrReleaseDateTooEarly
	}
	mpa, ok := domain.MpaByID(mpaRef.ID)
	if !ok {
		return nil, store.ErrMpaNotFound
	}

	var genres []domain.Genre
	seenGenres := make(map[int64]struct{})
	for _, ref := range genreRefs {
		if _, dup := seenGenres[ref.ID]; dup {
			continue
		}
		genre, ok := domain.GenreByID(ref.ID)
		if !ok {
			return nil, store.ErrGenreNotFound
		}
		seenGenres[ref.ID] = struct{}{}
		genres = append(genres, genre)
	}

	var directors []domain.Director
	for _, ref := range directorRefs {
		director, err := s.films.GetDirectorByID(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		directors = append(directors, *director)
	}

	return &domain.Film{
		ID:          id,
		Name:        name,
		Description: description,
		ReleaseDate: releaseDate,
		Duration:    duration,
		Mpa:         mpa,
		Genres:      genres,
		Directors:   directors,
	}, nil
}

func (s *FilmService) ListFilms(ctx context.Context) ([]*domain.Film, error) {
	return s.films.List(ctx)
}

func (s *FilmService) GetFilm(ctx context.Context, id int64) (*domain.Film, error) {
	return s.films.GetByID(ctx, id)
}

func (s *FilmService) DeleteFilm(ctx context.Context, id int64) error {
	if err := s.films.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Film deleted", slog.Int64("filmID", id))
	return nil
}

func (s *FilmService) AddLike(ctx context.Context, filmID, userID int64) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	if err := s.films.AddLike(ctx, filmID, userID); err != nil {
		return err
	}
	s.pub.Publish(ctx, newEvent(userID, filmID, domain.EventLike, domain.OperationAdd))
	return nil
}

func (s *FilmService) RemoveLike(ctx context.Context, filmID, userID int64) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	if err := s.films.RemoveLike(ctx, filmID, userID); err != nil {
		return err
	}
	s.pub.Publish(ctx, newEvent(userID, filmID, domain.EventLike, domain.OperationRemove))
	return nil
}

// PopularFilms возвращает не более count фильмов по убыванию числа
// лайков, с необязательными фильтрами по жанру и году. Выдача
// кэшируется, если кэш сконфигурирован.
func (s *FilmService) PopularFilms(ctx context.Context, count int, genreID int64, year int) ([]*domain.Film, error) {
	if genreID != 0 {
		if _, ok := domain.GenreByID(genreID); !ok {
			return nil, store.ErrGenreNotFound
		}
	}
	if year != 0 && year < domain.EarliestReleaseDate.Year() {
		return nil, ErrInvalidYear
	}

	if films, ok := s.cache.GetPopular(ctx, count, genreID, year); ok {
		return films, nil
	}
	films, err := s.films.PopularFilms(ctx, count, genreID, year)
	if err != nil {
		return nil, err
	}
	s.cache.SetPopular(ctx, count, genreID, year, films)
	return films, nil
}

func (s *FilmService) CommonFilms(ctx context.Context, userID, friendID int64) ([]*domain.Film, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, friendID); err != nil {
		return nil, err
	}
	return s.films.CommonFilms(ctx, userID, friendID)
}

// SearchFilms ищет по подстроке в названии и/или имени режиссера,
// без учета регистра. Выдача упорядочена по убыванию числа лайков.
func (s *FilmService) SearchFilms(ctx context.Context, query string, byTitle, byDirector bool) ([]*domain.Film, error) {
	if query == "" {
		return nil, ErrEmptySearchQuery
	}
	var (
		films []*domain.Film
		err   error
	)
	switch {
	case byTitle && byDirector:
		films, err = s.films.SearchByTitleAndDirector(ctx, query)
	case byDirector:
		films, err = s.films.SearchByDirector(ctx, query)
	default:
		films, err = s.films.SearchByTitle(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	sort.Slice(films, func(i, j int) bool {
		if len(films[i].Likes) != len(films[j].Likes) {
			return len(films[i].Likes) > len(films[j].Likes)
		}
		return films[i].ID < films[j].ID
	})
	return films, nil
}

func (s *FilmService) Genres(ctx context.Context) []domain.Genre {
	return domain.AllGenres()
}

func (s *FilmService) GenreByID(ctx context.Context, id int64) (domain.Genre, error) {
	genre, ok := domain.GenreByID(id)
	if !ok {
		return domain.Genre{}, store.ErrGenreNotFound
	}
	return genre, nil
}

func (s *FilmService) Mpas(ctx context.Context) []domain.Mpa {
	return domain.AllMpas()
}

func (s *FilmService) MpaByID(ctx context.Context, id int64) (domain.Mpa, error) {
	mpa, ok := domain.MpaByID(id)
	if !ok {
		return domain.Mpa{}, store.ErrMpaNotFound
	}
	return mpa, nil
}

func (s *FilmService) CreateDirector(ctx context.Context, req domain.CreateDirectorRequest) (*domain.Director, error) {
	director := &domain.Director{Name: req.Name}
	if err := s.films.CreateDirector(ctx, director); err != nil {
		return nil, err
	}
	return director, nil
}

func (s *FilmService) UpdateDirector(ctx context.Context, req domain.UpdateDirectorRequest) (*domain.Director, error) {
	director := &domain.Director{ID: req.ID, Name: req.Name}
	if err := s.films.UpdateDirector(ctx, director); err != nil {
		return nil, err
	}
	return director, nil
}

func (s *FilmService) DeleteDirector(ctx context.Context, id int64) error {
	return s.films.DeleteDirector(ctx, id)
}

func (s *FilmService) GetDirector(ctx context.Context, id int64) (*domain.Director, error) {
	return s.films.GetDirectorByID(ctx, id)
}

func (s *FilmService) ListDirectors(ctx context.Context) ([]*domain.Director, error) {
	return s.films.ListDirectors(ctx)
}

// FilmsByDirector возвращает фильмы режиссера; sortBy - "year" или
// "likes", пустое значение трактуется как "likes".
func (s *FilmService) FilmsByDirector(ctx context.Context, directorID int64, sortBy string) ([]*domain.Film, error) {
	switch sortBy {
	case "":
		sortBy = store.SortByLikes
	case store.SortByYear, store.SortByLikes:
	default:
		return nil, ErrInvalidSortKey
	}
	return s.films.FilmsByDirector(ctx, directorID, sortBy)
}
