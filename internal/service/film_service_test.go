package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"filmorate/internal/domain"
	"filmorate/internal/events"
	"filmorate/internal/store"
)

func newFilmService(mem *store.Memory) *FilmService {
	logger := testLogger()
	recorder := events.NewStoreRecorder(mem.Feed(), logger)
	return NewFilmService(mem.Films(), mem.Users(), nil, recorder, logger)
}

func filmRequest(name string) domain.CreateFilmRequest {
	return domain.CreateFilmRequest{
		Name:        name,
		Description: "описание",
		ReleaseDate: domain.NewDate(2010, time.July, 16),
		Duration:    148,
		Mpa:         domain.MpaRef{ID: 3},
	}
}

func TestCreateFilmResolvesCatalogRefs(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	svc := newFilmService(mem)

	req := filmRequest("Начало")
	req.Genres = []domain.GenreRef{{ID: 4}, {ID: 4}, {ID: 6}}

	film, err := svc.CreateFilm(ctx, req)
	require.NoError(t, err)
	require.Equal(t, "PG-13", film.Mpa.Name)
	// Дубликаты жанров схлопываются, имена берутся из справочника.
	require.Len(t, film.Genres, 2)
	require.Equal(t, "Триллер", film.Genres[0].Name)
	require.Equal(t, "Боевик", film.Genres[1].Name)
}

func TestCreateFilmRejectsEarlyReleaseDate(t *testing.T) {
	mem := store.NewMemory()
	svc := newFilmService(mem)

	req := filmRequest("Доисторический")
	req.ReleaseDate = domain.NewDate(1895, time.December, 27)
	_, err := svc.CreateFilm(context.Background(), req)
	require.ErrorIs(t, err, ErrReleaseDateTooEarly)

	// Граничная дата - день первого киносеанса - допустима.
	req.ReleaseDate = domain.EarliestReleaseDate
	_, err = svc.CreateFilm(context.Background(), req)
	require.NoError(t, err)
}

func TestCreateFilmRejectsUnknownCatalogIDs(t *testing.T) {
	mem := store.NewMemory()
	svc := newFilmService(mem)

	req := filmRequest("Фильм")
	req.Mpa = domain.MpaRef{ID: 99}
	_, err := svc.CreateFilm(context.Background(), req)
	require.ErrorIs(t, err, store.ErrMpaNotFound)

	req = filmRequest("Фильм")
	req.Genres = []domain.GenreRef{{ID: 99}}
	_, err = svc.CreateFilm(context.Background(), req)
	require.ErrorIs(t, err, store.ErrGenreNotFound)

	req = filmRequest("Фильм")
	req.Directors = []domain.DirectorRef{{ID: 99}}
	_, err = svc.CreateFilm(context.Background(), req)
	require.ErrorIs(t, err, store.ErrDirectorNotFound)
}

func TestPopularFilmsValidatesFilters(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	svc := newFilmService(mem)

	_, err := svc.PopularFilms(ctx, 10, 99, 0)
	require.ErrorIs(t, err, store.ErrGenreNotFound)

	_, err = svc.PopularFilms(ctx, 10, 0, 1800)
	require.ErrorIs(t, err, ErrInvalidYear)

	films, err := svc.PopularFilms(ctx, 10, 0, 0)
	require.NoError(t, err)
	require.Empty(t, films)
}

func TestAddLikeWritesFeedEvent(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	svc := newFilmService(mem)

	user := &domain.User{Email: "a@example.com", Login: "a", Name: "a", Birthday: domain.NewDate(1990, time.January, 1)}
	require.NoError(t, mem.Users().Create(ctx, user))
	film, err := svc.CreateFilm(ctx, filmRequest("Фильм"))
	require.NoError(t, err)

	require.NoError(t, svc.AddLike(ctx, film.ID, user.ID))

	feed, err := mem.Feed().ByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	require.Equal(t, domain.EventLike, feed[0].EventType)
	require.Equal(t, film.ID, feed[0].EntityID)
}

func TestAddLikeUnknownUser(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	svc := newFilmService(mem)
	film, err := svc.CreateFilm(ctx, filmRequest("Фильм"))
	require.NoError(t, err)

	require.ErrorIs(t, svc.AddLike(ctx, film.ID, 404), store.ErrUserNotFound)
}

func TestSearchFilmsOrderedByLikes(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	svc := newFilmService(mem)

	less, err := svc.CreateFilm(ctx, filmRequest("Матрица"))
	require.NoError(t, err)
	more, err := svc.CreateFilm(ctx, filmRequest("Матрица: Перезагрузка"))
	require.NoError(t, err)
	require.NoError(t, mem.Films().AddLike(ctx, more.ID, 1))
	require.NoError(t, mem.Films().AddLike(ctx, more.ID, 2))
	require.NoError(t, mem.Films().AddLike(ctx, less.ID, 1))

	films, err := svc.SearchFilms(ctx, "матриц", true, false)
	require.NoError(t, err)
	require.Len(t, films, 2)
	require.Equal(t, more.ID, films[0].ID)

	_, err = svc.SearchFilms(ctx, "", true, false)
	require.ErrorIs(t, err, ErrEmptySearchQuery)
}

func TestFilmsByDirectorValidatesSortKey(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	svc := newFilmService(mem)

	director, err := svc.CreateDirector(ctx, domain.CreateDirectorRequest{Name: "Режиссер"})
	require.NoError(t, err)

	_, err = svc.FilmsByDirector(ctx, director.ID, "rating")
	require.ErrorIs(t, err, ErrInvalidSortKey)

	films, err := svc.FilmsByDirector(ctx, director.ID, "")
	require.NoError(t, err)
	require.Empty(t, films)
}

func TestCatalogGetters(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	svc := newFilmService(mem)

	genres := svc.Genres(ctx)
	require.Len(t, genres, 6)
	require.Equal(t, "Комедия", genres[0].Name)

	mpas := svc.Mpas(ctx)
	require.Len(t, mpas, 5)
	require.Equal(t, "G", mpas[0].Name)

	_, err := svc.GenreByID(ctx, 99)
	require.ErrorIs(t, err, store.ErrGenreNotFound)
	_, err = svc.MpaByID(ctx, 99)
	require.ErrorIs(t, err, store.ErrMpaNotFound)
}
