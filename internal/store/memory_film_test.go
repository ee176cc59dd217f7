package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"filmorate/internal/domain"
)

func newTestFilm(t *testing.T, films *MemoryFilms, name string, year int, genres ...int64) *domain.Film {
	t.Helper()
	mpa, _ := domain.MpaByID(1)
	film := &domain.Film{
		Name:        name,
		Description: "описание",
		ReleaseDate: domain.NewDate(year, time.June, 1),
		Duration:    100,
		Mpa:         mpa,
	}
	for _, id := range genres {
		genre, ok := domain.GenreByID(id)
		require.True(t, ok)
		film.Genres = append(film.Genres, genre)
	}
	require.NoError(t, films.Create(context.Background(), film))
	return film
}

func likeFilm(t *testing.T, films *MemoryFilms, filmID int64, userIDs ...int64) {
	t.Helper()
	for _, userID := range userIDs {
		require.NoError(t, films.AddLike(context.Background(), filmID, userID))
	}
}

func TestAddLikeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	films := mem.Films()
	film := newTestFilm(t, films, "Побег из Шоушенка", 1994)

	likeFilm(t, films, film.ID, 1)
	likeFilm(t, films, film.ID, 1)

	likes, err := films.LikesOf(ctx, film.ID)
	require.NoError(t, err)
	require.Equal(t, []int64{1}, likes)
}

func TestRemoveLikeMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	films := mem.Films()
	film := newTestFilm(t, films, "Крестный отец", 1972)

	require.NoError(t, films.RemoveLike(ctx, film.ID, 42))
	require.ErrorIs(t, films.RemoveLike(ctx, 999, 42), ErrFilmNotFound)
}

func TestPopularFilmsOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	films := mem.Films()

	first := newTestFilm(t, films, "Первый", 2000)
	second := newTestFilm(t, films, "Второй", 2001)
	third := newTestFilm(t, films, "Третий", 2002)
	likeFilm(t, films, second.ID, 1, 2, 3)
	likeFilm(t, films, third.ID, 1, 2)

	popular, err := films.PopularFilms(ctx, 2, 0, 0)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	require.Equal(t, second.ID, popular[0].ID)
	require.Equal(t, third.ID, popular[1].ID)

	// При равном числе лайков выигрывает меньший id.
	likeFilm(t, films, first.ID, 4, 5)
	popular, err = films.PopularFilms(ctx, 3, 0, 0)
	require.NoError(t, err)
	require.Equal(t, []int64{second.ID, first.ID, third.ID}, []int64{popular[0].ID, popular[1].ID, popular[2].ID})
}

func TestPopularFilmsFilters(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	films := mem.Films()

	comedy := newTestFilm(t, films, "Комедия 2000", 2000, 1)
	drama := newTestFilm(t, films, "Драма 2000", 2000, 2)
	newTestFilm(t, films, "Комедия 2010", 2010, 1)
	likeFilm(t, films, drama.ID, 1)

	byGenre, err := films.PopularFilms(ctx, 10, 1, 0)
	require.NoError(t, err)
	require.Len(t, byGenre, 2)

	byGenreAndYear, err := films.PopularFilms(ctx, 10, 1, 2000)
	require.NoError(t, err)
	require.Len(t, byGenreAndYear, 1)
	require.Equal(t, comedy.ID, byGenreAndYear[0].ID)

	byYear, err := films.PopularFilms(ctx, 10, 0, 2000)
	require.NoError(t, err)
	require.Len(t, byYear, 2)
	require.Equal(t, drama.ID, byYear[0].ID)
}

func TestCommonFilms(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	films := mem.Films()

	both := newTestFilm(t, films, "Общий", 2005)
	onlyFirst := newTestFilm(t, films, "Только первый", 2006)
	likeFilm(t, films, both.ID, 1, 2, 3)
	likeFilm(t, films, onlyFirst.ID, 1)

	common, err := films.CommonFilms(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, common, 1)
	require.Equal(t, both.ID, common[0].ID)

	common, err = films.CommonFilms(ctx, 1, 99)
	require.NoError(t, err)
	require.Empty(t, common)
}

func TestSearchFilms(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	films := mem.Films()

	director := &domain.Director{Name: "Кристофер Нолан"}
	require.NoError(t, films.CreateDirector(ctx, director))

	inception := newTestFilm(t, films, "Начало", 2010)
	inception.Directors = []domain.Director{*director}
	require.NoError(t, films.Update(ctx, inception))
	newTestFilm(t, films, "Начальник", 1999)

	byTitle, err := films.SearchByTitle(ctx, "нача")
	require.NoError(t, err)
	require.Len(t, byTitle, 2)

	byDirector, err := films.SearchByDirector(ctx, "нолан")
	require.NoError(t, err)
	require.Len(t, byDirector, 1)
	require.Equal(t, inception.ID, byDirector[0].ID)

	byBoth, err := films.SearchByTitleAndDirector(ctx, "нолан")
	require.NoError(t, err)
	require.Len(t, byBoth, 1)
}

func TestFilmsByDirectorSorting(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	films := mem.Films()

	director := &domain.Director{Name: "Режиссер"}
	require.NoError(t, films.CreateDirector(ctx, director))

	older := newTestFilm(t, films, "Старый", 1990)
	newer := newTestFilm(t, films, "Новый", 2020)
	for _, film := range []*domain.Film{older, newer} {
		film.Directors = []domain.Director{*director}
		require.NoError(t, films.Update(ctx, film))
	}
	likeFilm(t, films, newer.ID, 1, 2)

	byYear, err := films.FilmsByDirector(ctx, director.ID, SortByYear)
	require.NoError(t, err)
	require.Equal(t, older.ID, byYear[0].ID)

	byLikes, err := films.FilmsByDirector(ctx, director.ID, SortByLikes)
	require.NoError(t, err)
	require.Equal(t, newer.ID, byLikes[0].ID)

	_, err = films.FilmsByDirector(ctx, 999, SortByLikes)
	require.ErrorIs(t, err, ErrDirectorNotFound)
}

func TestDeleteDirectorUnlinksFilms(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	films := mem.Films()

	director := &domain.Director{Name: "Удаляемый"}
	require.NoError(t, films.CreateDirector(ctx, director))
	film := newTestFilm(t, films, "Фильм", 2001)
	film.Directors = []domain.Director{*director}
	require.NoError(t, films.Update(ctx, film))

	require.NoError(t, films.DeleteDirector(ctx, director.ID))

	got, err := films.GetByID(ctx, film.ID)
	require.NoError(t, err)
	require.Empty(t, got.Directors)
}

func TestDeleteFilmCascadesReviews(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	films := mem.Films()
	reviews := mem.Reviews()

	film := newTestFilm(t, films, "Удаляемый", 2003)
	positive := true
	review := &domain.Review{Content: "текст", IsPositive: &positive, UserID: 1, FilmID: film.ID}
	require.NoError(t, reviews.Create(ctx, review))

	require.NoError(t, films.Delete(ctx, film.ID))

	_, err := films.GetByID(ctx, film.ID)
	require.ErrorIs(t, err, ErrFilmNotFound)
	_, err = reviews.GetByID(ctx, review.ID)
	require.ErrorIs(t, err, ErrReviewNotFound)
}
