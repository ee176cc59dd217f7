package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type recFixture struct {
	mem   *store.Memory
	users *store.MemoryUsers
	films *store.MemoryFilms
	svc   *RecommendationService
}

func newRecFixture(t *testing.T) *recFixture {
	t.Helper()
	mem := store.NewMemory()
	return &recFixture{
		mem:   mem,
		users: mem.Users(),
		films: mem.Films(),
		svc:   NewRecommendationService(mem.Users(), mem.Films(), testLogger()),
	}
}

func (f *recFixture) addUser(t *testing.T, login string) int64 {
	t.Helper()
	user := &domain.User{
		Email:    login + "@example.com",
		Login:    login,
		Name:     login,
		Birthday: domain.NewDate(1990, time.January, 1),
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user.ID
}

func (f *recFixture) addFilm(t *testing.T, name string) int64 {
	t.Helper()
	film := &domain.Film{
		Name:        name,
		ReleaseDate: domain.NewDate(2000, time.May, 1),
		Duration:    120,
	}
	require.NoError(t, f.films.Create(context.Background(), film))
	return film.ID
}

func (f *recFixture) like(t *testing.T, filmID, userID int64) {
	t.Helper()
	require.NoError(t, f.films.AddLike(context.Background(), filmID, userID))
}

func TestRecommendationsEmptyWithoutLikes(t *testing.T) {
	ctx := context.Background()
	f := newRecFixture(t)
	userID := f.addUser(t, "alice")
	other := f.addUser(t, "bob")
	filmID := f.addFilm(t, "Фильм")
	f.like(t, filmID, other)

	films, err := f.svc.Recommendations(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, films)
}

func TestRecommendationsFromMostSimilarPeer(t *testing.T) {
	ctx := context.Background()
	f := newRecFixture(t)

	// Пользователи 1 и 2 пересекаются по двум фильмам, 1 и 3 - по
	// одному. Рекомендации берутся из лайков пользователя 2.
	u1 := f.addUser(t, "alice")
	u2 := f.addUser(t, "bob")
	u3 := f.addUser(t, "carol")

	fA := f.addFilm(t, "A")
	fB := f.addFilm(t, "B")
	fC := f.addFilm(t, "C")
	fD := f.addFilm(t, "D")

	f.like(t, fA, u1)
	f.like(t, fB, u1)

	f.like(t, fA, u2)
	f.like(t, fB, u2)
	f.like(t, fC, u2)

	f.like(t, fA, u3)
	f.like(t, fD, u3)

	films, err := f.svc.Recommendations(ctx, u1)
	require.NoError(t, err)
	require.Len(t, films, 1)
	require.Equal(t, fC, films[0].ID)
}

func TestRecommendationsNeverIncludeOwnLikes(t *testing.T) {
	ctx := context.Background()
	f := newRecFixture(t)

	u1 := f.addUser(t, "alice")
	u2 := f.addUser(t, "bob")
	fA := f.addFilm(t, "A")
	fB := f.addFilm(t, "B")

	f.like(t, fA, u1)
	f.like(t, fB, u1)
	f.like(t, fA, u2)
	f.like(t, fB, u2)

	// Полное совпадение вкусов: рекомендовать нечего.
	films, err := f.svc.Recommendations(ctx, u1)
	require.NoError(t, err)
	require.Empty(t, films)
}

func TestRecommendationsRequireCommonLike(t *testing.T) {
	ctx := context.Background()
	f := newRecFixture(t)

	u1 := f.addUser(t, "alice")
	u2 := f.addUser(t, "bob")
	fA := f.addFilm(t, "A")
	fB := f.addFilm(t, "B")

	// Пересечения нет - чужие лайки не рекомендуются.
	f.like(t, fA, u1)
	f.like(t, fB, u2)

	films, err := f.svc.Recommendations(ctx, u1)
	require.NoError(t, err)
	require.Empty(t, films)
}

func TestRecommendationsTieBreakByLowestUserID(t *testing.T) {
	ctx := context.Background()
	f := newRecFixture(t)

	u1 := f.addUser(t, "alice")
	u2 := f.addUser(t, "bob")
	u3 := f.addUser(t, "carol")

	fA := f.addFilm(t, "A")
	fromU2 := f.addFilm(t, "B")
	fromU3 := f.addFilm(t, "C")

	f.like(t, fA, u1)
	f.like(t, fA, u2)
	f.like(t, fromU2, u2)
	f.like(t, fA, u3)
	f.like(t, fromU3, u3)

	// Пересечение с обоими одинаковое, выбирается меньший id.
	films, err := f.svc.Recommendations(ctx, u1)
	require.NoError(t, err)
	require.Len(t, films, 1)
	require.Equal(t, fromU2, films[0].ID)
}

func TestRecommendationsUnknownUser(t *testing.T) {
	f := newRecFixture(t)
	_, err := f.svc.Recommendations(context.Background(), 404)
	require.ErrorIs(t, err, store.ErrUserNotFound)
}
