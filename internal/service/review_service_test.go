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

type reviewFixture struct {
	mem    *store.Memory
	svc    *ReviewService
	userID int64
	filmID int64
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemory()
	logger := testLogger()
	recorder := events.NewStoreRecorder(mem.Feed(), logger)
	svc := NewReviewService(mem.Reviews(), mem.Users(), mem.Films(), recorder, logger)

	user := &domain.User{Email: "a@example.com", Login: "a", Name: "a", Birthday: domain.NewDate(1990, time.January, 1)}
	require.NoError(t, mem.Users().Create(ctx, user))
	film := &domain.Film{Name: "Фильм", ReleaseDate: domain.NewDate(2000, time.April, 1), Duration: 100}
	require.NoError(t, mem.Films().Create(ctx, film))

	return &reviewFixture{mem: mem, svc: svc, userID: user.ID, filmID: film.ID}
}

func (f *reviewFixture) createReview(t *testing.T) *domain.Review {
	t.Helper()
	positive := true
	review, err := f.svc.CreateReview(context.Background(), domain.CreateReviewRequest{
		Content:    "отличный фильм",
		IsPositive: &positive,
		UserID:     f.userID,
		FilmID:     f.filmID,
	})
	require.NoError(t, err)
	return review
}

func TestCreateReviewChecksUserAndFilm(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)
	positive := true

	_, err := f.svc.CreateReview(ctx, domain.CreateReviewRequest{
		Content: "текст", IsPositive: &positive, UserID: 404, FilmID: f.filmID,
	})
	require.ErrorIs(t, err, store.ErrUserNotFound)

	_, err = f.svc.CreateReview(ctx, domain.CreateReviewRequest{
		Content: "текст", IsPositive: &positive, UserID: f.userID, FilmID: 404,
	})
	require.ErrorIs(t, err, store.ErrFilmNotFound)
}

func TestReviewLifecycleWritesFeedEvents(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)
	review := f.createReview(t)

	negative := false
	_, err := f.svc.UpdateReview(ctx, domain.UpdateReviewRequest{
		ID: review.ID, Content: "передумал", IsPositive: &negative,
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteReview(ctx, review.ID))

	feed, err := f.mem.Feed().ByUserID(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, feed, 3)
	require.Equal(t, domain.OperationAdd, feed[0].Operation)
	require.Equal(t, domain.OperationUpdate, feed[1].Operation)
	require.Equal(t, domain.OperationRemove, feed[2].Operation)
	for _, event := range feed {
		require.Equal(t, domain.EventReview, event.EventType)
		require.Equal(t, review.ID, event.EntityID)
	}
}

func TestVoteDoesNotWriteFeedEvent(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)
	review := f.createReview(t)

	require.NoError(t, f.svc.Vote(ctx, review.ID, f.userID, true))

	feed, err := f.mem.Feed().ByUserID(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, feed, 1) // только событие создания отзыва
}

func TestVoteChecksUserExistence(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)
	review := f.createReview(t)

	require.ErrorIs(t, f.svc.Vote(ctx, review.ID, 404, true), store.ErrUserNotFound)
	require.ErrorIs(t, f.svc.Unvote(ctx, review.ID, 404, true), store.ErrUserNotFound)
}

func TestListReviewsChecksFilm(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)
	f.createReview(t)

	reviews, err := f.svc.ListReviews(ctx, f.filmID, 10)
	require.NoError(t, err)
	require.Len(t, reviews, 1)

	_, err = f.svc.ListReviews(ctx, 404, 10)
	require.ErrorIs(t, err, store.ErrFilmNotFound)

	all, err := f.svc.ListReviews(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, all, 1)
}
