package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"filmorate/internal/domain"
)

func newTestReview(t *testing.T, mem *Memory, positive bool) *domain.Review {
	t.Helper()
	ctx := context.Background()
	film := &domain.Film{
		Name:        "Фильм",
		ReleaseDate: domain.NewDate(2000, time.March, 1),
		Duration:    90,
	}
	require.NoError(t, mem.Films().Create(ctx, film))
	review := &domain.Review{Content: "текст", IsPositive: &positive, UserID: 1, FilmID: film.ID}
	require.NoError(t, mem.Reviews().Create(ctx, review))
	return review
}

func TestAddVoteAccumulatesUseful(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	reviews := mem.Reviews()
	review := newTestReview(t, mem, true)

	require.NoError(t, reviews.AddVote(ctx, review.ID, 10, true))
	require.NoError(t, reviews.AddVote(ctx, review.ID, 11, true))
	require.NoError(t, reviews.AddVote(ctx, review.ID, 12, false))

	got, err := reviews.GetByID(ctx, review.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.Useful)
}

func TestAddVoteSamePolarityIsNoop(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	reviews := mem.Reviews()
	review := newTestReview(t, mem, true)

	require.NoError(t, reviews.AddVote(ctx, review.ID, 10, true))
	require.NoError(t, reviews.AddVote(ctx, review.ID, 10, true))

	got, err := reviews.GetByID(ctx, review.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.Useful)
}

func TestAddVoteFlipShiftsUsefulByTwo(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	reviews := mem.Reviews()
	review := newTestReview(t, mem, true)

	require.NoError(t, reviews.AddVote(ctx, review.ID, 10, true))
	require.NoError(t, reviews.AddVote(ctx, review.ID, 10, false))

	got, err := reviews.GetByID(ctx, review.ID)
	require.NoError(t, err)
	require.Equal(t, -1, got.Useful)
}

func TestRemoveVoteOnlyMatchingPolarity(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	reviews := mem.Reviews()
	review := newTestReview(t, mem, true)

	require.NoError(t, reviews.AddVote(ctx, review.ID, 10, true))

	// Снятие дизлайка при стоящем лайке не меняет useful.
	require.NoError(t, reviews.RemoveVote(ctx, review.ID, 10, false))
	got, err := reviews.GetByID(ctx, review.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.Useful)

	require.NoError(t, reviews.RemoveVote(ctx, review.ID, 10, true))
	got, err = reviews.GetByID(ctx, review.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.Useful)

	// Повторное снятие - no-op.
	require.NoError(t, reviews.RemoveVote(ctx, review.ID, 10, true))
	got, err = reviews.GetByID(ctx, review.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.Useful)
}

func TestVoteOnMissingReview(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	reviews := mem.Reviews()

	require.ErrorIs(t, reviews.AddVote(ctx, 999, 10, true), ErrReviewNotFound)
	require.ErrorIs(t, reviews.RemoveVote(ctx, 999, 10, true), ErrReviewNotFound)
}

func TestListReviewsOrderedByUseful(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	reviews := mem.Reviews()

	first := newTestReview(t, mem, true)
	second := newTestReview(t, mem, false)
	third := newTestReview(t, mem, true)

	require.NoError(t, reviews.AddVote(ctx, second.ID, 10, true))
	require.NoError(t, reviews.AddVote(ctx, second.ID, 11, true))
	require.NoError(t, reviews.AddVote(ctx, third.ID, 10, true))

	all, err := reviews.ListAll(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, second.ID, all[0].ID)
	require.Equal(t, third.ID, all[1].ID)
	require.Equal(t, first.ID, all[2].ID)

	limited, err := reviews.ListAll(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestUpdateReviewKeepsAuthorAndUseful(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	reviews := mem.Reviews()
	review := newTestReview(t, mem, true)
	require.NoError(t, reviews.AddVote(ctx, review.ID, 10, true))

	negative := false
	updated, err := reviews.Update(ctx, &domain.Review{
		ID:         review.ID,
		Content:    "новый текст",
		IsPositive: &negative,
		UserID:     777, // попытка сменить автора игнорируется
	})
	require.NoError(t, err)
	require.Equal(t, review.UserID, updated.UserID)
	require.Equal(t, review.FilmID, updated.FilmID)
	require.Equal(t, 1, updated.Useful)
	require.Equal(t, "новый текст", updated.Content)
	require.False(t, *updated.IsPositive)
}

func TestFeedAppendAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	feed := mem.Feed()

	for i := 0; i < 3; i++ {
		event := &domain.FeedEvent{
			UserID:    1,
			EntityID:  int64(i + 100),
			EventType: domain.EventLike,
			Operation: domain.OperationAdd,
			Timestamp: time.Now().UTC(),
		}
		require.NoError(t, feed.Append(ctx, event))
		require.Equal(t, int64(i+1), event.EventID)
	}

	events, err := feed.ByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 3)

	other, err := feed.ByUserID(ctx, 2)
	require.NoError(t, err)
	require.Empty(t, other)
}
