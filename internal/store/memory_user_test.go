package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"filmorate/internal/domain"
)

func newTestUser(t *testing.T, users *MemoryUsers, login string) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:    login + "@example.com",
		Login:    login,
		Name:     login,
		Birthday: domain.NewDate(1990, time.January, 1),
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestAddFriendCreatesUnconfirmedRequest(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	users := mem.Users()
	a := newTestUser(t, users, "alice")
	b := newTestUser(t, users, "bob")

	edge, err := users.AddFriend(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusUnconfirmed, edge.Status)

	// Заявка односторонняя: у адресата исходящих записей нет.
	edges, err := users.FriendsOf(ctx, b.ID)
	require.NoError(t, err)
	require.Empty(t, edges)
}

func TestAddFriendConfirmsMutualRequest(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	users := mem.Users()
	a := newTestUser(t, users, "alice")
	b := newTestUser(t, users, "bob")

	_, err := users.AddFriend(ctx, a.ID, b.ID)
	require.NoError(t, err)
	edge, err := users.AddFriend(ctx, b.ID, a.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusConfirmed, edge.Status)

	for _, userID := range []int64{a.ID, b.ID} {
		edges, err := users.FriendsOf(ctx, userID)
		require.NoError(t, err)
		require.Len(t, edges, 1)
		require.Equal(t, domain.StatusConfirmed, edges[0].Status)
	}
}

func TestAddFriendDuplicateRequestIsNoop(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	users := mem.Users()
	a := newTestUser(t, users, "alice")
	b := newTestUser(t, users, "bob")

	first, err := users.AddFriend(ctx, a.ID, b.ID)
	require.NoError(t, err)
	second, err := users.AddFriend(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.Equal(t, first.Status, second.Status)

	edges, err := users.FriendsOf(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, edges, 1)
}

func TestRemoveFriendDowngradesReverseEdge(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	users := mem.Users()
	a := newTestUser(t, users, "alice")
	b := newTestUser(t, users, "bob")

	_, err := users.AddFriend(ctx, a.ID, b.ID)
	require.NoError(t, err)
	_, err = users.AddFriend(ctx, b.ID, a.ID)
	require.NoError(t, err)

	require.NoError(t, users.RemoveFriend(ctx, a.ID, b.ID))

	edges, err := users.FriendsOf(ctx, a.ID)
	require.NoError(t, err)
	require.Empty(t, edges)

	// Запись второй стороны сохраняется, но перестает быть подтвержденной.
	edges, err = users.FriendsOf(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	require.Equal(t, domain.StatusUnconfirmed, edges[0].Status)
}

func TestRemoveFriendMissingEdgeIsNoop(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	users := mem.Users()
	a := newTestUser(t, users, "alice")
	b := newTestUser(t, users, "bob")

	require.NoError(t, users.RemoveFriend(ctx, a.ID, b.ID))
}

func TestMutualFriends(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	users := mem.Users()
	a := newTestUser(t, users, "alice")
	b := newTestUser(t, users, "bob")
	c := newTestUser(t, users, "carol")
	d := newTestUser(t, users, "dave")

	// X дружит с {Y, Z}, W дружит с {Y}: общий друг - только Y.
	_, err := users.AddFriend(ctx, a.ID, c.ID)
	require.NoError(t, err)
	_, err = users.AddFriend(ctx, a.ID, d.ID)
	require.NoError(t, err)
	_, err = users.AddFriend(ctx, b.ID, c.ID)
	require.NoError(t, err)

	mutual, err := users.MutualFriends(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.Len(t, mutual, 1)
	require.Equal(t, c.ID, mutual[0].ID)
}

func TestDeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	users := mem.Users()
	films := mem.Films()
	reviews := mem.Reviews()

	a := newTestUser(t, users, "alice")
	b := newTestUser(t, users, "bob")
	film := &domain.Film{
		Name:        "Интерстеллар",
		ReleaseDate: domain.NewDate(2014, time.November, 7),
		Duration:    169,
	}
	require.NoError(t, films.Create(ctx, film))
	require.NoError(t, films.AddLike(ctx, film.ID, a.ID))

	_, err := users.AddFriend(ctx, a.ID, b.ID)
	require.NoError(t, err)
	_, err = users.AddFriend(ctx, b.ID, a.ID)
	require.NoError(t, err)

	positive := true
	review := &domain.Review{Content: "отлично", IsPositive: &positive, UserID: b.ID, FilmID: film.ID}
	require.NoError(t, reviews.Create(ctx, review))
	require.NoError(t, reviews.AddVote(ctx, review.ID, a.ID, true))

	require.NoError(t, users.Delete(ctx, a.ID))

	_, err = users.GetByID(ctx, a.ID)
	require.ErrorIs(t, err, ErrUserNotFound)

	likes, err := films.LikesOf(ctx, film.ID)
	require.NoError(t, err)
	require.Empty(t, likes)

	edges, err := users.FriendsOf(ctx, b.ID)
	require.NoError(t, err)
	require.Empty(t, edges)

	// Голос удаленного пользователя откатывается из useful.
	got, err := reviews.GetByID(ctx, review.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.Useful)
}
