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

func newUserService(mem *store.Memory) *UserService {
	logger := testLogger()
	recorder := events.NewStoreRecorder(mem.Feed(), logger)
	return NewUserService(mem.Users(), mem.Feed(), recorder, logger)
}

func createUser(t *testing.T, svc *UserService, login string) *domain.User {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), domain.CreateUserRequest{
		Email:    login + "@example.com",
		Login:    login,
		Name:     login,
		Birthday: domain.NewDate(1990, time.January, 1),
	})
	require.NoError(t, err)
	return user
}

func TestCreateUserNameDefaultsToLogin(t *testing.T) {
	mem := store.NewMemory()
	svc := newUserService(mem)

	user, err := svc.CreateUser(context.Background(), domain.CreateUserRequest{
		Email:    "nameless@example.com",
		Login:    "nameless",
		Birthday: domain.NewDate(1985, time.March, 3),
	})
	require.NoError(t, err)
	require.Equal(t, "nameless", user.Name)
}

func TestCreateUserRejectsFutureBirthday(t *testing.T) {
	mem := store.NewMemory()
	svc := newUserService(mem)

	future := time.Now().AddDate(1, 0, 0)
	_, err := svc.CreateUser(context.Background(), domain.CreateUserRequest{
		Email:    "future@example.com",
		Login:    "future",
		Birthday: domain.NewDate(future.Year(), future.Month(), future.Day()),
	})
	require.ErrorIs(t, err, ErrBirthdayInFuture)
}

func TestAddFriendRejectsSelf(t *testing.T) {
	mem := store.NewMemory()
	svc := newUserService(mem)
	user := createUser(t, svc, "loner")

	_, err := svc.AddFriend(context.Background(), user.ID, user.ID)
	require.ErrorIs(t, err, ErrSelfRelationship)
	require.ErrorIs(t, svc.RemoveFriend(context.Background(), user.ID, user.ID), ErrSelfRelationship)
}

func TestAddFriendUnknownUser(t *testing.T) {
	mem := store.NewMemory()
	svc := newUserService(mem)
	user := createUser(t, svc, "alice")

	_, err := svc.AddFriend(context.Background(), user.ID, 404)
	require.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestFriendshipWritesFeedEvents(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	svc := newUserService(mem)
	a := createUser(t, svc, "alice")
	b := createUser(t, svc, "bob")

	_, err := svc.AddFriend(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.NoError(t, svc.RemoveFriend(ctx, a.ID, b.ID))

	feed, err := svc.Feed(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	require.Equal(t, domain.EventFriend, feed[0].EventType)
	require.Equal(t, domain.OperationAdd, feed[0].Operation)
	require.Equal(t, b.ID, feed[0].EntityID)
	require.Equal(t, domain.OperationRemove, feed[1].Operation)

	// События пишутся в ленту инициатора, а не адресата.
	feedB, err := svc.Feed(ctx, b.ID)
	require.NoError(t, err)
	require.Empty(t, feedB)
}

func TestFriendsReturnsRequestsAndConfirmed(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	svc := newUserService(mem)
	a := createUser(t, svc, "alice")
	b := createUser(t, svc, "bob")
	c := createUser(t, svc, "carol")

	_, err := svc.AddFriend(ctx, a.ID, b.ID)
	require.NoError(t, err)
	_, err = svc.AddFriend(ctx, a.ID, c.ID)
	require.NoError(t, err)
	_, err = svc.AddFriend(ctx, c.ID, a.ID)
	require.NoError(t, err)

	friends, err := svc.Friends(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, friends, 2)
}

func TestFeedUnknownUser(t *testing.T) {
	mem := store.NewMemory()
	svc := newUserService(mem)

	_, err := svc.Feed(context.Background(), 404)
	require.ErrorIs(t, err, store.ErrUserNotFound)
}
