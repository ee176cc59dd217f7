package store

import (
	"context"
	"errors"

	"filmorate/internal/domain"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrFriendshipNotFound = errors.New("friendship not found")
)

// UserStore определяет интерфейс для операций с пользователями,
// дружбой и чтением лайков со стороны пользователя.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context) ([]*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// Delete удаляет пользователя вместе с его лайками, записями о
	// дружбе (в обе стороны) и голосами за отзывы.
	Delete(ctx context.Context, id int64) error

	// AddFriend добавляет направленную заявку requester -> addressee.
	// Если встречная неподтвержденная заявка уже есть, обе записи
	// становятся подтвержденными (атомарно). Повторная заявка -
	// no-op, возвращается существующая запись.
	AddFriend(ctx context.Context, requesterID, addresseeID int64) (*domain.Friendship, error)
	// RemoveFriend удаляет ребро requester -> addressee; встречная
	// подтвержденная запись понижается до неподтвержденной.
	RemoveFriend(ctx context.Context, requesterID, addresseeID int64) error
	FriendsOf(ctx context.Context, userID int64) ([]domain.Friendship, error)
	// MutualFriends возвращает пользователей, являющихся адресатами
	// исходящих ребер обоих пользователей.
	MutualFriends(ctx context.Context, userID, otherID int64) ([]*domain.User, error)

	// LikesByUser возвращает id фильмов, лайкнутых пользователем.
	LikesByUser(ctx context.Context, userID int64) ([]int64, error)
	// AllLikesByUser возвращает полную карту userID -> набор filmID
	// за один проход; используется движком рекомендаций.
	AllLikesByUser(ctx context.Context) (map[int64][]int64, error)
}
