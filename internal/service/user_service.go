package service

import (
	"context"
	"log/slog"
	"time"

	"filmorate/internal/domain"
	"filmorate/internal/events"
	"filmorate/internal/store"
)

// UserService реализует операции над пользователями и дружбой.
type UserService struct {
	users  store.UserStore
	feed   store.FeedStore
	pub    events.Publisher
	logger *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(users store.UserStore, feed store.FeedStore, pub events.Publisher, logger *slog.Logger) *UserService {
	return &UserService{users: users, feed: feed, pub: pub, logger: logger}
}

func (s *UserService) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	if err := checkBirthday(req.Birthday); err != nil {
		return nil, err
	}
	user := &domain.User{
		Email:    req.Email,
		Login:    req.Login,
		Name:     nameOrLogin(req.Name, req.Login),
		Birthday: req.Birthday,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "User created", slog.Int64("userID", user.ID), slog.String("login", user.Login))
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, req domain.UpdateUserRequest) (*domain.User, error) {
	if err := checkBirthday(req.Birthday); err != nil {
		return nil, err
	}
	user := &domain.User{
		ID:       req.ID,
		Email:    req.Email,
		Login:    req.Login,
		Name:     nameOrLogin(req.Name, req.Login),
		Birthday: req.Birthday,
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "User deleted", slog.Int64("userID", id))
	return nil
}

// AddFriend добавляет заявку в друзья. Оба пользователя должны
// существовать; заявка самому себе запрещена.
func (s *UserService) AddFriend(ctx context.Context, userID, friendID int64) (*domain.Friendship, error) {
	if userID == friendID {
		return nil, ErrSelfRelationship
	}
	if err := s.checkUsersExist(ctx, userID, friendID); err != nil {
		return nil, err
	}
	edge, err := s.users.AddFriend(ctx, userID, friendID)
	if err != nil {
		return nil, err
	}
	s.pub.Publish(ctx, newEvent(userID, friendID, domain.EventFriend, domain.OperationAdd))
	return edge, nil
}

func (s *UserService) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	if userID == friendID {
		return ErrSelfRelationship
	}
	if err := s.checkUsersExist(ctx, userID, friendID); err != nil {
		return err
	}
	if err := s.users.RemoveFriend(ctx, userID, friendID); err != nil {
		return err
	}
	s.pub.Publish(ctx, newEvent(userID, friendID, domain.EventFriend, domain.OperationRemove))
	return nil
}

// Friends возвращает адресатов всех исходящих записей пользователя -
// и заявки, и подтвержденную дружбу.
func (s *UserService) Friends(ctx context.Context, userID int64) ([]*domain.User, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	edges, err := s.users.FriendsOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	friends := make([]*domain.User, 0, len(edges))
	for _, edge := range edges {
		friend, err := s.users.GetByID(ctx, edge.AddresseeID)
		if err != nil {
			return nil, err
		}
		friends = append(friends, friend)
	}
	return friends, nil
}

func (s *UserService) MutualFriends(ctx context.Context, userID, otherID int64) ([]*domain.User, error) {
	if err := s.checkUsersExist(ctx, userID, otherID); err != nil {
		return nil, err
	}
	return s.users.MutualFriends(ctx, userID, otherID)
}

// Feed возвращает ленту событий пользователя в порядке записи.
func (s *UserService) Feed(ctx context.Context, userID int64) ([]*domain.FeedEvent, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.feed.ByUserID(ctx, userID)
}

func (s *UserService) checkUsersExist(ctx context.Context, ids ...int64) error {
	for _, id := range ids {
		if _, err := s.users.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func nameOrLogin(name, login string) string {
	if name == "" {
		return login
	}
	return name
}

func checkBirthday(birthday domain.Date) error {
	if birthday.After(time.Now()) {
		return ErrBirthdayInFuture
	}
	return nil
}

func newEvent(userID, entityID int64, eventType domain.EventType, op domain.Operation) *domain.FeedEvent {
	return &domain.FeedEvent{
		UserID:    userID,
		EntityID:  entityID,
		EventType: eventType,
		Operation: op,
		Timestamp: time.Now().UTC(),
	}
}
