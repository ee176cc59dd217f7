package store

import (
	"context"
	"sort"

	"filmorate/internal/domain"
)

func (s *MemoryUsers) Create(ctx context.Context, user *domain.User) error {
	m := s.db
	m.mu.Lock()
	defer m.mu.Unlock()

	user.ID = nextID(m.users)
	userCopy := *user
	m.users[user.ID] = &userCopy
	return nil
}

func (s *MemoryUsers) Update(ctx context.Context, user *domain.User) error {
	m := s.db
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; !ok {
		return ErrUserNotFound
	}
	userCopy := *user
	m.users[user.ID] = &userCopy
	return nil
}

func (s *MemoryUsers) List(ctx context.Context) ([]*domain.User, error) {
	m := s.db
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		userCopy := *u
		users = append(users, &userCopy)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *MemoryUsers) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	m := s.db
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	userCopy := *u
	return &userCopy, nil
}

func (s *MemoryUsers) Delete(ctx context.Context, id int64) error {
	m := s.db
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(m.users, id)

	// Дружба в обе стороны.
	delete(m.friends, id)
	for _, addressees := range m.friends {
		delete(addressees, id)
	}

	// Лайки фильмов.
	for _, userIDs := range m.likes {
		delete(userIDs, id)
	}

	// Голоса за отзывы - с откатом вклада в useful.
	for reviewID, votes := range m.reviewVotes {
		if isLike, ok := votes[id]; ok {
			delete(votes, id)
			if review, found := m.reviews[reviewID]; found {
				review.Useful -= voteDelta(isLike)
			}
		}
	}

	// Отзывы, написанные пользователем.
	for reviewID, review := range m.reviews {
		if review.UserID == id {
			delete(m.reviews, reviewID)
			delete(m.reviewVotes, reviewID)
		}
	}
	return nil
}

func (s *MemoryUsers) AddFriend(ctx context.Context, requesterID, addresseeID int64) (*domain.Friendship, error) {
	m := s.db
	m.mu.Lock()
	defer m.mu.Unlock()

	var (
		reverseStatus, directStatus domain.FriendshipStatus
		reverseExists, directExists bool
	)
	if addressees, ok := m.friends[addresseeID]; ok {
		reverseStatus, reverseExists = addressees[requesterID]
	}
	if addressees, ok := m.friends[requesterID]; ok {
		directStatus, directExists = addressees[addresseeID]
	}

	if reverseExists && reverseStatus == domain.StatusUnconfirmed {
		// Встречная заявка уже есть: обе записи становятся
		// подтвержденными за одно взятие мьютекса.
		m.setFriend(addresseeID, requesterID, domain.StatusConfirmed)
		m.setFriend(requesterID, addresseeID, domain.StatusConfirmed)
		return &domain.Friendship{RequesterID: requesterID, AddresseeID: addresseeID, Status: domain.StatusConfirmed}, nil
	}

	if directExists {
		// Повторная заявка - no-op, возвращаем текущую запись.
		return &domain.Friendship{RequesterID: requesterID, AddresseeID: addresseeID, Status: directStatus}, nil
	}

	m.setFriend(requesterID, addresseeID, domain.StatusUnconfirmed)
	return &domain.Friendship{RequesterID: requesterID, AddresseeID: addresseeID, Status: domain.StatusUnconfirmed}, nil
}

func (m *Memory) setFriend(requesterID, addresseeID int64, status domain.FriendshipStatus) {
	if m.friends[requesterID] == nil {
		m.friends[requesterID] = make(map[int64]domain.FriendshipStatus)
	}
	m.friends[requesterID][addresseeID] = status
}

func (s *MemoryUsers) RemoveFriend(ctx context.Context, requesterID, addresseeID int64) error {
	m := s.db
	m.mu.Lock()
	defer m.mu.Unlock()

	if addressees, ok := m.friends[requesterID]; ok {
		delete(addressees, addresseeID)
	}

	// Дружба перестала быть взаимной: встречная подтвержденная
	// запись возвращается в состояние заявки.
	if addressees, ok := m.friends[addresseeID]; ok {
		if addressees[requesterID] == domain.StatusConfirmed {
			addressees[requesterID] = domain.StatusUnconfirmed
		}
	}
	return nil
}

func (s *MemoryUsers) FriendsOf(ctx context.Context, userID int64) ([]domain.Friendship, error) {
	m := s.db
	m.mu.RLock()
	defer m.mu.RUnlock()

	edges := make([]domain.Friendship, 0, len(m.friends[userID]))
	for addresseeID, status := range m.friends[userID] {
		edges = append(edges, domain.Friendship{RequesterID: userID, AddresseeID: addresseeID, Status: status})
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].AddresseeID < edges[j].AddresseeID })
	return edges, nil
}

func (s *MemoryUsers) MutualFriends(ctx context.Context, userID, otherID int64) ([]*domain.User, error) {
	m := s.db
	m.mu.RLock()
	defer m.mu.RUnlock()

	var mutual []*domain.User
	for addresseeID := range m.friends[userID] {
		if _, ok := m.friends[otherID][addresseeID]; !ok {
			continue
		}
		if u, found := m.users[addresseeID]; found {
			userCopy := *u
			mutual = append(mutual, &userCopy)
		}
	}
	sort.Slice(mutual, func(i, j int) bool { return mutual[i].ID < mutual[j].ID })
	return mutual, nil
}

func (s *MemoryUsers) LikesByUser(ctx context.Context, userID int64) ([]int64, error) {
	m := s.db
	m.mu.RLock()
	defer m.mu.RUnlock()

	var filmIDs []int64
	for filmID, userIDs := range m.likes {
		if _, ok := userIDs[userID]; ok {
			filmIDs = append(filmIDs, filmID)
		}
	}
	sort.Slice(filmIDs, func(i, j int) bool { return filmIDs[i] < filmIDs[j] })
	return filmIDs, nil
}

func (s *MemoryUsers) AllLikesByUser(ctx context.Context) (map[int64][]int64, error) {
	m := s.db
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[int64][]int64)
	for filmID, userIDs := range m.likes {
		for userID := range userIDs {
			result[userID] = append(result[userID], filmID)
		}
	}
	return result, nil
}
