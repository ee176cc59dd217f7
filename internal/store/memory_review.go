package store

import (
	"context"
	"sort"

	"filmorate/internal/domain"
)

func (s *MemoryReviews) Create(ctx context.Context, review *domain.Review) error {
	m := s.db
	m.mu.Lock()
	defer m.mu.Unlock()

	review.ID = nextID(m.reviews)
	review.Useful = 0
	reviewCopy := *review
	m.reviews[review.ID] = &reviewCopy
	return nil
}

func (s *MemoryReviews) Update(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	m := s.db
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.reviews[review.ID]
	if !ok {
		return nil, ErrReviewNotFound
	}
	// Автор, фильм и накопленный useful при обновлении не меняются.
	existing.Content = review.Content
	existing.IsPositive = review.IsPositive
	reviewCopy := *existing
	return &reviewCopy, nil
}

func (s *MemoryReviews) Delete(ctx context.Context, id int64) error {
	m := s.db
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reviews[id]; !ok {
		return ErrReviewNotFound
	}
	delete(m.reviews, id)
	delete(m.reviewVotes, id)
	return nil
}

func (s *MemoryReviews) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	m := s.db
	m.mu.RLock()
	defer m.mu.RUnlock()

	review, ok := m.reviews[id]
	if !ok {
		return nil, ErrReviewNotFound
	}
	reviewCopy := *review
	return &reviewCopy, nil
}

func (s *MemoryReviews) ListByFilm(ctx context.Context, filmID int64, count int) ([]*domain.Review, error) {
	m := s.db
	m.mu.RLock()
	defer m.mu.RUnlock()

	var reviews []*domain.Review
	for _, review := range m.reviews {
		if review.FilmID == filmID {
			reviewCopy := *review
			reviews = append(reviews, &reviewCopy)
		}
	}
	return limitByUseful(reviews, count), nil
}

func (s *MemoryReviews) ListAll(ctx context.Context, count int) ([]*domain.Review, error) {
	m := s.db
	m.mu.RLock()
	defer m.mu.RUnlock()

	reviews := make([]*domain.Review, 0, len(m.reviews))
	for _, review := range m.reviews {
		reviewCopy := *review
		reviews = append(reviews, &reviewCopy)
	}
	return limitByUseful(reviews, count), nil
}

func (s *MemoryReviews) AddVote(ctx context.Context, reviewID, userID int64, isLike bool) error {
	m := s.db
	m.mu.Lock()
	defer m.mu.Unlock()

	review, ok := m.reviews[reviewID]
	if !ok {
		return ErrReviewNotFound
	}

	if votes, found := m.reviewVotes[reviewID]; found {
		if existing, voted := votes[userID]; voted {
			if existing == isLike {
				// Повторный голос той же полярности не удваивается.
				return nil
			}
			// Смена полярности: откатываем старый вклад и пишем новый,
			// итоговый сдвиг useful равен ±2.
			review.Useful -= voteDelta(existing)
		}
	}
	if m.reviewVotes[reviewID] == nil {
		m.reviewVotes[reviewID] = make(map[int64]bool)
	}
	m.reviewVotes[reviewID][userID] = isLike
	review.Useful += voteDelta(isLike)
	return nil
}

func (s *MemoryReviews) RemoveVote(ctx context.Context, reviewID, userID int64, isLike bool) error {
	m := s.db
	m.mu.Lock()
	defer m.mu.Unlock()

	review, ok := m.reviews[reviewID]
	if !ok {
		return ErrReviewNotFound
	}
	votes, found := m.reviewVotes[reviewID]
	if !found {
		return nil
	}
	existing, voted := votes[userID]
	if !voted || existing != isLike {
		// Голоса указанной полярности нет - состояние не меняется.
		return nil
	}
	delete(votes, userID)
	review.Useful -= voteDelta(isLike)
	return nil
}

func voteDelta(isLike bool) int {
	if isLike {
		return 1
	}
	return -1
}

// limitByUseful сортирует по убыванию useful (при равенстве - по id)
// и обрезает до count элементов.
func limitByUseful(reviews []*domain.Review, count int) []*domain.Review {
	sort.Slice(reviews, func(i, j int) bool {
		if reviews[i].Useful != reviews[j].Useful {
			return reviews[i].Useful > reviews[j].Useful
		}
		return reviews[i].ID < reviews[j].ID
	})
	if count >= 0 && count < len(reviews) {
		reviews = reviews[:count]
	}
	return reviews
}

func (s *MemoryFeed) Append(ctx context.Context, event *domain.FeedEvent) error {
	m := s.db
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextEventID++
	event.EventID = m.nextEventID
	eventCopy := *event
	m.feed = append(m.feed, &eventCopy)
	return nil
}

func (s *MemoryFeed) ByUserID(ctx context.Context, userID int64) ([]*domain.FeedEvent, error) {
	m := s.db
	m.mu.RLock()
	defer m.mu.RUnlock()

	var events []*domain.FeedEvent
	for _, event := range m.feed {
		if event.UserID == userID {
			eventCopy := *event
			events = append(events, &eventCopy)
		}
	}
	return events, nil
}
