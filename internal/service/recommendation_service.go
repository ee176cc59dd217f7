package service

import (
	"context"
	"log/slog"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

// RecommendationService подбирает фильмы по лайкам ближайшего по
// вкусам пользователя (коллаборативная фильтрация с k=1).
type RecommendationService struct {
	users  store.UserStore
	films  store.FilmStore
	logger *slog.Logger
}

// NewRecommendationService создает новый экземпляр RecommendationService.
func NewRecommendationService(users store.UserStore, films store.FilmStore, logger *slog.Logger) *RecommendationService {
	return &RecommendationService{users: users, films: films, logger: logger}
}

// Recommendations возвращает фильмы, которые лайкнул самый похожий
// пользователь, но еще не лайкнул сам пользователь. Похожесть - размер
// пересечения множеств лайков; требуется хотя бы один общий лайк, при
// равенстве выбирается пользователь с меньшим id. Пользователь без
// лайков получает пустой список.
func (s *RecommendationService) Recommendations(ctx context.Context, userID int64) ([]*domain.Film, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	likesByUser, err := s.users.AllLikesByUser(ctx)
	if err != nil {
		return nil, err
	}
	own := make(map[int64]struct{}, len(likesByUser[userID]))
	for _, filmID := range likesByUser[userID] {
		own[filmID] = struct{}{}
	}
	if len(own) == 0 {
		return []*domain.Film{}, nil
	}

	var (
		peerID      int64
		peerOverlap int
	)
	for otherID, filmIDs := range likesByUser {
		if otherID == userID {
			continue
		}
		overlap := 0
		for _, filmID := range filmIDs {
			if _, ok := own[filmID]; ok {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}
		if overlap > peerOverlap || (overlap == peerOverlap && otherID < peerID) {
			peerID = otherID
			peerOverlap = overlap
		}
	}
	if peerOverlap == 0 {
		return []*domain.Film{}, nil
	}

	var candidateIDs []int64
	for _, filmID := range likesByUser[peerID] {
		if _, liked := own[filmID]; !liked {
			candidateIDs = append(candidateIDs, filmID)
		}
	}
	if len(candidateIDs) == 0 {
		return []*domain.Film{}, nil
	}

	s.logger.DebugContext(ctx, "Recommendation peer selected",
		slog.Int64("userID", userID), slog.Int64("peerID", peerID), slog.Int("overlap", peerOverlap))
	return s.films.FilmsByIDs(ctx, candidateIDs)
}
