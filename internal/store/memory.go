package store

import (
	"sync"

	"filmorate/internal/domain"
)

// Memory - общее in-memory состояние для всех хранилищ. Используется
// в тестах и при запуске без БД. Наружу отдаются представления
// Users()/Films()/Reviews()/Feed(), реализующие соответствующие
// интерфейсы поверх одних и тех же карт: лайки и дружба видны со
// стороны и фильмов, и пользователей, как и в реляционной схеме.
// Все операции защищены одним RWMutex, поэтому многошаговые изменения
// (взаимное подтверждение дружбы, перенос голоса) атомарны.
type Memory struct {
	mu sync.RWMutex

	users   map[int64]*domain.User
	friends map[int64]map[int64]domain.FriendshipStatus // requester -> addressee -> status

	films       map[int64]*memFilm
	likes       map[int64]map[int64]struct{} // filmID -> userIDs
	directors   map[int64]*domain.Director
	reviews     map[int64]*domain.Review
	reviewVotes map[int64]map[int64]bool // reviewID -> userID -> isLike

	feed        []*domain.FeedEvent
	nextEventID int64
}

// memFilm хранит фильм без производных полей: лайки лежат в общей
// карте, режиссеры - набором id (имена подтягиваются при чтении).
type memFilm struct {
	film        domain.Film
	directorIDs map[int64]struct{}
}

// NewMemory создает пустое in-memory хранилище.
func NewMemory() *Memory {
	return &Memory{
		users:       make(map[int64]*domain.User),
		friends:     make(map[int64]map[int64]domain.FriendshipStatus),
		films:       make(map[int64]*memFilm),
		likes:       make(map[int64]map[int64]struct{}),
		directors:   make(map[int64]*domain.Director),
		reviews:     make(map[int64]*domain.Review),
		reviewVotes: make(map[int64]map[int64]bool),
	}
}

// MemoryUsers реализует UserStore.
type MemoryUsers struct{ db *Memory }

// MemoryFilms реализует FilmStore.
type MemoryFilms struct{ db *Memory }

// MemoryReviews реализует ReviewStore.
type MemoryReviews struct{ db *Memory }

// MemoryFeed реализует FeedStore.
type MemoryFeed struct{ db *Memory }

func (m *Memory) Users() *MemoryUsers     { return &MemoryUsers{db: m} }
func (m *Memory) Films() *MemoryFilms     { return &MemoryFilms{db: m} }
func (m *Memory) Reviews() *MemoryReviews { return &MemoryReviews{db: m} }
func (m *Memory) Feed() *MemoryFeed       { return &MemoryFeed{db: m} }

// nextID возвращает max(существующих id)+1 - семантика выдачи id
// в варианте без БД.
func nextID[T any](m map[int64]T) int64 {
	var max int64
	for id := range m {
		if id > max {
			max = id
		}
	}
	return max + 1
}
