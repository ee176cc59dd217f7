package store

import (
	"context"
	"sort"
	"strings"

	"filmorate/internal/domain"
)

func (s *MemoryFilms) Create(ctx context.Context, film *domain.Film) error {
	m := s.db
	m.mu.Lock()
	defer m.mu.Unlock()

	film.ID = nextID(m.films)
	m.putFilm(film)
	return nil
}

func (s *MemoryFilms) Update(ctx context.Context, film *domain.Film) error {
	m := s.db
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.films[film.ID]; !ok {
		return ErrFilmNotFound
	}
	m.putFilm(film)
	return nil
}

func (m *Memory) putFilm(film *domain.Film) {
	record := &memFilm{film: *film, directorIDs: make(map[int64]struct{})}
	record.film.Likes = nil
	record.film.Directors = nil
	for _, d := range film.Directors {
		record.directorIDs[d.ID] = struct{}{}
	}
	m.films[film.ID] = record
	if m.likes[film.ID] == nil {
		m.likes[film.ID] = make(map[int64]struct{})
	}
}

// hydrateFilm собирает полную копию фильма: жанры, режиссеры из
// справочника, лайки из общей карты. Вызывать под мьютексом.
func (m *Memory) hydrateFilm(record *memFilm) *domain.Film {
	film := record.film

	film.Genres = append([]domain.Genre(nil), record.film.Genres...)
	sort.Slice(film.Genres, func(i, j int) bool { return film.Genres[i].ID < film.Genres[j].ID })

	for id := range record.directorIDs {
		if d, ok := m.directors[id]; ok {
			film.Directors = append(film.Directors, *d)
		}
	}
	sort.Slice(film.Directors, func(i, j int) bool { return film.Directors[i].ID < film.Directors[j].ID })

	for userID := range m.likes[film.ID] {
		film.Likes = append(film.Likes, userID)
	}
	sort.Slice(film.Likes, func(i, j int) bool { return film.Likes[i] < film.Likes[j] })

	return &film
}

func (s *MemoryFilms) List(ctx context.Context) ([]*domain.Film, error) {
	m := s.db
	m.mu.RLock()
	defer m.mu.RUnlock()

	films := make([]*domain.Film, 0, len(m.films))
	for _, record := range m.films {
		films = append(films, m.hydrateFilm(record))
	}
	sort.Slice(films, func(i, j int) bool { return films[i].ID < films[j].ID })
	return films, nil
}

func (s *MemoryFilms) GetByID(ctx context.Context, id int64) (*domain.Film, error) {
	m := s.db
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.films[id]
	if !ok {
		return nil, ErrFilmNotFound
	}
	return m.hydrateFilm(record), nil
}

func (s *MemoryFilms) Delete(ctx context.Context, id int64) error {
	m := s.db
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.films[id]; !ok {
		return ErrFilmNotFound
	}
	delete(m.films, id)
	delete(m.likes, id)

	for reviewID, review := range m.reviews {
		if review.FilmID == id {
			delete(m.reviews, reviewID)
			delete(m.reviewVotes, reviewID)
		}
	}
	return nil
}

func (s *MemoryFilms) FilmsByIDs(ctx context.Context, ids []int64) ([]*domain.Film, error) {
	m := s.db
	m.mu.RLock()
	defer m.mu.RUnlock()

	films := make([]*domain.Film, 0, len(ids))
	for _, id := range ids {
		if record, ok := m.films[id]; ok {
			films = append(films, m.hydrateFilm(record))
		}
	}
	sort.Slice(films, func(i, j int) bool { return films[i].ID < films[j].ID })
	return films, nil
}

func (s *MemoryFilms) AddLike(ctx context.Context, filmID, userID int64) error {
	m := s.db
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.films[filmID]; !ok {
		return ErrFilmNotFound
	}
	if m.likes[filmID] == nil {
		m.likes[filmID] = make(map[int64]struct{})
	}
	m.likes[filmID][userID] = struct{}{}
	return nil
}

func (s *MemoryFilms) RemoveLike(ctx context.Context, filmID, userID int64) error {
	m := s.db
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.films[filmID]; !ok {
		return ErrFilmNotFound
	}
	delete(m.likes[filmID], userID)
	return nil
}

func (s *MemoryFilms) LikesOf(ctx context.Context, filmID int64) ([]int64, error) {
	m := s.db
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.films[filmID]; !ok {
		return nil, ErrFilmNotFound
	}
	var userIDs []int64
	for userID := range m.likes[filmID] {
		userIDs = append(userIDs, userID)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })
	return userIDs, nil
}

func (s *MemoryFilms) PopularFilms(ctx context.Context, count int, genreID int64, year int) ([]*domain.Film, error) {
	m := s.db
	m.mu.RLock()
	defer m.mu.RUnlock()

	var films []*domain.Film
	for _, record := range m.films {
		if genreID != 0 && !hasGenre(record.film.Genres, genreID) {
			continue
		}
		if year != 0 && record.film.ReleaseDate.Year() != year {
			continue
		}
		films = append(films, m.hydrateFilm(record))
	}
	sortByLikesDesc(films)
	if count < len(films) {
		films = films[:count]
	}
	return films, nil
}

func (s *MemoryFilms) CommonFilms(ctx context.Context, userID, friendID int64) ([]*domain.Film, error) {
	m := s.db
	m.mu.RLock()
	defer m.mu.RUnlock()

	var films []*domain.Film
	for filmID, userIDs := range m.likes {
		_, likedByUser := userIDs[userID]
		_, likedByFriend := userIDs[friendID]
		if likedByUser && likedByFriend {
			films = append(films, m.hydrateFilm(m.films[filmID]))
		}
	}
	sortByLikesDesc(films)
	return films, nil
}

func (s *MemoryFilms) SearchByTitle(ctx context.Context, query string) ([]*domain.Film, error) {
	m := s.db
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.searchFilms(query, true, false), nil
}

func (s *MemoryFilms) SearchByDirector(ctx context.Context, query string) ([]*domain.Film, error) {
	m := s.db
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.searchFilms(query, false, true), nil
}

func (s *MemoryFilms) SearchByTitleAndDirector(ctx context.Context, query string) ([]*domain.Film, error) {
	m := s.db
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.searchFilms(query, true, true), nil
}

func (m *Memory) searchFilms(query string, byTitle, byDirector bool) []*domain.Film {
	query = strings.ToLower(query)
	var films []*domain.Film
	for _, record := range m.films {
		matched := byTitle && strings.Contains(strings.ToLower(record.film.Name), query)
		if !matched && byDirector {
			for id := range record.directorIDs {
				if d, ok := m.directors[id]; ok && strings.Contains(strings.ToLower(d.Name), query) {
					matched = true
					break
				}
			}
		}
		if matched {
			films = append(films, m.hydrateFilm(record))
		}
	}
	sort.Slice(films, func(i, j int) bool { return films[i].ID < films[j].ID })
	return films
}

func (s *MemoryFilms) CreateDirector(ctx context.Context, director *domain.Director) error {
	m := s.db
	m.mu.Lock()
	defer m.mu.Unlock()

	director.ID = nextID(m.directors)
	directorCopy := *director
	m.directors[director.ID] = &directorCopy
	return nil
}

func (s *MemoryFilms) UpdateDirector(ctx context.Context, director *domain.Director) error {
	m := s.db
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.directors[director.ID]; !ok {
		return ErrDirectorNotFound
	}
	directorCopy := *director
	m.directors[director.ID] = &directorCopy
	return nil
}

func (s *MemoryFilms) DeleteDirector(ctx context.Context, id int64) error {
	m := s.db
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.directors[id]; !ok {
		return ErrDirectorNotFound
	}
	delete(m.directors, id)
	for _, record := range m.films {
		delete(record.directorIDs, id)
	}
	return nil
}

func (s *MemoryFilms) GetDirectorByID(ctx context.Context, id int64) (*domain.Director, error) {
	m := s.db
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.directors[id]
	if !ok {
		return nil, ErrDirectorNotFound
	}
	directorCopy := *d
	return &directorCopy, nil
}

func (s *MemoryFilms) ListDirectors(ctx context.Context) ([]*domain.Director, error) {
	m := s.db
	m.mu.RLock()
	defer m.mu.RUnlock()

	directors := make([]*domain.Director, 0, len(m.directors))
	for _, d := range m.directors {
		directorCopy := *d
		directors = append(directors, &directorCopy)
	}
	sort.Slice(directors, func(i, j int) bool { return directors[i].ID < directors[j].ID })
	return directors, nil
}

func (s *MemoryFilms) FilmsByDirector(ctx context.Context, directorID int64, sortBy string) ([]*domain.Film, error) {
	m := s.db
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.directors[directorID]; !ok {
		return nil, ErrDirectorNotFound
	}
	var films []*domain.Film
	for _, record := range m.films {
		if _, ok := record.directorIDs[directorID]; ok {
			films = append(films, m.hydrateFilm(record))
		}
	}
	switch sortBy {
	case SortByYear:
		sort.Slice(films, func(i, j int) bool {
			return films[i].ReleaseDate.Before(films[j].ReleaseDate.Time)
		})
	default: // SortByLikes
		sortByLikesDesc(films)
	}
	return films, nil
}

func hasGenre(genres []domain.Genre, genreID int64) bool {
	for _, g := range genres {
		if g.ID == genreID {
			return true
		}
	}
	return false
}

// sortByLikesDesc упорядочивает по убыванию числа лайков; при
// равенстве - по возрастанию id, чтобы выдача была детерминированной.
func sortByLikesDesc(films []*domain.Film) {
	sort.Slice(films, func(i, j int) bool {
		if len(films[i].Likes) != len(films[j].Likes) {
			return len(films[i].Likes) > len(films[j].Likes)
		}
		return films[i].ID < films[j].ID
	})
}
