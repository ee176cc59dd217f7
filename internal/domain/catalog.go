package domain

import "sort"

// Справочники жанров и возрастных рейтингов фиксированы: вместо
// switch по числовым кодам (как в раннем варианте) - таблицы,
// собираемые при старте пакета. Неизвестный id - ошибка NotFound
// на уровне хранилища.

// Genre представляет жанр фильма из фиксированного справочника.
type Genre struct {
	ID   int64  `json:"id" db:"genre_id"`
	Name string `json:"name" db:"name"`
}

// Mpa представляет возрастной рейтинг MPA из фиксированного справочника.
type Mpa struct {
	ID          int64  `json:"id" db:"mpa_id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description,omitempty" db:"description"`
}

var genreTable = map[int64]Genre{
	1: {ID: 1, Name: "Комедия"},
	2: {ID: 2, Name: "Драма"},
	3: {ID: 3, Name: "Мультфильм"},
	4: {ID: 4, Name: "Триллер"},
	5: {ID: 5, Name: "Документальный"},
	6: {ID: 6, Name: "Боевик"},
}

var mpaTable = map[int64]Mpa{
	1: {ID: 1, Name: "G", Description: "У фильма нет возрастных ограничений"},
	2: {ID: 2, Name: "PG", Description: "Детям рекомендуется смотреть фильм с родителями"},
	3: {ID: 3, Name: "PG-13", Description: "Детям до 13 лет просмотр не желателен"},
	4: {ID: 4, Name: "R", Description: "Лицам до 17 лет просматривать фильм можно только в присутствии взрослого"},
	5: {ID: 5, Name: "NC-17", Description: "Лицам до 18 лет просмотр запрещён"},
}

// GenreByID возвращает жанр по id справочника.
func GenreByID(id int64) (Genre, bool) {
	g, ok := genreTable[id]
	return g, ok
}

// MpaByID возвращает рейтинг по id справочника.
func MpaByID(id int64) (Mpa, bool) {
	m, ok := mpaTable[id]
	return m, ok
}

// AllGenres возвращает все жанры, отсортированные по id.
func AllGenres() []Genre {
	genres := make([]Genre, 0, len(genreTable))
	for _, g := range genreTable {
		genres = append(genres, g)
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].ID < genres[j].ID })
	return genres
}

// AllMpas возвращает все рейтинги, отсортированные по id.
func AllMpas() []Mpa {
	mpas := make([]Mpa, 0, len(mpaTable))
	for _, m := range mpaTable {
		mpas = append(mpas, m)
	}
	sort.Slice(mpas, func(i, j int) bool { return mpas[i].ID < mpas[j].ID })
	return mpas
}
