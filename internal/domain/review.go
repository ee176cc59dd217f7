package domain

// Review представляет отзыв на фильм с накопленной оценкой полезности.
// Useful - сумма голосов: лайк +1, дизлайк -1, ограничений нет,
// значение может быть отрицательным.
type Review struct {
	ID         int64  `json:"reviewId" db:"review_id"`
	Content    string `json:"content" db:"content"`
	IsPositive *bool  `json:"isPositive" db:"is_positive"`
	UserID     int64  `json:"userId" db:"user_id"`
	FilmID     int64  `json:"filmId" db:"film_id"`
	Useful     int    `json:"useful" db:"useful"`
}

// ReviewVote - голос пользователя за отзыв; не более одного голоса
// на пару (reviewId, userId), повторный голос другой полярности
// заменяет предыдущий.
type ReviewVote struct {
	ReviewID int64 `db:"review_id"`
	UserID   int64 `db:"user_id"`
	IsLike   bool  `db:"is_like"`
}

// CreateReviewRequest определяет тело запроса для создания отзыва.
// IsPositive - указатель, чтобы отличать пропущенное поле от false.
type CreateReviewRequest struct {
	Content    string `json:"content" validate:"required"`
	IsPositive *bool  `json:"isPositive" validate:"required"`
	UserID     int64  `json:"userId" validate:"required"`
	FilmID     int64  `json:"filmId" validate:"required"`
}

// UpdateReviewRequest определяет тело запроса для обновления отзыва.
// Меняются только текст и полярность; автор и фильм неизменны.
type UpdateReviewRequest struct {
	ID         int64  `json:"reviewId" validate:"required"`
	Content    string `json:"content" validate:"required"`
	IsPositive *bool  `json:"isPositive" validate:"required"`
}
