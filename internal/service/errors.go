package service

import "errors"

// Ошибки бизнес-валидации. Обработчики транслируют их в HTTP 400.
var (
	ErrSelfRelationship    = errors.New("user cannot reference themselves")
	ErrBirthdayInFuture    = errors.New("birthday cannot be in the future")
	ErrReleaseDateTooEarly = errors.New("release date is before the first film screening")
	ErrInvalidYear         = errors.New("year predates cinema")
	ErrInvalidSortKey      = errors.New("unknown sort key")
	ErrEmptySearchQuery    = errors.New("search query cannot be empty")
)
