package api

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator создает валидатор запросов с доменными правилами.
// Правило nospace запрещает пробельные символы в поле: тегом
// excludesall его не выразить, пробел ломает разбор параметров тега.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("nospace", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), " \t")
	})
	return v
}
