package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"filmorate/internal/service"
	"filmorate/internal/store"
)

func respondJSON(logger *slog.Logger, w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logger.ErrorContext(r.Context(), "Failed to encode JSON response", slog.String("error", err.Error()), slog.String("path", r.URL.Path))
		}
	}
}

func respondError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, status int, message string) {
	respondJSON(logger, w, r, status, map[string]string{"error": message})
}

// respondServiceError транслирует ошибки сервисного слоя в HTTP-статусы:
// отсутствующие сущности - 404, нарушения бизнес-правил - 400,
// остальное - 500 без деталей.
func respondServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrFilmNotFound),
		errors.Is(err, store.ErrGenreNotFound),
		errors.Is(err, store.ErrMpaNotFound),
		errors.Is(err, store.ErrDirectorNotFound),
		errors.Is(err, store.ErrReviewNotFound),
		errors.Is(err, store.ErrFriendshipNotFound):
		respondError(logger, w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSelfRelationship),
		errors.Is(err, service.ErrBirthdayInFuture),
		errors.Is(err, service.ErrReleaseDateTooEarly),
		errors.Is(err, service.ErrInvalidYear),
		errors.Is(err, service.ErrInvalidSortKey),
		errors.Is(err, service.ErrEmptySearchQuery):
		respondError(logger, w, r, http.StatusBadRequest, err.Error())
	default:
		logger.ErrorContext(r.Context(), "Unhandled service error", slog.String("error", err.Error()), slog.String("path", r.URL.Path))
		respondError(logger, w, r, http.StatusInternalServerError, "internal server error")
	}
}

// pathID извлекает числовой параметр из пути.
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

// queryInt читает целочисленный query-параметр; пустое значение дает
// fallback, мусор - ошибку.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func queryInt64(r *http.Request, name string, fallback int64) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
