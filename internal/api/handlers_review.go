package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"filmorate/internal/domain"
	"filmorate/internal/service"
)

// Значение count по умолчанию для GET /reviews.
const defaultReviewCount = 10

// ReviewHandler содержит зависимости HTTP-обработчиков отзывов
// и голосов за их полезность.
type ReviewHandler struct {
	reviews   *service.ReviewService
	logger    *slog.Logger
	validator *validator.Validate
}

// NewReviewHandler создает новый экземпляр ReviewHandler.
func NewReviewHandler(reviews *service.ReviewService, l *slog.Logger, v *validator.Validate) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, logger: l, validator: v}
}

// CreateReview обрабатывает запрос на создание отзыва.
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "Failed to decode review creation request body", slog.String("error", err.Error()))
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validator.StructCtx(ctx, req); err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	review, err := h.reviews.CreateReview(ctx, req)
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusCreated, review)
}

// UpdateReview обрабатывает запрос на обновление текста и полярности.
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validator.StructCtx(ctx, req); err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	review, err := h.reviews.UpdateReview(ctx, req)
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusOK, review)
}

func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "reviewId")
	if err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid review id")
		return
	}
	if err := h.reviews.DeleteReview(r.Context(), id); err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusNoContent, nil)
}

func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "reviewId")
	if err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid review id")
		return
	}
	review, err := h.reviews.GetReview(r.Context(), id)
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusOK, review)
}

// ListReviews обрабатывает GET /reviews?filmId=&count=. Без filmId
// возвращаются отзывы по всем фильмам.
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	filmID, err := queryInt64(r, "filmId", 0)
	if err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid filmId")
		return
	}
	count, err := queryInt(r, "count", defaultReviewCount)
	if err != nil || count < 0 {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid count")
		return
	}
	reviews, err := h.reviews.ListReviews(r.Context(), filmID, count)
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusOK, reviews)
}

// AddLike обрабатывает PUT /reviews/{reviewId}/like/{userId}.
func (h *ReviewHandler) AddLike(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, true, false)
}

// AddDislike обрабатывает PUT /reviews/{reviewId}/dislike/{userId}.
func (h *ReviewHandler) AddDislike(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, false, false)
}

// RemoveLike обрабатывает DELETE /reviews/{reviewId}/like/{userId}.
func (h *ReviewHandler) RemoveLike(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, true, true)
}

// RemoveDislike обрабатывает DELETE /reviews/{reviewId}/dislike/{userId}.
func (h *ReviewHandler) RemoveDislike(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, false, true)
}

func (h *ReviewHandler) vote(w http.ResponseWriter, r *http.Request, isLike, remove bool) {
	reviewID, err := pathID(r, "reviewId")
	if err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid review id")
		return
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid user id")
		return
	}

	if remove {
		err = h.reviews.Unvote(r.Context(), reviewID, userID, isLike)
	} else {
		err = h.reviews.Vote(r.Context(), reviewID, userID, isLike)
	}
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusOK, nil)
}
