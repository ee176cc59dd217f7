package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"filmorate/internal/domain"
	"filmorate/internal/service"
)

// UserHandler содержит зависимости HTTP-обработчиков пользователей,
// дружбы, рекомендаций и ленты событий.
type UserHandler struct {
	users     *service.UserService
	recs      *service.RecommendationService
	logger    *slog.Logger
	validator *validator.Validate
}

// NewUserHandler создает новый экземпляр UserHandler.
func NewUserHandler(users *service.UserService, recs *service.RecommendationService, l *slog.Logger, v *validator.Validate) *UserHandler {
	return &UserHandler{users: users, recs: recs, logger: l, validator: v}
}

// CreateUser обрабатывает запрос на создание пользователя.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "Failed to decode user creation request body", slog.String("error", err.Error()))
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validator.StructCtx(ctx, req); err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	user, err := h.users.CreateUser(ctx, req)
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusCreated, user)
}

// UpdateUser обрабатывает запрос на обновление пользователя целиком.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validator.StructCtx(ctx, req); err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	user, err := h.users.UpdateUser(ctx, req)
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusOK, user)
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusOK, users)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid user id")
		return
	}
	user, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid user id")
		return
	}
	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusNoContent, nil)
}

// AddFriend обрабатывает PUT /users/{userId}/friends/{friendId}.
func (h *UserHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	userID, friendID, ok := h.friendPairIDs(w, r)
	if !ok {
		return
	}
	edge, err := h.users.AddFriend(r.Context(), userID, friendID)
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusOK, edge)
}

func (h *UserHandler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	userID, friendID, ok := h.friendPairIDs(w, r)
	if !ok {
		return
	}
	if err := h.users.RemoveFriend(r.Context(), userID, friendID); err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusOK, nil)
}

func (h *UserHandler) friendPairIDs(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	userID, err := pathID(r, "userId")
	if err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid user id")
		return 0, 0, false
	}
	friendID, err := pathID(r, "friendId")
	if err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid friend id")
		return 0, 0, false
	}
	return userID, friendID, true
}

func (h *UserHandler) Friends(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid user id")
		return
	}
	friends, err := h.users.Friends(r.Context(), userID)
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusOK, friends)
}

// MutualFriends обрабатывает GET /users/{userId}/friends/common/{otherId}.
func (h *UserHandler) MutualFriends(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid user id")
		return
	}
	otherID, err := pathID(r, "otherId")
	if err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid user id")
		return
	}
	mutual, err := h.users.MutualFriends(r.Context(), userID, otherID)
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusOK, mutual)
}

// Recommendations обрабатывает GET /users/{userId}/recommendations.
func (h *UserHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid user id")
		return
	}
	films, err := h.recs.Recommendations(r.Context(), userID)
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusOK, films)
}

// Feed обрабатывает GET /users/{userId}/feed.
func (h *UserHandler) Feed(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid user id")
		return
	}
	feed, err := h.users.Feed(r.Context(), userID)
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusOK, feed)
}
