package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"filmorate/internal/domain"
	"filmorate/internal/service"
)

// Значение count по умолчанию для GET /films/popular.
const defaultPopularCount = 10

// FilmHandler содержит зависимости HTTP-обработчиков фильмов, лайков,
// справочников и режиссеров.
type FilmHandler struct {
	films     *service.FilmService
	logger    *slog.Logger
	validator *validator.Validate
}

// NewFilmHandler создает новый экземпляр FilmHandler.
func NewFilmHandler(films *service.FilmService, l *slog.Logger, v *validator.Validate) *FilmHandler {
	return &FilmHandler{films: films, logger: l, validator: v}
}

// CreateFilm обрабатывает запрос на создание фильма.
func (h *FilmHandler) CreateFilm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.CreateFilmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "Failed to decode film creation request body", slog.String("error", err.Error()))
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validator.StructCtx(ctx, req); err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	film, err := h.films.CreateFilm(ctx, req)
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusCreated, film)
}

// UpdateFilm обрабатывает запрос на обновление фильма целиком.
func (h *FilmHandler) UpdateFilm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.UpdateFilmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validator.StructCtx(ctx, req); err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	film, err := h.films.UpdateFilm(ctx, req)
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusOK, film)
}

func (h *FilmHandler) ListFilms(w http.ResponseWriter, r *http.Request) {
	films, err := h.films.ListFilms(r.Context())
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusOK, films)
}

func (h *FilmHandler) GetFilm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "filmId")
	if err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid film id")
		return
	}
	film, err := h.films.GetFilm(r.Context(), id)
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusOK, film)
}

func (h *FilmHandler) DeleteFilm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "filmId")
	if err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid film id")
		return
	}
	if err := h.films.DeleteFilm(r.Context(), id); err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusNoContent, nil)
}

// AddLike обрабатывает PUT /films/{filmId}/like/{userId}.
func (h *FilmHandler) AddLike(w http.ResponseWriter, r *http.Request) {
	filmID, userID, ok := h.likePairIDs(w, r)
	if !ok {
		return
	}
	if err := h.films.AddLike(r.Context(), filmID, userID); err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusOK, nil)
}

func (h *FilmHandler) RemoveLike(w http.ResponseWriter, r *http.Request) {
	filmID, userID, ok := h.likePairIDs(w, r)
	if !ok {
		return
	}
	if err := h.films.RemoveLike(r.Context(), filmID, userID); err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusOK, nil)
}

func (h *FilmHandler) likePairIDs(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	filmID, err := pathID(r, "filmId")
	if err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid film id")
		return 0, 0, false
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid user id")
		return 0, 0, false
	}
	return filmID, userID, true
}

// PopularFilms обрабатывает GET /films/popular?count=&genreId=&year=.
func (h *FilmHandler) PopularFilms(w http.ResponseWriter, r *http.Request) {
	count, err := queryInt(r, "count", defaultPopularCount)
	if err != nil || count < 0 {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid count")
		return
	}
	genreID, err := queryInt64(r, "genreId", 0)
	if err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid genreId")
		return
	}
	year, err := queryInt(r, "year", 0)
	if err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid year")
		return
	}

	films, err := h.films.PopularFilms(r.Context(), count, genreID, year)
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusOK, films)
}

// CommonFilms обрабатывает GET /films/common?userId=&friendId=.
func (h *FilmHandler) CommonFilms(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt64(r, "userId", 0)
	if err != nil || userID == 0 {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid userId")
		return
	}
	friendID, err := queryInt64(r, "friendId", 0)
	if err != nil || friendID == 0 {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid friendId")
		return
	}
	films, err := h.films.CommonFilms(r.Context(), userID, friendID)
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusOK, films)
}

// SearchFilms обрабатывает GET /films/search?query=&by=.
// by - список через запятую из "title" и "director"; по умолчанию "title".
func (h *FilmHandler) SearchFilms(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	by := r.URL.Query().Get("by")
	if by == "" {
		by = "title"
	}

	var byTitle, byDirector bool
	for _, token := range strings.Split(by, ",") {
		switch strings.TrimSpace(token) {
		case "title":
			byTitle = true
		case "director":
			byDirector = true
		default:
			respondError(h.logger, w, r, http.StatusBadRequest, "Invalid 'by' parameter: "+token)
			return
		}
	}

	films, err := h.films.SearchFilms(r.Context(), query, byTitle, byDirector)
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusOK, films)
}

// FilmsByDirector обрабатывает GET /films/director/{directorId}?sortBy=.
func (h *FilmHandler) FilmsByDirector(w http.ResponseWriter, r *http.Request) {
	directorID, err := pathID(r, "directorId")
	if err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid director id")
		return
	}
	films, err := h.films.FilmsByDirector(r.Context(), directorID, r.URL.Query().Get("sortBy"))
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusOK, films)
}

func (h *FilmHandler) Genres(w http.ResponseWriter, r *http.Request) {
	respondJSON(h.logger, w, r, http.StatusOK, h.films.Genres(r.Context()))
}

func (h *FilmHandler) GenreByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "genreId")
	if err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid genre id")
		return
	}
	genre, err := h.films.GenreByID(r.Context(), id)
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusOK, genre)
}

func (h *FilmHandler) Mpas(w http.ResponseWriter, r *http.Request) {
	respondJSON(h.logger, w, r, http.StatusOK, h.films.Mpas(r.Context()))
}

func (h *FilmHandler) MpaByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "mpaId")
	if err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid mpa id")
		return
	}
	mpa, err := h.films.MpaByID(r.Context(), id)
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusOK, mpa)
}

// CreateDirector обрабатывает запрос на создание режиссера.
func (h *FilmHandler) CreateDirector(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.CreateDirectorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validator.StructCtx(ctx, req); err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	director, err := h.films.CreateDirector(ctx, req)
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusCreated, director)
}

func (h *FilmHandler) UpdateDirector(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.UpdateDirectorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validator.StructCtx(ctx, req); err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	director, err := h.films.UpdateDirector(ctx, req)
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusOK, director)
}

func (h *FilmHandler) DeleteDirector(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "directorId")
	if err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid director id")
		return
	}
	if err := h.films.DeleteDirector(r.Context(), id); err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusNoContent, nil)
}

func (h *FilmHandler) GetDirector(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "directorId")
	if err != nil {
		respondError(h.logger, w, r, http.StatusBadRequest, "Invalid director id")
		return
	}
	director, err := h.films.GetDirector(r.Context(), id)
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusOK, director)
}

func (h *FilmHandler) ListDirectors(w http.ResponseWriter, r *http.Request) {
	directors, err := h.films.ListDirectors(r.Context())
	if err != nil {
		respondServiceError(h.logger, w, r, err)
		return
	}
	respondJSON(h.logger, w, r, http.StatusOK, directors)
}
