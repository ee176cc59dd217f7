package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter собирает все маршруты API. Конкретные пути (popular,
// common, search, director) регистрируются раньше шаблонных, чтобы
// не перехватывались {filmId}.
func NewRouter(users *UserHandler, films *FilmHandler, reviews *ReviewHandler) *mux.Router {
	router := mux.NewRouter()

	usersRouter := router.PathPrefix("/users").Subrouter()
	usersRouter.HandleFunc("", users.CreateUser).Methods(http.MethodPost)
	usersRouter.HandleFunc("", users.UpdateUser).Methods(http.MethodPut)
	usersRouter.HandleFunc("", users.ListUsers).Methods(http.MethodGet)
	usersRouter.HandleFunc("/{userId}", users.GetUser).Methods(http.MethodGet)
	usersRouter.HandleFunc("/{userId}", users.DeleteUser).Methods(http.MethodDelete)
	usersRouter.HandleFunc("/{userId}/friends", users.Friends).Methods(http.MethodGet)
	usersRouter.HandleFunc("/{userId}/friends/common/{otherId}", users.MutualFriends).Methods(http.MethodGet)
	usersRouter.HandleFunc("/{userId}/friends/{friendId}", users.AddFriend).Methods(http.MethodPut)
	usersRouter.HandleFunc("/{userId}/friends/{friendId}", users.RemoveFriend).Methods(http.MethodDelete)
	usersRouter.HandleFunc("/{userId}/recommendations", users.Recommendations).Methods(http.MethodGet)
	usersRouter.HandleFunc("/{userId}/feed", users.Feed).Methods(http.MethodGet)

	filmsRouter := router.PathPrefix("/films").Subrouter()
	filmsRouter.HandleFunc("", films.CreateFilm).Methods(http.MethodPost)
	filmsRouter.HandleFunc("", films.UpdateFilm).Methods(http.MethodPut)
	filmsRouter.HandleFunc("", films.ListFilms).Methods(http.MethodGet)
	filmsRouter.HandleFunc("/popular", films.PopularFilms).Methods(http.MethodGet)
	filmsRouter.HandleFunc("/common", films.CommonFilms).Methods(http.MethodGet)
	filmsRouter.HandleFunc("/search", films.SearchFilms).Methods(http.MethodGet)
	filmsRouter.HandleFunc("/director/{directorId}", films.FilmsByDirector).Methods(http.MethodGet)
	filmsRouter.HandleFunc("/{filmId}", films.GetFilm).Methods(http.MethodGet)
	filmsRouter.HandleFunc("/{filmId}", films.DeleteFilm).Methods(http.MethodDelete)
	filmsRouter.HandleFunc("/{filmId}/like/{userId}", films.AddLike).Methods(http.MethodPut)
	filmsRouter.HandleFunc("/{filmId}/like/{userId}", films.RemoveLike).Methods(http.MethodDelete)

	router.HandleFunc("/genres", films.Genres).Methods(http.MethodGet)
	router.HandleFunc("/genres/{genreId}", films.GenreByID).Methods(http.MethodGet)
	router.HandleFunc("/mpa", films.Mpas).Methods(http.MethodGet)
	router.HandleFunc("/mpa/{mpaId}", films.MpaByID).Methods(http.MethodGet)

	directorsRouter := router.PathPrefix("/directors").Subrouter()
	directorsRouter.HandleFunc("", films.CreateDirector).Methods(http.MethodPost)
	directorsRouter.HandleFunc("", films.UpdateDirector).Methods(http.MethodPut)
	directorsRouter.HandleFunc("", films.ListDirectors).Methods(http.MethodGet)
	directorsRouter.HandleFunc("/{directorId}", films.GetDirector).Methods(http.MethodGet)
	directorsRouter.HandleFunc("/{directorId}", films.DeleteDirector).Methods(http.MethodDelete)

	reviewsRouter := router.PathPrefix("/reviews").Subrouter()
	reviewsRouter.HandleFunc("", reviews.CreateReview).Methods(http.MethodPost)
	reviewsRouter.HandleFunc("", reviews.UpdateReview).Methods(http.MethodPut)
	reviewsRouter.HandleFunc("", reviews.ListReviews).Methods(http.MethodGet)
	reviewsRouter.HandleFunc("/{reviewId}", reviews.GetReview).Methods(http.MethodGet)
	reviewsRouter.HandleFunc("/{reviewId}", reviews.DeleteReview).Methods(http.MethodDelete)
	reviewsRouter.HandleFunc("/{reviewId}/like/{userId}", reviews.AddLike).Methods(http.MethodPut)
	reviewsRouter.HandleFunc("/{reviewId}/like/{userId}", reviews.RemoveLike).Methods(http.MethodDelete)
	reviewsRouter.HandleFunc("/{reviewId}/dislike/{userId}", reviews.AddDislike).Methods(http.MethodPut)
	reviewsRouter.HandleFunc("/{reviewId}/dislike/{userId}", reviews.RemoveDislike).Methods(http.MethodDelete)

	return router
}
