package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/moviehub/catalog/internal/middleware"
	"github.com/moviehub/catalog/internal/repository"
)

// FavoriteHandler manages the caller's favorites. All routes require
// JWTAuth; ownership comes from the token, never from the body.
type FavoriteHandler struct {
	Favorites FavoriteStore
	Movies    MovieStore
}

func NewFavoriteHandler(favorites FavoriteStore, movies MovieStore) *FavoriteHandler {
	return &FavoriteHandler{Favorites: favorites, Movies: movies}
}

type addFavoriteReq struct {
	MovieID uint64 `json:"movieId"`
}

// Add favorites a movie for the caller. The unique key decides whether the
// pair already exists, so two concurrent adds surface one 201 and one 409.
func (h *FavoriteHandler) Add(c echo.Context) error {
	var req addFavoriteReq
	if err := c.Bind(&req); err != nil || req.MovieID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movieId required"})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	fav, err := h.Favorites.Add(ctx, middleware.UserID(c), req.MovieID)
	if err != nil {
		switch err {
		case repository.ErrAlreadyFavorited:
			return c.JSON(http.StatusConflict, echo.Map{"error": "already favorited"})
		case repository.ErrMovieNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return internalError(c, "add favorite failed", err)
	}

	m, err := h.Movies.GetByID(ctx, req.MovieID)
	if err != nil {
		return internalError(c, "add favorite: load movie failed", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":    fav.ID,
		"movie": publicMovie(m),
	})
}

// Remove un-favorites a movie. A pair that does not exist is 404, not a
// generic server error.
func (h *FavoriteHandler) Remove(c echo.Context) error {
	movieID, err := strconv.ParseUint(c.Param("movieId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	if err := h.Favorites.Remove(ctx, middleware.UserID(c), movieID); err != nil {
		if err == repository.ErrFavoriteNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "favorite not found"})
		}
		return internalError(c, "remove favorite failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "favorite removed"})
}

// List returns the caller's favorited movies in the order they were added.
func (h *FavoriteHandler) List(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	movies, err := h.Favorites.ListByUser(ctx, middleware.UserID(c))
	if err != nil {
		return internalError(c, "list favorites failed", err)
	}
	return c.JSON(http.StatusOK, publicMovies(movies))
}
