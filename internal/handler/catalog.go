// This file defines handlers for the public browsing API. These routes
// allow unauthenticated users to list categories and movies. Movie
// responses embed their category.
package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/moviehub/catalog/internal/repository"
)

// CatalogHandler aggregates the stores needed for browsing and for the
// admin-gated movie mutations.
type CatalogHandler struct {
	Movies     MovieStore
	Categories CategoryStore
}

func NewCatalogHandler(movies MovieStore, categories CategoryStore) *CatalogHandler {
	return &CatalogHandler{Movies: movies, Categories: categories}
}

type categoryPart struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// moviePart is a movie's public shape with its category embedded.
type moviePart struct {
	ID          uint64       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	PriceCents  uint32       `json:"price_cents"`
	Category    categoryPart `json:"category"`
}

func publicMovie(m repository.Movie) moviePart {
	return moviePart{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		PriceCents:  m.PriceCents,
		Category:    categoryPart{ID: m.CategoryID, Name: m.CategoryName},
	}
}

func publicMovies(ms []repository.Movie) []moviePart {
	out := make([]moviePart, 0, len(ms))
	for _, m := range ms {
		out = append(out, publicMovie(m))
	}
	return out
}

// ListCategories returns all categories.
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	cats, err := h.Categories.List(ctx)
	if err != nil {
		return internalError(c, "list categories failed", err)
	}
	out := make([]categoryPart, 0, len(cats))
	for _, cat := range cats {
		out = append(out, categoryPart{ID: cat.ID, Name: cat.Name})
	}
	return c.JSON(http.StatusOK, out)
}

// ListMovies returns all movies with their categories.
func (h *CatalogHandler) ListMovies(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	movies, err := h.Movies.List(ctx)
	if err != nil {
		return internalError(c, "list movies failed", err)
	}
	return c.JSON(http.StatusOK, publicMovies(movies))
}

// GetMovie returns one movie by id.
func (h *CatalogHandler) GetMovie(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return internalError(c, "get movie failed", err)
	}
	return c.JSON(http.StatusOK, publicMovie(m))
}
