// Admin-only movie mutations. These routes sit behind
// JWTAuth + RequireRole("admin") in the router.
package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/moviehub/catalog/internal/repository"
)

type movieReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PriceCents  uint32 `json:"price_cents"`
	CategoryID  uint64 `json:"category_id"`
}

// CreateMovie inserts a new movie into the catalog.
func (h *CatalogHandler) CreateMovie(c echo.Context) error {
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Title == "" || req.CategoryID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/category_id required"})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	m := repository.Movie{
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		CategoryID:  req.CategoryID,
	}
	if err := h.Movies.Create(ctx, &m); err != nil {
		if err == repository.ErrCategoryNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category"})
		}
		return internalError(c, "create movie failed", err)
	}
	return c.JSON(http.StatusCreated, publicMovie(m))
}

// UpdateMovie overwrites a movie's fields.
func (h *CatalogHandler) UpdateMovie(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Title == "" || req.CategoryID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/category_id required"})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	m := repository.Movie{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		CategoryID:  req.CategoryID,
	}
	if err := h.Movies.Update(ctx, &m); err != nil {
		switch err {
		case repository.ErrMovieNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		case repository.ErrCategoryNotFound:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category"})
		}
		return internalError(c, "update movie failed", err)
	}
	return c.JSON(http.StatusOK, publicMovie(m))
}

// DeleteMovie removes a movie. Favorites referencing it cascade away;
// a movie still present on order items cannot be deleted.
func (h *CatalogHandler) DeleteMovie(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	if err := h.Movies.Delete(ctx, id); err != nil {
		switch err {
		case repository.ErrMovieNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		case repository.ErrMovieReferenced:
			return c.JSON(http.StatusConflict, echo.Map{"error": "movie is referenced by orders"})
		}
		return internalError(c, "delete movie failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "movie deleted"})
}
