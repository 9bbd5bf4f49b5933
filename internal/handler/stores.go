// Package handler exposes the HTTP handlers of the catalog API. Handlers
// accept their persistence dependencies as narrow interfaces so that tests
// can exercise the full request path against in-memory stores; the
// repository package provides the production implementations.
package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moviehub/catalog/internal/repository"
)

// UserStore is the slice of user persistence the auth and admin handlers need.
type UserStore interface {
	Create(ctx context.Context, name, email, password, role string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (repository.User, error)
	GetByID(ctx context.Context, id uint64) (repository.User, error)
	List(ctx context.Context) ([]repository.User, error)
	Update(ctx context.Context, id uint64, name, email, password, role string, cost int) (repository.User, error)
	Delete(ctx context.Context, id uint64) error
}

// MovieStore provides catalog reads and admin-gated writes.
type MovieStore interface {
	List(ctx context.Context) ([]repository.Movie, error)
	GetByID(ctx context.Context, id uint64) (repository.Movie, error)
	Create(ctx context.Context, m *repository.Movie) error
	Update(ctx context.Context, m *repository.Movie) error
	Delete(ctx context.Context, id uint64) error
}

// CategoryStore lists catalog categories.
type CategoryStore interface {
	List(ctx context.Context) ([]repository.Category, error)
}

// FavoriteStore manages the user/movie favorite relation.
type FavoriteStore interface {
	Add(ctx context.Context, userID, movieID uint64) (repository.Favorite, error)
	Remove(ctx context.Context, userID, movieID uint64) error
	ListByUser(ctx context.Context, userID uint64) ([]repository.Movie, error)
}

// OrderStore places and lists orders.
type OrderStore interface {
	Create(ctx context.Context, userID uint64, items []repository.OrderItemInput) (repository.Order, error)
	ListByUser(ctx context.Context, userID uint64) ([]repository.Order, error)
}

// dbTimeout bounds every store call made from a handler.
const dbTimeout = 5 * time.Second

func storeCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// internalError logs the underlying cause server-side and returns a fixed
// generic body. Store and hashing failures must never leak their message
// to the client.
func internalError(c echo.Context, op string, err error) error {
	log.Printf("%s: %v", op, err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
