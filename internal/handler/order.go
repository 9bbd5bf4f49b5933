package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moviehub/catalog/internal/middleware"
	"github.com/moviehub/catalog/internal/queue"
	"github.com/moviehub/catalog/internal/repository"
)

// OrderHandler places and lists orders for the caller. Publish is called
// after a successful commit; its error is logged by the publisher and does
// not fail the request.
type OrderHandler struct {
	Orders  OrderStore
	Publish func(ctx context.Context, event queue.OrderPlacedEvent) error
}

func NewOrderHandler(orders OrderStore, publish func(ctx context.Context, event queue.OrderPlacedEvent) error) *OrderHandler {
	return &OrderHandler{Orders: orders, Publish: publish}
}

type orderItemReq struct {
	MovieID  uint64 `json:"movieId"`
	Quantity uint32 `json:"quantity"`
}
type createOrderReq struct {
	Items []orderItemReq `json:"items"`
}

type orderItemPart struct {
	ID         uint64 `json:"id"`
	MovieID    uint64 `json:"movieId"`
	Title      string `json:"title"`
	Quantity   uint32 `json:"quantity"`
	PriceCents uint32 `json:"price_cents"`
}
type orderPart struct {
	ID         uint64          `json:"id"`
	TotalCents uint64          `json:"total_cents"`
	CreatedAt  time.Time       `json:"created_at"`
	Items      []orderItemPart `json:"items"`
}

func publicOrder(o repository.Order) orderPart {
	out := orderPart{ID: o.ID, TotalCents: o.TotalCents, CreatedAt: o.CreatedAt}
	for _, it := range o.Items {
		out.Items = append(out.Items, orderItemPart{
			ID:         it.ID,
			MovieID:    it.MovieID,
			Title:      it.MovieTitle,
			Quantity:   it.Quantity,
			PriceCents: it.PriceCents,
		})
	}
	return out
}

// Create places an order for the caller. The total is computed from the
// catalog's current prices inside one transaction.
func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "items required"})
	}

	items := make([]repository.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		if it.MovieID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "movieId required on every item"})
		}
		items = append(items, repository.OrderItemInput{MovieID: it.MovieID, Quantity: it.Quantity})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	uid := middleware.UserID(c)
	o, err := h.Orders.Create(ctx, uid, items)
	if err != nil {
		switch err {
		case repository.ErrMovieNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		case repository.ErrEmptyOrder:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "items required"})
		}
		return internalError(c, "create order failed", err)
	}

	if h.Publish != nil {
		event := queue.OrderPlacedEvent{
			OrderID:    o.ID,
			UserID:     uid,
			TotalCents: o.TotalCents,
			PlacedAt:   o.CreatedAt.UTC().Format(time.RFC3339),
		}
		for _, it := range o.Items {
			event.Items = append(event.Items, queue.OrderPlacedItem{
				MovieID:  it.MovieID,
				Title:    it.MovieTitle,
				Quantity: it.Quantity,
			})
		}
		// Broker failures are logged by the publisher. The order is already
		// committed, so the response stays a success either way.
		_ = h.Publish(ctx, event)
	}

	return c.JSON(http.StatusCreated, publicOrder(o))
}

// List returns the caller's orders, newest first.
func (h *OrderHandler) List(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	orders, err := h.Orders.ListByUser(ctx, middleware.UserID(c))
	if err != nil {
		return internalError(c, "list orders failed", err)
	}
	out := make([]orderPart, 0, len(orders))
	for _, o := range orders {
		out = append(out, publicOrder(o))
	}
	return c.JSON(http.StatusOK, out)
}
