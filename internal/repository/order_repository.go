package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Order mirrors the 'orders' table with its line items attached.
type Order struct {
	ID         uint64
	UserID     uint64
	TotalCents uint64
	CreatedAt  time.Time
	Items      []OrderItem
}

// OrderItem mirrors the 'order_items' table plus the joined movie title.
type OrderItem struct {
	ID         uint64
	OrderID    uint64
	MovieID    uint64
	MovieTitle string
	Quantity   uint32
	PriceCents uint32
}

// OrderItemInput is what the client is allowed to specify when placing an
// order: which movie and how many. Prices come from the catalog, never
// from the request.
type OrderItemInput struct {
	MovieID  uint64
	Quantity uint32
}

// ErrEmptyOrder is returned when an order is placed with no items.
var ErrEmptyOrder = errors.New("order has no items")

type OrderRepo struct{ db *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// Create places an order for the given user inside one transaction: it
// reads the current price of every movie, computes the total server-side,
// inserts the order row and then each item. Either the whole order commits
// or nothing does.
func (r *OrderRepo) Create(ctx context.Context, userID uint64, items []OrderItemInput) (Order, error) {
	if len(items) == 0 {
		return Order{}, ErrEmptyOrder
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback() }()

	o := Order{UserID: userID}
	for _, in := range items {
		var title string
		var price uint32
		err := tx.QueryRowContext(ctx,
			"SELECT title, price_cents FROM movies WHERE id=?", in.MovieID).
			Scan(&title, &price)
		if err == sql.ErrNoRows {
			return Order{}, ErrMovieNotFound
		}
		if err != nil {
			return Order{}, err
		}
		qty := in.Quantity
		if qty == 0 {
			qty = 1
		}
		o.Items = append(o.Items, OrderItem{
			MovieID:    in.MovieID,
			MovieTitle: title,
			Quantity:   qty,
			PriceCents: price,
		})
		o.TotalCents += uint64(price) * uint64(qty)
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO orders (user_id, total_cents) VALUES (?,?)", userID, o.TotalCents)
	if err != nil {
		return Order{}, err
	}
	oid, err := res.LastInsertId()
	if err != nil {
		return Order{}, err
	}
	o.ID = uint64(oid)

	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		res, err := tx.ExecContext(ctx,
			"INSERT INTO order_items (order_id, movie_id, quantity, price_cents) VALUES (?,?,?,?)",
			it.OrderID, it.MovieID, it.Quantity, it.PriceCents)
		if err != nil {
			return Order{}, err
		}
		iid, err := res.LastInsertId()
		if err != nil {
			return Order{}, err
		}
		it.ID = uint64(iid)
	}

	if err := tx.QueryRowContext(ctx,
		"SELECT created_at FROM orders WHERE id=?", o.ID).Scan(&o.CreatedAt); err != nil {
		return Order{}, err
	}
	if err := tx.Commit(); err != nil {
		return Order{}, err
	}
	return o, nil
}

// ListByUser returns the user's orders, newest first, with items joined to
// their movie titles.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, total_cents, created_at FROM orders WHERE user_id=? ORDER BY id DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	index := map[uint64]int{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalCents, &o.CreatedAt); err != nil {
			return nil, err
		}
		index[o.ID] = len(out)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	const q = `SELECT oi.id, oi.order_id, oi.movie_id, m.title, oi.quantity, oi.price_cents
	           FROM order_items oi
	           JOIN orders o ON o.id = oi.order_id
	           JOIN movies m ON m.id = oi.movie_id
	           WHERE o.user_id = ?
	           ORDER BY oi.id`
	irows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer irows.Close()

	for irows.Next() {
		var it OrderItem
		if err := irows.Scan(&it.ID, &it.OrderID, &it.MovieID, &it.MovieTitle, &it.Quantity, &it.PriceCents); err != nil {
			return nil, err
		}
		if i, ok := index[it.OrderID]; ok {
			out[i].Items = append(out[i].Items, it)
		}
	}
	return out, irows.Err()
}
