// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderPlacedItem is one line of an OrderPlacedEvent.
type OrderPlacedItem struct {
	MovieID  uint64 `json:"movie_id"`
	Title    string `json:"title"`
	Quantity uint32 `json:"quantity"`
}

// OrderPlacedEvent is published when an order commits. It contains enough
// information for downstream consumers to log, notify, or trigger
// analytics without querying the primary database.
type OrderPlacedEvent struct {
	OrderID    uint64            `json:"order_id"`
	UserID     uint64            `json:"user_id"`
	TotalCents uint64            `json:"total_cents"`
	Items      []OrderPlacedItem `json:"items"`
	PlacedAt   string            `json:"placed_at"`
}
