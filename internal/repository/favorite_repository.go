// This file manages the many-to-many relation between users and movies.
// The favorites table carries a UNIQUE KEY on (user_id, movie_id), so the
// insert itself decides whether the pair already exists; there is no
// read-before-write window for concurrent requests to race through.
package repository

import (
	"context"
	"database/sql"
	"time"
)

// Favorite mirrors the 'favorites' table.
type Favorite struct {
	ID        uint64
	UserID    uint64
	MovieID   uint64
	CreatedAt time.Time
}

type FavoriteRepo struct{ db *sql.DB }

func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

// Add inserts the (userID, movieID) pair. A duplicate pair maps to
// ErrAlreadyFavorited, an unknown movie to ErrMovieNotFound via the FK.
func (r *FavoriteRepo) Add(ctx context.Context, userID, movieID uint64) (Favorite, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO favorites (user_id, movie_id) VALUES (?,?)", userID, movieID)
	if err != nil {
		if isDuplicateKey(err) {
			return Favorite{}, ErrAlreadyFavorited
		}
		if isFKChildViolation(err) {
			return Favorite{}, ErrMovieNotFound
		}
		return Favorite{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Favorite{}, err
	}
	f := Favorite{ID: uint64(id), UserID: userID, MovieID: movieID}
	err = r.db.QueryRowContext(ctx,
		"SELECT created_at FROM favorites WHERE id=?", f.ID).Scan(&f.CreatedAt)
	return f, err
}

// Remove deletes the pair. Zero affected rows means it never existed.
func (r *FavoriteRepo) Remove(ctx context.Context, userID, movieID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM favorites WHERE user_id=? AND movie_id=?", userID, movieID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

// ListByUser returns the user's favorited movies in insertion order.
func (r *FavoriteRepo) ListByUser(ctx context.Context, userID uint64) ([]Movie, error) {
	const q = `SELECT m.id, m.title, m.description, m.price_cents, m.category_id, c.name
	           FROM favorites f
	           JOIN movies m ON m.id = f.movie_id
	           JOIN categories c ON c.id = m.category_id
	           WHERE f.user_id = ?
	           ORDER BY f.id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Movie
	for rows.Next() {
		var m Movie
		if err := scanMovie(rows, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
