// This file defines the Movie model and repository methods for the catalog.
// A Movie is a purchasable title (film or series) belonging to one category.
// List and Get join the category name so handlers can embed it in responses
// without a second query.
package repository

import (
	"context"
	"database/sql"
)

// Movie mirrors the 'movies' table plus the joined category name.
type Movie struct {
	ID           uint64
	Title        string
	Description  string
	PriceCents   uint32
	CategoryID   uint64
	CategoryName string
}

type MovieRepo struct{ db *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

const movieSelect = `SELECT m.id, m.title, m.description, m.price_cents, m.category_id, c.name
                     FROM movies m JOIN categories c ON c.id = m.category_id`

func scanMovie(row interface{ Scan(...any) error }, m *Movie) error {
	return row.Scan(&m.ID, &m.Title, &m.Description, &m.PriceCents, &m.CategoryID, &m.CategoryName)
}

// List returns all movies with their category, ordered by id.
func (r *MovieRepo) List(ctx context.Context) ([]Movie, error) {
	rows, err := r.db.QueryContext(ctx, movieSelect+" ORDER BY m.id")
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

// GetByID retrieves a movie by its ID. It returns ErrMovieNotFound if
// there is no matching row.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (Movie, error) {
	var m Movie
	err := scanMovie(r.db.QueryRowContext(ctx, movieSelect+" WHERE m.id=?", id), &m)
	if err == sql.ErrNoRows {
		return Movie{}, ErrMovieNotFound
	}
	return m, err
}

// Create inserts a new movie and assigns the generated ID back to the
// struct. A missing category surfaces as ErrCategoryNotFound via the FK.
func (r *MovieRepo) Create(ctx context.Context, m *Movie) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO movies (title, description, price_cents, category_id) VALUES (?,?,?,?)",
		m.Title, m.Description, m.PriceCents, m.CategoryID)
	if err != nil {
		if isFKChildViolation(err) {
			return ErrCategoryNotFound
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	// Re-read to pick up the joined category name.
	got, err := r.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	*m = got
	return nil
}

// Update overwrites all mutable fields of a movie.
func (r *MovieRepo) Update(ctx context.Context, m *Movie) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE movies SET title=?, description=?, price_cents=?, category_id=? WHERE id=?",
		m.Title, m.Description, m.PriceCents, m.CategoryID, m.ID)
	if err != nil {
		if isFKChildViolation(err) {
			return ErrCategoryNotFound
		}
		return err
	}
	if _, err := res.RowsAffected(); err != nil {
		return err
	}
	got, err := r.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	*m = got
	return nil
}

// Delete removes a movie. Favorites cascade away with it; order items do
// not, so a referenced movie yields ErrMovieReferenced instead.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM movies WHERE id=?", id)
	if err != nil {
		if isFKParentViolation(err) {
			return ErrMovieReferenced
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMovieNotFound
	}
	return nil
}
