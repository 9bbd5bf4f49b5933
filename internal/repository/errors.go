// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios without inspecting
// driver-specific error text. For example, ErrAlreadyFavorited signals
// that the unique (user_id, movie_id) key rejected an insert, while
// ErrMovieReferenced signals that a delete cannot proceed because order
// items still reference the row.
package repository

import (
	"errors"
	"strings"
)

// ErrEmailExists is returned when an insert or update collides with the
// unique index on users.email. Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound indicates that no user row matched the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrMovieNotFound indicates that no movie row matched the lookup, or that
// a foreign key to movies could not be satisfied.
var ErrMovieNotFound = errors.New("movie not found")

// ErrCategoryNotFound indicates a movie referenced a missing category.
var ErrCategoryNotFound = errors.New("category not found")

// ErrAlreadyFavorited is returned when the (user_id, movie_id) pair already
// exists. The unique key makes the insert itself the existence check, so
// two concurrent adds cannot both succeed.
var ErrAlreadyFavorited = errors.New("already favorited")

// ErrFavoriteNotFound indicates the (user_id, movie_id) pair does not exist.
var ErrFavoriteNotFound = errors.New("favorite not found")

// ErrMovieReferenced is returned when a movie cannot be deleted because
// order items still reference it. Handlers translate this into HTTP 409.
var ErrMovieReferenced = errors.New("movie still referenced by orders")

// isDuplicateKey reports whether err is a MySQL duplicate-entry violation
// (error 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

// isFKChildViolation reports whether err is a MySQL "cannot add child row"
// violation (error 1452), raised when an insert references a missing parent.
func isFKChildViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1452")
}

// isFKParentViolation reports whether err is a MySQL "cannot delete parent
// row" violation (error 1451), raised when child rows still reference it.
func isFKParentViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1451")
}
