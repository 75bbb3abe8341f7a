// Package policy decides whether an acting identity may read or mutate a
// movie or review record.  Decisions come back as sentinel errors so that
// handlers can translate them into HTTP responses: nil means allowed,
// ErrForbidden maps to 403, ErrUnauthorized to 401 and ErrNotFound to 404.
//
// One rule deserves a prominent note because it looks wrong at first
// sight but is deliberate: a movie with is_public=true can never be
// updated or deleted through the regular write endpoints, not even by the
// Admin who created it via the top-rated path.  Public movies only enter
// the system through CanCreateTopMovie and only leave it by operator
// intervention.  Admins are therefore curators, not editors.
package policy

import (
	"errors"

	"github.com/movierec/movie-recommendation-api/internal/model"
)

// ErrUnauthorized is returned when no valid acting identity is available.
// Handlers should translate this into an HTTP 401 response.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own or lack the role for.  Handlers should
// translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrNotFound is returned when the target record does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// CanReadMovie reports whether the acting identity may read a movie.
// Public movies are readable by anyone; private movies only by their
// owner.
func CanReadMovie(actorID uint64, m model.Movie) error {
	if m.IsPublic {
		return nil
	}
	if m.OwnerID != nil && *m.OwnerID == actorID {
		return nil
	}
	return ErrForbidden
}

// CanCreateTopMovie reports whether the acting identity may add a movie
// to the public top-rated set.  Only Admin accounts may.
func CanCreateTopMovie(role model.Role) error {
	if role == model.RoleAdmin {
		return nil
	}
	return ErrForbidden
}

// CanModifyMovie reports whether the acting identity may update or delete
// a movie.  Allowed only when the movie is private and owned by the
// caller; public movies are immutable through this path for everyone,
// Admins included (see the package comment).
func CanModifyMovie(actorID uint64, m model.Movie) error {
	if m.IsPublic {
		return ErrForbidden
	}
	if m.OwnerID != nil && *m.OwnerID == actorID {
		return nil
	}
	return ErrForbidden
}

// CanModifyReview reports whether the acting identity may update or
// delete a review.  Ownership is absolute and role-independent: only the
// review's author may, never an Admin acting on another author's review.
func CanModifyReview(actorID uint64, r model.Review) error {
	if r.AuthorID == actorID {
		return nil
	}
	return ErrForbidden
}
