// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios: a lookup
// that found nothing, or an insert that tripped a uniqueness rule. Any
// other error coming out of a repository is a storage failure — handlers
// log it and answer with a generic server error, never with the raw
// driver message.
package repository

import "errors"

// ErrUsernameExists is returned when registration collides with an
// existing account name. Handlers translate it into HTTP 409.
var ErrUsernameExists = errors.New("username already exists")

// ErrMovieNotFound is returned when a movie lookup matches no row.
// Handlers translate it into HTTP 404.
var ErrMovieNotFound = errors.New("movie not found")

// ErrReviewNotFound is returned when a review lookup matches no row.
// Handlers translate it into HTTP 404.
var ErrReviewNotFound = errors.New("review not found")

// ErrDuplicateTitle is returned when a user already owns a movie with
// the same title (case-insensitive). Handlers translate it into HTTP 409.
var ErrDuplicateTitle = errors.New("duplicate title for owner")
