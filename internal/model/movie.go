package model

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError reports malformed or out-of-range input.  It is always
// raised before any persistence attempt so that a failed validation never
// leaves a partial write behind.  Handlers translate it into HTTP 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Movie represents a movie record as stored in the `movies` table.
// A movie is either public (readable by anyone, curated into the
// top-rated set by admins, OwnerID nil) or private (OwnerID set to its
// creator, visible and mutable only by that account).  A movie owns its
// reviews: deleting the movie cascades to them.
type Movie struct {
	ID         uint64  `json:"id"`
	Title      string  `json:"title"`
	Genre      string  `json:"genre"`
	Year       int     `json:"year"`
	Rating     float64 `json:"rating"`
	IsPublic   bool    `json:"is_public"`
	IsTopRated bool    `json:"is_top_rated"`
	OwnerID    *uint64 `json:"owner_id,omitempty"`
}

// Validate checks the movie's field constraints: title and genre must be
// non-empty, the year must lie in (1800, current year] and the rating in
// [0, 10].  The first violation is returned as a *ValidationError.
func (m *Movie) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return invalid("title is a required field")
	}
	if strings.TrimSpace(m.Genre) == "" {
		return invalid("genre is a required field")
	}
	if m.Year <= 1800 || m.Year > time.Now().Year() {
		return invalid("year must be between 1800 and the current year")
	}
	if m.Rating < 0 || m.Rating > 10 {
		return invalid("rating must be between 0 and 10")
	}
	return nil
}
