package model

import "time"

// maxCommentLen bounds the free-text comment of a review.
const maxCommentLen = 1000

// Review represents a review record as stored in the `reviews` table.
// It holds non-owning references (foreign keys) to its movie and its
// author; the movie owns the review and a movie delete cascades here.
type Review struct {
	ID        uint64    `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	AuthorID  uint64    `json:"author_id"`
	MovieID   uint64    `json:"movie_id"`
}

// Validate checks the review's field constraints: rating in [1, 10] and
// the optional comment bounded to 1000 characters.
func (r *Review) Validate() error {
	if r.Rating < 1 || r.Rating > 10 {
		return invalid("rating must be between 1 and 10")
	}
	if len(r.Comment) > maxCommentLen {
		return invalid("comment must be at most %d characters", maxCommentLen)
	}
	return nil
}
