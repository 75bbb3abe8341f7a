// Package queue defines message payloads exchanged over the message broker.
package queue

// TopMovieAddedEvent is published when an admin adds a movie to the
// public top-rated set. It carries enough information for downstream
// consumers to log, notify, or refresh derived views without querying
// the primary database.
type TopMovieAddedEvent struct {
	MovieID uint64  `json:"movie_id"`
	Title   string  `json:"title"`
	Genre   string  `json:"genre"`
	Year    int     `json:"year"`
	Rating  float64 `json:"rating"`
	AddedBy uint64  `json:"added_by"`
	AddedAt string  `json:"added_at"`
}

// ReviewCreatedEvent is published when a user posts a review.
type ReviewCreatedEvent struct {
	ReviewID   uint64 `json:"review_id"`
	MovieID    uint64 `json:"movie_id"`
	MovieTitle string `json:"movie_title"`
	AuthorID   uint64 `json:"author_id"`
	Rating     int    `json:"rating"`
	CreatedAt  string `json:"created_at"`
}
