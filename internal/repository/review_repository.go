package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/movierec/movie-recommendation-api/internal/model"
)

// ReviewRepo persists reviews in the 'reviews' table.
type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

// ReviewDetail is a review joined with its movie and author names, the
// shape returned by the read endpoints.
type ReviewDetail struct {
	ID         uint64    `json:"id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	MovieID    uint64    `json:"movie_id"`
	MovieTitle string    `json:"movie_title"`
	MovieGenre string    `json:"movie_genre"`
	AuthorID   uint64    `json:"author_id"`
	AuthorName string    `json:"author_name"`
}

const reviewDetailQuery = `SELECT
		r.id, r.rating, r.comment, r.created_at,
		r.movie_id, m.title, m.genre,
		r.author_id, u.username
	FROM reviews r
	JOIN movies m ON m.id = r.movie_id
	JOIN users u  ON u.id = r.author_id`

func scanReviewDetail(row interface{ Scan(...any) error }) (ReviewDetail, error) {
	var d ReviewDetail
	var comment sql.NullString
	err := row.Scan(&d.ID, &d.Rating, &comment, &d.CreatedAt,
		&d.MovieID, &d.MovieTitle, &d.MovieGenre,
		&d.AuthorID, &d.AuthorName)
	d.Comment = comment.String
	return d, err
}

// Create inserts a review and populates its ID and CreatedAt.
func (r *ReviewRepo) Create(ctx context.Context, rev *model.Review) error {
	rev.CreatedAt = time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reviews (rating, comment, created_at, author_id, movie_id) VALUES (?,?,?,?,?)",
		rev.Rating, rev.Comment, rev.CreatedAt, rev.AuthorID, rev.MovieID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rev.ID = uint64(id)
	return nil
}

// GetByID fetches a bare review row or ErrReviewNotFound. Used by the
// write path, where only ownership and fields matter.
func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (model.Review, error) {
	var rev model.Review
	var comment sql.NullString
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, rating, comment, created_at, author_id, movie_id FROM reviews WHERE id=? LIMIT 1",
		id).Scan(&rev.ID, &rev.Rating, &comment, &rev.CreatedAt, &rev.AuthorID, &rev.MovieID)
	if err == sql.ErrNoRows {
		return model.Review{}, ErrReviewNotFound
	}
	rev.Comment = comment.String
	return rev, err
}

// GetDetailByID fetches a review joined with movie and author names.
func (r *ReviewRepo) GetDetailByID(ctx context.Context, id uint64) (ReviewDetail, error) {
	d, err := scanReviewDetail(r.DB.QueryRowContext(ctx, reviewDetailQuery+" WHERE r.id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return ReviewDetail{}, ErrReviewNotFound
	}
	return d, err
}

// ListByMovie returns all reviews for a movie, oldest first.
func (r *ReviewRepo) ListByMovie(ctx context.Context, movieID uint64) ([]ReviewDetail, error) {
	rows, err := r.DB.QueryContext(ctx, reviewDetailQuery+" WHERE r.movie_id=? ORDER BY r.id ASC", movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ReviewDetail, 0)
	for rows.Next() {
		d, err := scanReviewDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Update rewrites the rating and comment of a review and refreshes its
// created_at timestamp, matching the write semantics of the API.
func (r *ReviewRepo) Update(ctx context.Context, rev model.Review) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE reviews SET rating=?, comment=?, created_at=? WHERE id=?",
		rev.Rating, rev.Comment, rev.CreatedAt, rev.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// Delete removes a review row.
func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM reviews WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReviewNotFound
	}
	return nil
}
