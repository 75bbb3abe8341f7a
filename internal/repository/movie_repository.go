package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/movierec/movie-recommendation-api/internal/model"
)

// MovieRepo persists movies in the 'movies' table.
type MovieRepo struct{ DB *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{DB: db} }

// MovieListQuery defines the optional filters and sort key for the
// public listing. Nil pointer fields mean "not filtered".
type MovieListQuery struct {
	Genre     string
	Year      *int
	MinRating *float64
	MaxRating *float64
	SortBy    string
}

// orderBy maps the client sort key onto a whitelisted ORDER BY clause.
// Unknown keys fall back to id ascending; rating sorts descending.
func orderBy(sortBy string) string {
	switch strings.ToLower(sortBy) {
	case "title":
		return "title ASC"
	case "year":
		return "year ASC"
	case "rating":
		return "rating DESC"
	default:
		return "id ASC"
	}
}

const movieCols = "id,title,genre,year,rating,is_public,is_top_rated,owner_id"

func scanMovie(row interface{ Scan(...any) error }) (model.Movie, error) {
	var m model.Movie
	var owner sql.NullInt64
	err := row.Scan(&m.ID, &m.Title, &m.Genre, &m.Year, &m.Rating, &m.IsPublic, &m.IsTopRated, &owner)
	if owner.Valid {
		v := uint64(owner.Int64)
		m.OwnerID = &v
	}
	return m, err
}

// Create inserts a movie and populates its ID. Validation has already
// happened in the model layer; errors here are storage failures.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	var owner any
	if m.OwnerID != nil {
		owner = *m.OwnerID
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO movies (title, genre, year, rating, is_public, is_top_rated, owner_id) VALUES (?,?,?,?,?,?,?)",
		m.Title, m.Genre, m.Year, m.Rating, m.IsPublic, m.IsTopRated, owner)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// GetByID fetches a movie or ErrMovieNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (model.Movie, error) {
	m, err := scanMovie(r.DB.QueryRowContext(ctx,
		"SELECT "+movieCols+" FROM movies WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.Movie{}, ErrMovieNotFound
	}
	return m, err
}

// Exists reports whether a movie row exists. Used by review creation to
// enforce the foreign-key precondition before inserting.
func (r *MovieRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM movies WHERE id=? LIMIT 1", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// TitleExistsForOwner reports whether the owner already has a movie with
// the same title, compared case-insensitively.
func (r *MovieRepo) TitleExistsForOwner(ctx context.Context, title string, ownerID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM movies WHERE owner_id=? AND LOWER(title)=LOWER(?) LIMIT 1",
		ownerID, title).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListPublic returns public movies matching the query, ordered by the
// whitelisted sort key. The WHERE clause is assembled dynamically the
// same way for every parameter combination so results line up with the
// cache key fingerprint built from the same parameters.
func (r *MovieRepo) ListPublic(ctx context.Context, q MovieListQuery) ([]model.Movie, error) {
	where := []string{"is_public = 1"}
	args := []any{}

	if q.Genre != "" {
		where = append(where, "LOWER(genre) = LOWER(?)")
		args = append(args, q.Genre)
	}
	if q.Year != nil {
		where = append(where, "year = ?")
		args = append(args, *q.Year)
	}
	if q.MinRating != nil {
		where = append(where, "rating >= ?")
		args = append(args, *q.MinRating)
	}
	if q.MaxRating != nil {
		where = append(where, "rating <= ?")
		args = append(args, *q.MaxRating)
	}

	query := "SELECT " + movieCols + " FROM movies WHERE " +
		strings.Join(where, " AND ") + " ORDER BY " + orderBy(q.SortBy)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListByOwner returns all movies owned by the given user.
func (r *MovieRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Movie, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+movieCols+" FROM movies WHERE owner_id=? ORDER BY id ASC", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of a movie row. Visibility flags and
// ownership are not touched here; the policy layer has already decided
// the caller may write this row.
func (r *MovieRepo) Update(ctx context.Context, m model.Movie) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE movies SET title=?, genre=?, year=?, rating=? WHERE id=?",
		m.Title, m.Genre, m.Year, m.Rating, m.ID)
	if err != nil {
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

// Delete removes a movie and its reviews in one transaction. The review
// delete runs first so the cascade holds even without a foreign key
// ON DELETE rule on the schema.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM reviews WHERE movie_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM movies WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMovieNotFound
	}
	return tx.Commit()
}
