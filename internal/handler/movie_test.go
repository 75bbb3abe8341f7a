package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movierec/movie-recommendation-api/internal/cache"
	"github.com/movierec/movie-recommendation-api/internal/repository"
)

func newMovieHandler(t *testing.T) (*MovieHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	movieCache := cache.NewPublicMovies(rdb, 15*time.Minute, testLogger())

	return NewMovieHandler(testConfig(), repository.NewMovieRepo(db), movieCache, testLogger()), mock
}

func getCtx(target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// asUser marks the context as an authenticated caller the way the JWT
// middleware would: numeric claims arrive as float64.
func asUser(c echo.Context, id uint64, role string) {
	c.Set("user_id", float64(id))
	c.Set("username", "someone")
	c.Set("role", role)
}

const publicListingByGenreRating = "SELECT id,title,genre,year,rating,is_public,is_top_rated,owner_id FROM movies WHERE is_public = 1 AND LOWER(genre) = LOWER(?) ORDER BY rating DESC"

func movieColumns() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "genre", "year", "rating", "is_public", "is_top_rated", "owner_id"})
}

// The three-act cache scenario: a first read populates the cache, a
// repeat read is served from it without touching the database, and a
// top-rated write invalidates it so the next read sees the new movie.
func TestPublicListingReadThroughAndInvalidation(t *testing.T) {
	h, mock := newMovieHandler(t)
	target := "/v1/movies/public?genre=Action&sortBy=rating"

	// Act 1: miss populates from the database.
	mock.ExpectQuery(publicListingByGenreRating).WithArgs("Action").
		WillReturnRows(movieColumns().AddRow(1, "Speed", "Action", 1994, 7.3, true, false, nil))

	c, rec := getCtx(target)
	require.NoError(t, h.GetPublicMovies(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), "Speed")
	require.NoError(t, mock.ExpectationsWereMet())

	// Act 2: identical query is served from the cache; no database
	// expectation is registered, so a second round-trip would fail loudly.
	c, rec = getCtx(target)
	require.NoError(t, h.GetPublicMovies(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), "Speed")
	require.NoError(t, mock.ExpectationsWereMet())

	// Act 3: an admin adds a top-rated movie, which invalidates every
	// cached listing.
	mock.ExpectExec("INSERT INTO movies (title, genre, year, rating, is_public, is_top_rated, owner_id) VALUES (?,?,?,?,?,?,?)").
		WithArgs("Heat", "Action", 1995, 8.3, true, true, nil).
		WillReturnResult(sqlmock.NewResult(2, 1))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/movies/top",
		strings.NewReader(`{"title":"Heat","genre":"Action","year":1995,"rating":8.3}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	postRec := httptest.NewRecorder()
	postCtx := e.NewContext(req, postRec)
	asUser(postCtx, 1, "Admin")
	require.NoError(t, h.AddTopMovie(postCtx))
	assert.Equal(t, http.StatusCreated, postRec.Code)

	// The repeated query now misses and reflects the new movie.
	mock.ExpectQuery(publicListingByGenreRating).WithArgs("Action").
		WillReturnRows(movieColumns().
			AddRow(2, "Heat", "Action", 1995, 8.3, true, true, nil).
			AddRow(1, "Speed", "Action", 1994, 7.3, true, false, nil))

	c, rec = getCtx(target)
	require.NoError(t, h.GetPublicMovies(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), "Heat")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddTopMovieForbiddenForUserRole(t *testing.T) {
	h, mock := newMovieHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/movies/top",
		strings.NewReader(`{"title":"Heat","genre":"Action","year":1995,"rating":8.3}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	asUser(c, 2, "User")

	require.NoError(t, h.AddTopMovie(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet(), "a forbidden write must not reach the database")
}

const movieByID = "SELECT id,title,genre,year,rating,is_public,is_top_rated,owner_id FROM movies WHERE id=? LIMIT 1"

func TestGetMovieByIDOwnership(t *testing.T) {
	cases := []struct {
		name     string
		callerID uint64
		rows     *sqlmock.Rows
		want     int
	}{
		{"owner reads own private movie", 7,
			movieColumns().AddRow(5, "Diary", "Drama", 2020, 6.0, false, false, 7), http.StatusOK},
		{"stranger gets 403 on private movie", 8,
			movieColumns().AddRow(5, "Diary", "Drama", 2020, 6.0, false, false, 7), http.StatusForbidden},
		{"anyone reads a public movie", 8,
			movieColumns().AddRow(5, "Heat", "Action", 1995, 8.3, true, true, nil), http.StatusOK},
		{"absent movie is 404", 8, movieColumns(), http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, mock := newMovieHandler(t)
			mock.ExpectQuery(movieByID).WithArgs(uint64(5)).WillReturnRows(tc.rows)

			c, rec := getCtx("/v1/movies/5")
			c.SetParamNames("id")
			c.SetParamValues("5")
			asUser(c, tc.callerID, "User")

			require.NoError(t, h.GetMovieByID(c))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestAddMovieInvalidFieldsRejectedBeforePersistence(t *testing.T) {
	bodies := []string{
		`{"title":"Alien","genre":"Horror","year":1979,"rating":10.1}`,
		`{"title":"Alien","genre":"Horror","year":1700,"rating":8.5}`,
		`{"title":"","genre":"Horror","year":1979,"rating":8.5}`,
	}
	for _, body := range bodies {
		h, mock := newMovieHandler(t)

		c, rec := postJSON("/v1/movies", body)
		asUser(c, 7, "User")
		require.NoError(t, h.AddMovie(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
		assert.NoError(t, mock.ExpectationsWereMet(), "no persistence may happen for %s", body)
	}
}

func TestAddMovieDuplicateTitleConflicts(t *testing.T) {
	h, mock := newMovieHandler(t)

	mock.ExpectQuery("SELECT 1 FROM movies WHERE owner_id=? AND LOWER(title)=LOWER(?) LIMIT 1").
		WithArgs(uint64(7), "Alien").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	c, rec := postJSON("/v1/movies", `{"title":"Alien","genre":"Horror","year":1979,"rating":8.5}`)
	asUser(c, 7, "User")
	require.NoError(t, h.AddMovie(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePublicMovieForbiddenEvenForAdmin(t *testing.T) {
	h, mock := newMovieHandler(t)

	mock.ExpectQuery(movieByID).WithArgs(uint64(5)).
		WillReturnRows(movieColumns().AddRow(5, "Heat", "Action", 1995, 8.3, true, true, nil))

	c, rec := postJSON("/v1/movies/5", `{"title":"Heat 2","genre":"Action","year":1995,"rating":8.3}`)
	c.SetParamNames("id")
	c.SetParamValues("5")
	asUser(c, 1, "Admin")

	require.NoError(t, h.UpdateMovie(c))
	assert.Equal(t, http.StatusForbidden, rec.Code,
		"public movies are immutable through the update path, admins included")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePrivateMovieByOwnerCascades(t *testing.T) {
	h, mock := newMovieHandler(t)

	mock.ExpectQuery(movieByID).WithArgs(uint64(5)).
		WillReturnRows(movieColumns().AddRow(5, "Diary", "Drama", 2020, 6.0, false, false, 7))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM reviews WHERE movie_id=?").WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM movies WHERE id=?").WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/v1/movies/5", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("5")
	asUser(c, 7, "User")

	require.NoError(t, h.DeleteMovie(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
