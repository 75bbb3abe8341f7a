package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/movierec/movie-recommendation-api/internal/cache"
	"github.com/movierec/movie-recommendation-api/internal/config"
	"github.com/movierec/movie-recommendation-api/internal/model"
	"github.com/movierec/movie-recommendation-api/internal/policy"
	"github.com/movierec/movie-recommendation-api/internal/queue"
	"github.com/movierec/movie-recommendation-api/internal/repository"
	queue_publisher "github.com/movierec/movie-recommendation-api/internal/service"
)

// MovieHandler bundles dependencies for movie endpoints.
type MovieHandler struct {
	Cfg    config.Config
	Movies *repository.MovieRepo
	Cache  *cache.PublicMovies
	Log    *logrus.Logger
}

func NewMovieHandler(cfg config.Config, m *repository.MovieRepo, ch *cache.PublicMovies, log *logrus.Logger) *MovieHandler {
	return &MovieHandler{Cfg: cfg, Movies: m, Cache: ch, Log: log}
}

// movieReq is the write body for movie creation and updates. Visibility
// flags and ownership are never taken from the client; the endpoint
// decides them.
type movieReq struct {
	Title  string  `json:"title"`
	Genre  string  `json:"genre"`
	Year   int     `json:"year"`
	Rating float64 `json:"rating"`
}

// GetPublicMovies handles GET /v1/movies/public. The listing is served
// read-through: the cache is consulted first under a fingerprint of the
// five query parameters, and populated from the database on a miss. The
// X-Cache response header reports HIT or MISS.
func (h *MovieHandler) GetPublicMovies(c echo.Context) error {
	genre := c.QueryParam("genre")
	yearStr := c.QueryParam("year")
	minStr := c.QueryParam("minRating")
	maxStr := c.QueryParam("maxRating")
	sortBy := c.QueryParam("sortBy")

	q := repository.MovieListQuery{Genre: genre, SortBy: sortBy}
	if yearStr != "" {
		n, err := strconv.Atoi(yearStr)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid year"})
		}
		q.Year = &n
	}
	if minStr != "" {
		f, err := strconv.ParseFloat(minStr, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid minRating"})
		}
		q.MinRating = &f
	}
	if maxStr != "" {
		f, err := strconv.ParseFloat(maxStr, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid maxRating"})
		}
		q.MaxRating = &f
	}

	ctx := c.Request().Context()
	key := h.Cache.Key(genre, yearStr, minStr, maxStr, sortBy)

	if movies, ok := h.Cache.Get(ctx, key); ok {
		h.Log.WithField("key", key).Info("public movies served from cache")
		c.Response().Header().Set("X-Cache", "HIT")
		return c.JSON(http.StatusOK, echo.Map{"items": movies})
	}

	movies, err := h.Movies.ListPublic(ctx, q)
	if err != nil {
		h.Log.WithError(err).Error("list public movies failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	h.Cache.Put(ctx, key, movies)

	c.Response().Header().Set("X-Cache", "MISS")
	return c.JSON(http.StatusOK, echo.Map{"items": movies})
}

// AddTopMovie handles POST /v1/movies/top. Only admins may curate the
// public top-rated set; the created movie is forced public and top-rated
// with no owner. Every cached public listing is invalidated afterwards
// so the next read reflects the new movie.
func (h *MovieHandler) AddTopMovie(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := policy.CanCreateTopMovie(getRole(c)); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "admin role required"})
	}

	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	movie := model.Movie{
		Title:      req.Title,
		Genre:      req.Genre,
		Year:       req.Year,
		Rating:     req.Rating,
		IsPublic:   true,
		IsTopRated: true,
	}
	if err := movie.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	if err := h.Movies.Create(ctx, &movie); err != nil {
		h.Log.WithError(err).Error("create top movie failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	h.Log.WithFields(logrus.Fields{"movie_id": movie.ID, "title": movie.Title}).Info("top movie added, invalidating public listing cache")
	h.Cache.InvalidateAll(ctx)

	// Best-effort event; a broker failure never fails the request.
	_ = queue_publisher.PublishTopMovieAdded(ctx, queue.TopMovieAddedEvent{
		MovieID: movie.ID,
		Title:   movie.Title,
		Genre:   movie.Genre,
		Year:    movie.Year,
		Rating:  movie.Rating,
		AddedBy: uid,
		AddedAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, movie)
}

// GetPrivateMovies handles GET /v1/movies/private and lists the caller's
// own movies.
func (h *MovieHandler) GetPrivateMovies(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	movies, err := h.Movies.ListByOwner(c.Request().Context(), uid)
	if err != nil {
		h.Log.WithError(err).Error("list private movies failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": movies})
}

// GetMovieByID handles GET /v1/movies/:id. Public movies are readable by
// any authenticated caller, private ones only by their owner.
func (h *MovieHandler) GetMovieByID(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	movie, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		h.Log.WithError(err).Error("get movie failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := policy.CanReadMovie(uid, movie); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}
	return c.JSON(http.StatusOK, movie)
}

// AddMovie handles POST /v1/movies. The movie is created private and
// owned by the caller; a case-insensitive duplicate title within the
// caller's own movies is rejected before anything is written.
func (h *MovieHandler) AddMovie(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	movie := model.Movie{
		Title:   req.Title,
		Genre:   req.Genre,
		Year:    req.Year,
		Rating:  req.Rating,
		OwnerID: &uid,
	}
	if err := movie.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	exists, err := h.Movies.TitleExistsForOwner(ctx, movie.Title, uid)
	if err != nil {
		h.Log.WithError(err).Error("duplicate title check failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if exists {
		return c.JSON(http.StatusConflict, echo.Map{"error": "a movie with the same title already exists for this user"})
	}

	if err := h.Movies.Create(ctx, &movie); err != nil {
		h.Log.WithError(err).Error("create movie failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, movie)
}

// UpdateMovie handles PUT /v1/movies/:id. Allowed only for the owner of
// a private movie; public movies are immutable through this endpoint for
// everyone, Admins included (see the policy package).
func (h *MovieHandler) UpdateMovie(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx := c.Request().Context()
	movie, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		h.Log.WithError(err).Error("get movie failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := policy.CanModifyMovie(uid, movie); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	movie.Title = req.Title
	movie.Genre = req.Genre
	movie.Year = req.Year
	movie.Rating = req.Rating
	if err := movie.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.Movies.Update(ctx, movie); err != nil {
		h.Log.WithError(err).Error("update movie failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, movie)
}

// DeleteMovie handles DELETE /v1/movies/:id under the same policy as
// UpdateMovie. The delete cascades to the movie's reviews.
func (h *MovieHandler) DeleteMovie(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx := c.Request().Context()
	movie, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		h.Log.WithError(err).Error("get movie failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := policy.CanModifyMovie(uid, movie); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	if err := h.Movies.Delete(ctx, id); err != nil {
		h.Log.WithError(err).Error("delete movie failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "movie deleted"})
}
