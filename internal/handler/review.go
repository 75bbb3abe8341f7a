package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/movierec/movie-recommendation-api/internal/model"
	"github.com/movierec/movie-recommendation-api/internal/policy"
	"github.com/movierec/movie-recommendation-api/internal/queue"
	"github.com/movierec/movie-recommendation-api/internal/repository"
	queue_publisher "github.com/movierec/movie-recommendation-api/internal/service"
)

// ReviewHandler bundles dependencies for review endpoints.
type ReviewHandler struct {
	Movies  *repository.MovieRepo
	Reviews *repository.ReviewRepo
	Log     *logrus.Logger
}

func NewReviewHandler(m *repository.MovieRepo, r *repository.ReviewRepo, log *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{Movies: m, Reviews: r, Log: log}
}

type reviewReq struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	MovieID uint64 `json:"movie_id"`
}

// AddReview handles POST /v1/reviews. The author is always the caller;
// the referenced movie must exist. The response embeds the movie title,
// genre and author name so clients need no follow-up lookups.
func (h *ReviewHandler) AddReview(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	review := model.Review{
		Rating:   req.Rating,
		Comment:  req.Comment,
		AuthorID: uid,
		MovieID:  req.MovieID,
	}
	if err := review.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	exists, err := h.Movies.Exists(ctx, req.MovieID)
	if err != nil {
		h.Log.WithError(err).Error("movie existence check failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	}

	if err := h.Reviews.Create(ctx, &review); err != nil {
		h.Log.WithError(err).Error("create review failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	detail, err := h.Reviews.GetDetailByID(ctx, review.ID)
	if err != nil {
		h.Log.WithError(err).Error("load created review failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	// Best-effort event; a broker failure never fails the request.
	_ = queue_publisher.PublishReviewCreated(ctx, queue.ReviewCreatedEvent{
		ReviewID:   detail.ID,
		MovieID:    detail.MovieID,
		MovieTitle: detail.MovieTitle,
		AuthorID:   detail.AuthorID,
		Rating:     detail.Rating,
		CreatedAt:  detail.CreatedAt.Format(time.RFC3339),
	})

	h.Log.WithFields(logrus.Fields{"review_id": detail.ID, "movie_id": detail.MovieID, "author_id": uid}).Info("review created")
	return c.JSON(http.StatusCreated, detail)
}

// GetReviewsByMovie handles GET /v1/reviews/movie/:movieId. A movie with
// no reviews answers 404 rather than an empty list.
func (h *ReviewHandler) GetReviewsByMovie(c echo.Context) error {
	movieID, err := strconv.ParseUint(c.Param("movieId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	reviews, err := h.Reviews.ListByMovie(c.Request().Context(), movieID)
	if err != nil {
		h.Log.WithError(err).Error("list reviews failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if len(reviews) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no reviews for this movie"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": reviews})
}

// GetReviewByID handles GET /v1/reviews/:id.
func (h *ReviewHandler) GetReviewByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	detail, err := h.Reviews.GetDetailByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrReviewNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		h.Log.WithError(err).Error("get review failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, detail)
}

// UpdateReview handles PUT /v1/reviews/:id. Only the author may update,
// regardless of role; the created_at timestamp is refreshed on edit.
func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	review, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrReviewNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		h.Log.WithError(err).Error("get review failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := policy.CanModifyReview(uid, review); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you can only update your own reviews"})
	}

	review.Rating = req.Rating
	review.Comment = req.Comment
	review.CreatedAt = time.Now().UTC()
	if err := review.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.Reviews.Update(ctx, review); err != nil {
		h.Log.WithError(err).Error("update review failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, review)
}

// DeleteReview handles DELETE /v1/reviews/:id, author-only.
func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx := c.Request().Context()
	review, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrReviewNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		h.Log.WithError(err).Error("get review failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := policy.CanModifyReview(uid, review); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you can only delete your own reviews"})
	}

	if err := h.Reviews.Delete(ctx, id); err != nil {
		h.Log.WithError(err).Error("delete review failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "review deleted"})
}
