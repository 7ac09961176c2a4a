package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"moviecatalog/internal/es"
	"moviecatalog/internal/logging"
	mwauth "moviecatalog/internal/middleware/auth"
	"moviecatalog/internal/models"
	"moviecatalog/internal/mykafka"
	"moviecatalog/internal/repo"
)

type ReviewHandler struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
	Indexer  *es.ReviewIndexer
}

func (h *ReviewHandler) AddReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review_add")
	user := mwauth.CurrentUser(c)

	var req struct {
		MovieID string `json:"movie_id"`
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil || req.MovieID == "" || req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "movie_id and content are required")
	}

	review := models.Review{
		UserID:  user.ID,
		MovieID: req.MovieID,
		Content: req.Content,
	}
	if err := h.Repo.CreateReview(ctx, &review); err != nil {
		l.Error("create failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "review not added")
	}

	if err := h.Indexer.IndexReview(ctx, &review); err != nil {
		l.Warn("review not indexed", "review_id", review.ID, "error", err)
	}
	h.publish(c, map[string]interface{}{
		"type":      "review_added",
		"review_id": review.ID,
		"user_id":   user.ID,
		"movie_id":  review.MovieID,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": "review added",
		"result":  review,
	})
}

func (h *ReviewHandler) EditReview(c echo.Context) error {
	ctx := c.Request().Context()
	user := mwauth.CurrentUser(c)

	var req struct {
		ReviewID   uint   `json:"review_id"`
		NewContent string `json:"new_content"`
	}
	if err := c.Bind(&req); err != nil || req.ReviewID == 0 || req.NewContent == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "review_id and new_content are required")
	}

	review, err := h.Repo.ReviewByID(ctx, req.ReviewID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "review not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "edit failed")
	}
	if review.UserID != user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "not your review")
	}

	if err := h.Repo.UpdateReview(ctx, review.ID, req.NewContent); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "edit failed")
	}
	review.Content = req.NewContent

	if err := h.Indexer.IndexReview(ctx, review); err != nil {
		logging.FromContext(ctx).Warn("review not reindexed", "review_id", review.ID, "error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "review edited",
		"result":  true,
	})
}

func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	ctx := c.Request().Context()
	user := mwauth.CurrentUser(c)

	id, err := strconv.ParseUint(c.QueryParam("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing 'id' parameter")
	}

	review, err := h.Repo.ReviewByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "review not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "delete failed")
	}
	if review.UserID != user.ID && user.Role != "admin" {
		return echo.NewHTTPError(http.StatusForbidden, "not your review")
	}

	if err := h.Repo.DeleteReview(ctx, review.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "delete failed")
	}

	if err := h.Indexer.DeleteReview(ctx, review.ID); err != nil {
		logging.FromContext(ctx).Warn("review not removed from index", "review_id", review.ID, "error", err)
	}
	h.publish(c, map[string]interface{}{
		"type":      "review_deleted",
		"review_id": review.ID,
		"user_id":   user.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("review %d deleted", review.ID),
	})
}

func (h *ReviewHandler) MovieReviews(c echo.Context) error {
	ctx := c.Request().Context()

	movieID := c.QueryParam("movie_id")
	if movieID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing 'movie_id' parameter")
	}

	reviews, err := h.Repo.ReviewsByMovie(ctx, movieID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) UserReviews(c echo.Context) error {
	ctx := c.Request().Context()
	user := mwauth.CurrentUser(c)

	reviews, err := h.Repo.ReviewsByUser(ctx, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	key := fmt.Sprint(event["review_id"])
	if err := h.Producer.PublishEvent(ctx, "review_events", key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}
