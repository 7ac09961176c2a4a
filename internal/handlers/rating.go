package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mwauth "moviecatalog/internal/middleware/auth"
	"moviecatalog/internal/repo"
)

type RatingHandler struct {
	Repo *repo.GormRepo
}

func (h *RatingHandler) RateMovie(c echo.Context) error {
	ctx := c.Request().Context()
	user := mwauth.CurrentUser(c)

	var req struct {
		MovieID string `json:"movie_id"`
		Score   uint   `json:"score"`
	}
	if err := c.Bind(&req); err != nil || req.MovieID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "movie_id and score are required")
	}
	if req.Score < 1 || req.Score > 10 {
		return echo.NewHTTPError(http.StatusBadRequest, "score must be between 1 and 10")
	}

	rating, err := h.Repo.RateMovie(ctx, user.ID, req.MovieID, req.Score)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "rating failed")
	}
	return c.JSON(http.StatusOK, rating)
}

func (h *RatingHandler) MovieRating(c echo.Context) error {
	ctx := c.Request().Context()

	movieID := c.QueryParam("movie_id")
	if movieID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing 'movie_id' parameter")
	}

	rating, err := h.Repo.MovieRating(ctx, movieID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	return c.JSON(http.StatusOK, rating)
}

func (h *RatingHandler) UserRatings(c echo.Context) error {
	ctx := c.Request().Context()
	user := mwauth.CurrentUser(c)

	ratings, err := h.Repo.RatingsByUser(ctx, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	return c.JSON(http.StatusOK, ratings)
}
