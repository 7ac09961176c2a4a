package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	mwauth "moviecatalog/internal/middleware/auth"
	"moviecatalog/internal/repo"
)

type WatchedHandler struct {
	Repo *repo.GormRepo
}

func (h *WatchedHandler) AddWatched(c echo.Context) error {
	ctx := c.Request().Context()
	user := mwauth.CurrentUser(c)

	movieID := c.QueryParam("movie_id")
	if movieID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing 'movie_id' parameter")
	}

	w, err := h.Repo.AddWatched(ctx, user.ID, movieID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "watched mark failed")
	}
	return c.JSON(http.StatusOK, w)
}

func (h *WatchedHandler) RemoveWatched(c echo.Context) error {
	ctx := c.Request().Context()
	user := mwauth.CurrentUser(c)

	movieID := c.QueryParam("movie_id")
	if movieID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing 'movie_id' parameter")
	}

	if err := h.Repo.RemoveWatched(ctx, user.ID, movieID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "watched mark not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "remove failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "watched mark removed"})
}

func (h *WatchedHandler) UserWatched(c echo.Context) error {
	ctx := c.Request().Context()
	user := mwauth.CurrentUser(c)

	list, err := h.Repo.WatchedByUser(ctx, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	return c.JSON(http.StatusOK, list)
}

func (h *WatchedHandler) MovieViews(c echo.Context) error {
	ctx := c.Request().Context()

	movieID := c.QueryParam("movie_id")
	if movieID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing 'movie_id' parameter")
	}

	count, err := h.Repo.MovieViews(ctx, movieID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"movie_id": movieID, "views": count})
}
