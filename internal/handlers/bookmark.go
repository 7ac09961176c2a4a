package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	mwauth "moviecatalog/internal/middleware/auth"
	"moviecatalog/internal/repo"
)

type BookmarkHandler struct {
	Repo *repo.GormRepo
}

func (h *BookmarkHandler) AddBookmark(c echo.Context) error {
	ctx := c.Request().Context()
	user := mwauth.CurrentUser(c)

	movieID := c.QueryParam("movie_id")
	category := c.QueryParam("category")
	if movieID == "" || category == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "movie_id and category are required")
	}

	bm, err := h.Repo.AddBookmark(ctx, user.ID, movieID, category)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "bookmark failed")
	}
	return c.JSON(http.StatusOK, bm)
}

func (h *BookmarkHandler) RemoveBookmark(c echo.Context) error {
	ctx := c.Request().Context()
	user := mwauth.CurrentUser(c)

	movieID := c.QueryParam("movie_id")
	if movieID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing 'movie_id' parameter")
	}

	if err := h.Repo.RemoveBookmark(ctx, user.ID, movieID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "bookmark not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "remove failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "bookmark removed"})
}

func (h *BookmarkHandler) UserBookmarks(c echo.Context) error {
	ctx := c.Request().Context()
	user := mwauth.CurrentUser(c)

	bms, err := h.Repo.BookmarksByUser(ctx, user.ID, c.QueryParam("category"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	return c.JSON(http.StatusOK, bms)
}
