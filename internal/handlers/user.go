package handlers

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"moviecatalog/internal/hash"
	"moviecatalog/internal/logging"
	mwauth "moviecatalog/internal/middleware/auth"
	"moviecatalog/internal/models"
	"moviecatalog/internal/repo"
)

type UserHandler struct {
	Repo      *repo.GormRepo
	AvatarDir string
}

func (h *UserHandler) Profile(c echo.Context) error {
	user := mwauth.CurrentUser(c)
	return c.JSON(http.StatusOK, user.Public())
}

func (h *UserHandler) PublicInfo(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseUint(c.QueryParam("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing 'id' parameter")
	}

	user, err := h.Repo.FindByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	return c.JSON(http.StatusOK, user.Public())
}

func (h *UserHandler) AllUsers(c echo.Context) error {
	ctx := c.Request().Context()

	users, err := h.Repo.AllUsers(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_delete")

	id, err := strconv.ParseUint(c.QueryParam("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing 'id' parameter")
	}

	if err := h.Repo.DeleteUser(ctx, uint(id)); err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		l.Error("delete failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "delete failed")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "user deleted",
		"id":      id,
	})
}

func (h *UserHandler) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	user := mwauth.CurrentUser(c)

	var req struct {
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil || req.NewPassword == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "new_password is required")
	}

	pwHash, err := hash.HashPassword(req.NewPassword)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "password update failed")
	}

	user.PasswordHash = pwHash
	if err := h.Repo.SaveUser(ctx, user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "password update failed")
	}
	return c.JSON(http.StatusOK, user.Public())
}

func (h *UserHandler) SetName(c echo.Context) error {
	ctx := c.Request().Context()
	user := mwauth.CurrentUser(c)

	var req struct {
		NewName string `json:"new_name"`
	}
	if err := c.Bind(&req); err != nil || req.NewName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "new_name is required")
	}

	user.Name = req.NewName
	if err := h.Repo.SaveUser(ctx, user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "name update failed")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "name changed",
		"user":    user.Public(),
	})
}

func (h *UserHandler) UploadAvatar(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_upload_avatar")
	user := mwauth.CurrentUser(c)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image file is required")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read image")
	}
	defer src.Close()

	if err := os.MkdirAll(h.AvatarDir, 0o755); err != nil {
		l.Error("avatar dir error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "upload failed")
	}

	name := uuid.NewString() + filepath.Ext(fileHeader.Filename)
	dst, err := os.Create(filepath.Join(h.AvatarDir, name))
	if err != nil {
		l.Error("avatar create error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "upload failed")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		l.Error("avatar write error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "upload failed")
	}

	oldAvatar := user.Avatar
	user.Avatar = name
	if err := h.Repo.SaveUser(ctx, user); err != nil {
		l.Error("avatar save error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "upload failed")
	}

	if oldAvatar != "" && oldAvatar != models.DefaultAvatar {
		if err := os.Remove(filepath.Join(h.AvatarDir, oldAvatar)); err != nil {
			l.Warn("old avatar not removed", "file", oldAvatar, "error", err)
		}
	}

	return c.JSON(http.StatusOK, user.Public())
}
