package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"moviecatalog/internal/logging"
	"moviecatalog/internal/models"
	"moviecatalog/internal/repo"
	"moviecatalog/internal/tokens"
)

// ContextKey is where RequireAuth puts the resolved *models.User for
// downstream handlers.
const ContextKey = "user"

type AuthMiddleware struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
}

func NewAuthMiddleware(r *repo.GormRepo, secret []byte) *AuthMiddleware {
	return &AuthMiddleware{Repo: r, JWTSecret: secret}
}

// RequireAuth gates a route on a valid access token. The request is
// authenticated only if the token verifies and its subject still resolves
// to an existing user; that user is then attached to the echo context.
// Rejections share one response body, the reason goes to the log.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("mw", "require_auth")

		raw := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if raw == "" {
			l.Warn("request rejected", "reason", "no token")
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}

		claims, err := tokens.AccessClaimsFromToken(raw, m.JWTSecret)
		if err != nil {
			l.Warn("request rejected", "reason", err.Error())
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		userID, err := claims.UserID()
		if err != nil {
			l.Warn("request rejected", "reason", "bad subject")
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		user, err := m.Repo.FindByID(ctx, userID)
		if err != nil {
			l.Warn("request rejected", "reason", "user not found", "user_id", userID)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		c.Set(ContextKey, user)
		return next(c)
	}
}

// AdminOnly must run after RequireAuth.
func (m *AuthMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil || user.Role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
		}
		return next(c)
	}
}

func CurrentUser(c echo.Context) *models.User {
	if u, ok := c.Get(ContextKey).(*models.User); ok {
		return u
	}
	return nil
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(header)
}
