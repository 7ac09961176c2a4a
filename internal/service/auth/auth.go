package auth

import (
	"context"
	"errors"
	"time"

	"moviecatalog/internal/hash"
	"moviecatalog/internal/logging"
	"moviecatalog/internal/models"
	"moviecatalog/internal/repo"
	"moviecatalog/internal/tokens"
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	User         *models.User
}

type RefreshResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if name == "" || email == "" || password == "" {
		return nil, ErrValidation
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register failed", "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: pwHash,
		Avatar:       models.DefaultAvatar,
		Role:         "user",
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			l.Warn("register failed", "status", 409, "reason", "email taken")
			return nil, ErrEmailTaken
		}
		l.Error("register failed", "error", err)
		return nil, err
	}

	l.Info("user registered", "user_id", user.ID)
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if email == "" || password == "" {
		return nil, ErrValidation
	}

	user, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			// same failure as a wrong password, on purpose
			return nil, ErrInvalidCredentials
		}
		l.Error("login failed", "error", err)
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	accessExp := time.Now().Add(tokens.AccessTTL)
	accessToken, err := tokens.SignAccessToken(user.ID, s.JWTSecret, accessExp)
	if err != nil {
		l.Error("login failed", "error", err)
		return nil, err
	}

	refreshExp := time.Now().Add(tokens.RefreshTTL)
	refreshToken, err := tokens.SignRefreshToken(user.ID, s.RefreshSecret, refreshExp)
	if err != nil {
		l.Error("login failed", "error", err)
		return nil, err
	}

	// Overwriting the stored value invalidates any refresh token issued
	// by a previous login.
	if err := s.Repo.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		l.Error("login failed", "error", err)
		return nil, err
	}

	l.Info("login successful", "user_id", user.ID)
	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		User:         user,
	}, nil
}

// Refresh exchanges a stored refresh token for a fresh token pair. The
// access token may be expired; only the refresh token decides the outcome.
// Refresh tokens rotate on every use: the stored value is replaced with a
// guarded update, so a replayed or already-rotated token always fails.
func (s *AuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (*RefreshResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	if refreshToken == "" {
		return nil, ErrValidation
	}

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		l.Warn("refresh rejected", "reason", err.Error())
		return nil, ErrRefreshTokenInvalid
	}
	userID, err := claims.UserID()
	if err != nil {
		l.Warn("refresh rejected", "reason", "bad subject")
		return nil, ErrRefreshTokenInvalid
	}

	if accessToken != "" {
		// parsed only for the log line; expiry is expected here
		if _, aerr := tokens.AccessClaimsFromToken(accessToken, s.JWTSecret); aerr != nil {
			l.Debug("access token state at refresh", "reason", aerr.Error())
		}
	}

	user, err := s.Repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			l.Warn("refresh rejected", "reason", "account gone", "user_id", userID)
			return nil, ErrUserNotFound
		}
		l.Error("refresh failed", "error", err)
		return nil, err
	}
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		l.Warn("refresh rejected", "reason", "token not on file", "user_id", userID)
		return nil, ErrRefreshTokenInvalid
	}

	accessExp := time.Now().Add(tokens.AccessTTL)
	newAccess, err := tokens.SignAccessToken(user.ID, s.JWTSecret, accessExp)
	if err != nil {
		l.Error("refresh failed", "error", err)
		return nil, err
	}

	refreshExp := time.Now().Add(tokens.RefreshTTL)
	newRefresh, err := tokens.SignRefreshToken(user.ID, s.RefreshSecret, refreshExp)
	if err != nil {
		l.Error("refresh failed", "error", err)
		return nil, err
	}

	if err := s.Repo.RotateRefreshToken(ctx, user.ID, refreshToken, newRefresh); err != nil {
		if errors.Is(err, repo.ErrRefreshMismatch) {
			// lost the race against a concurrent refresh
			l.Warn("refresh rejected", "reason", "rotated concurrently", "user_id", userID)
			return nil, ErrRefreshTokenInvalid
		}
		l.Error("refresh failed", "error", err)
		return nil, err
	}

	l.Info("tokens rotated", "user_id", user.ID)
	return &RefreshResult{
		AccessToken:  newAccess,
		RefreshToken: newRefresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")
	if err := s.Repo.ClearRefreshToken(ctx, userID); err != nil {
		l.Error("logout failed", "error", err)
		return err
	}
	l.Info("logged out", "user_id", userID)
	return nil
}
