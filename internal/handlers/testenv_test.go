package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"moviecatalog/internal/hash"
	mwauth "moviecatalog/internal/middleware/auth"
	"moviecatalog/internal/models"
	"moviecatalog/internal/repo"
	authsvc "moviecatalog/internal/service/auth"
)

var (
	jwtSecret     = []byte("test-jwt-secret")
	refreshSecret = []byte("test-refresh-secret")
)

type testEnv struct {
	T    *testing.T
	E    *echo.Echo
	Repo *repo.GormRepo

	Auth      *AuthHandler
	Users     *UserHandler
	Reviews   *ReviewHandler
	Ratings   *RatingHandler
	Bookmarks *BookmarkHandler
	Watched   *WatchedHandler
}

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Review{},
		&models.Rating{},
		&models.Bookmark{},
		&models.Watched{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newTestEnv(t *testing.T) *testEnv {
	store := &repo.GormRepo{DB: initTestDB(t)}
	svc := &authsvc.AuthService{
		Repo:          store,
		JWTSecret:     jwtSecret,
		RefreshSecret: refreshSecret,
	}

	return &testEnv{
		T:    t,
		E:    echo.New(),
		Repo: store,

		Auth:      &AuthHandler{Svc: svc},
		Users:     &UserHandler{Repo: store, AvatarDir: t.TempDir()},
		Reviews:   &ReviewHandler{Repo: store},
		Ratings:   &RatingHandler{Repo: store},
		Bookmarks: &BookmarkHandler{Repo: store},
		Watched:   &WatchedHandler{Repo: store},
	}
}

// doJSONRequest builds an echo context for a handler-level call. A non-nil
// user is attached the way RequireAuth would attach it.
func (env *testEnv) doJSONRequest(method, target string, payload any, user *models.User) (*httptest.ResponseRecorder, echo.Context) {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(env.T, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	if user != nil {
		c.Set(mwauth.ContextKey, user)
	}
	return rec, c
}

func (env *testEnv) seedUser(email, password, role string) *models.User {
	env.T.Helper()

	pwHash, err := hash.HashPassword(password)
	require.NoError(env.T, err)

	user := &models.User{
		Name:         "test_user",
		Email:        email,
		PasswordHash: pwHash,
		Avatar:       models.DefaultAvatar,
		Role:         role,
	}
	require.NoError(env.T, env.Repo.DB.Create(user).Error)
	return user
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %v", err)
	return he.Code
}
