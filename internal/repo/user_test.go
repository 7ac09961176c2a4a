package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"moviecatalog/internal/models"
)

func initTestDB(t *testing.T) *GormRepo {
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

	return &GormRepo{DB: db}
}

func seedUser(t *testing.T, r *GormRepo, email string) *models.User {
	t.Helper()
	user := &models.User{
		Name:         "test",
		Email:        email,
		PasswordHash: "hash",
		Avatar:       models.DefaultAvatar,
		Role:         "user",
	}
	require.NoError(t, r.CreateUser(context.Background(), user))
	return user
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	t.Parallel()
	r := initTestDB(t)
	ctx := context.Background()

	seedUser(t, r, "a@x.com")

	dup := &models.User{Name: "other", Email: "a@x.com", PasswordHash: "h2", Role: "user"}
	err := r.CreateUser(ctx, dup)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestFindByEmail_NotFound(t *testing.T) {
	t.Parallel()
	r := initTestDB(t)

	_, err := r.FindByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRotateRefreshToken_GuardedUpdate(t *testing.T) {
	t.Parallel()
	r := initTestDB(t)
	ctx := context.Background()

	user := seedUser(t, r, "rotate@x.com")
	require.NoError(t, r.SetRefreshToken(ctx, user.ID, "token-1"))

	// rotation with the value on file succeeds
	require.NoError(t, r.RotateRefreshToken(ctx, user.ID, "token-1", "token-2"))

	// the superseded value loses
	err := r.RotateRefreshToken(ctx, user.ID, "token-1", "token-3")
	assert.ErrorIs(t, err, ErrRefreshMismatch)

	got, err := r.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RefreshToken)
	assert.Equal(t, "token-2", *got.RefreshToken)
}

func TestClearRefreshToken(t *testing.T) {
	t.Parallel()
	r := initTestDB(t)
	ctx := context.Background()

	user := seedUser(t, r, "clear@x.com")
	require.NoError(t, r.SetRefreshToken(ctx, user.ID, "token-1"))
	require.NoError(t, r.ClearRefreshToken(ctx, user.ID))

	got, err := r.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got.RefreshToken)
}

func TestDeleteUser_RemovesAnnotations(t *testing.T) {
	t.Parallel()
	r := initTestDB(t)
	ctx := context.Background()

	user := seedUser(t, r, "delete@x.com")
	require.NoError(t, r.CreateReview(ctx, &models.Review{UserID: user.ID, MovieID: "m1", Content: "good"}))
	_, err := r.RateMovie(ctx, user.ID, "m1", 8)
	require.NoError(t, err)
	_, err = r.AddWatched(ctx, user.ID, "m1")
	require.NoError(t, err)

	require.NoError(t, r.DeleteUser(ctx, user.ID))

	_, err = r.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	reviews, err := r.ReviewsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, reviews)

	views, err := r.MovieViews(ctx, "m1")
	require.NoError(t, err)
	assert.Zero(t, views)

	assert.ErrorIs(t, r.DeleteUser(ctx, user.ID), ErrUserNotFound)
}

func TestRateMovie_Upsert(t *testing.T) {
	t.Parallel()
	r := initTestDB(t)
	ctx := context.Background()

	user := seedUser(t, r, "rate@x.com")
	other := seedUser(t, r, "rate2@x.com")

	_, err := r.RateMovie(ctx, user.ID, "m1", 4)
	require.NoError(t, err)
	_, err = r.RateMovie(ctx, other.ID, "m1", 10)
	require.NoError(t, err)

	// same user re-rating replaces the score, not adds a row
	_, err = r.RateMovie(ctx, user.ID, "m1", 6)
	require.NoError(t, err)

	agg, err := r.MovieRating(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), agg.Count)
	assert.InDelta(t, 8.0, agg.Average, 0.001)
}

func TestMovieRating_NoRatings(t *testing.T) {
	t.Parallel()
	r := initTestDB(t)

	agg, err := r.MovieRating(context.Background(), "unrated")
	require.NoError(t, err)
	assert.Zero(t, agg.Count)
	assert.Zero(t, agg.Average)
}
