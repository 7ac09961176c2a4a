package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviecatalog/internal/models"
	"moviecatalog/internal/repo"
)

func TestRateMovie_UpsertAndAggregate(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	a := env.seedUser("a@x.com", "pw1", "user")
	b := env.seedUser("b@x.com", "pw1", "user")

	rate := func(user *models.User, score uint) {
		rec, c := env.doJSONRequest(http.MethodPost, "/rating/rate-movie", map[string]interface{}{
			"movie_id": "m1",
			"score":    score,
		}, user)
		require.NoError(t, env.Ratings.RateMovie(c))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rate(a, 4)
	rate(b, 10)
	rate(a, 6) // replaces the previous score

	rec, c := env.doJSONRequest(http.MethodGet, "/rating/movie-ratings?movie_id=m1", nil, nil)
	require.NoError(t, env.Ratings.MovieRating(c))

	var agg repo.MovieRating
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &agg))
	assert.Equal(t, int64(2), agg.Count)
	assert.InDelta(t, 8.0, agg.Average, 0.001)

	_, cBad := env.doJSONRequest(http.MethodPost, "/rating/rate-movie", map[string]interface{}{
		"movie_id": "m1",
		"score":    11,
	}, a)
	err := env.Ratings.RateMovie(cBad)
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
}

func TestUserRatings(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	a := env.seedUser("a@x.com", "pw1", "user")

	_, err := env.Repo.RateMovie(context.Background(), a.ID, "m1", 7)
	require.NoError(t, err)
	_, err = env.Repo.RateMovie(context.Background(), a.ID, "m2", 3)
	require.NoError(t, err)

	rec, ctx := env.doJSONRequest(http.MethodGet, "/rating/user-ratings", nil, a)
	require.NoError(t, env.Ratings.UserRatings(ctx))

	var ratings []models.Rating
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ratings))
	assert.Len(t, ratings, 2)
}

func TestBookmarkLifecycle(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	user := env.seedUser("a@x.com", "pw1", "user")

	rec, ctx := env.doJSONRequest(http.MethodGet, "/bookmark/add?movie_id=m1&category=favorites", nil, user)
	require.NoError(t, env.Bookmarks.AddBookmark(ctx))
	require.Equal(t, http.StatusOK, rec.Code)

	// re-adding moves the bookmark to the new category
	_, ctx = env.doJSONRequest(http.MethodGet, "/bookmark/add?movie_id=m1&category=later", nil, user)
	require.NoError(t, env.Bookmarks.AddBookmark(ctx))

	_, ctx = env.doJSONRequest(http.MethodGet, "/bookmark/add?movie_id=m2&category=favorites", nil, user)
	require.NoError(t, env.Bookmarks.AddBookmark(ctx))

	recAll, ctxAll := env.doJSONRequest(http.MethodGet, "/bookmark/all", nil, user)
	require.NoError(t, env.Bookmarks.UserBookmarks(ctxAll))
	var all []models.Bookmark
	require.NoError(t, json.Unmarshal(recAll.Body.Bytes(), &all))
	assert.Len(t, all, 2)

	recFav, ctxFav := env.doJSONRequest(http.MethodGet, "/bookmark/all?category=later", nil, user)
	require.NoError(t, env.Bookmarks.UserBookmarks(ctxFav))
	var later []models.Bookmark
	require.NoError(t, json.Unmarshal(recFav.Body.Bytes(), &later))
	require.Len(t, later, 1)
	assert.Equal(t, "m1", later[0].MovieID)

	recDel, ctxDel := env.doJSONRequest(http.MethodGet, "/bookmark/remove?movie_id=m1", nil, user)
	require.NoError(t, env.Bookmarks.RemoveBookmark(ctxDel))
	require.Equal(t, http.StatusOK, recDel.Code)

	_, ctxGone := env.doJSONRequest(http.MethodGet, "/bookmark/remove?movie_id=m1", nil, user)
	err := env.Bookmarks.RemoveBookmark(ctxGone)
	assert.Equal(t, http.StatusNotFound, httpCode(t, err))
}

func TestWatchedLifecycle(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	a := env.seedUser("a@x.com", "pw1", "user")
	b := env.seedUser("b@x.com", "pw1", "user")

	mark := func(user *models.User, movieID string) {
		rec, ctx := env.doJSONRequest(http.MethodGet, "/watched/add?movie_id="+movieID, nil, user)
		require.NoError(t, env.Watched.AddWatched(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	mark(a, "m1")
	mark(a, "m1") // idempotent
	mark(b, "m1")

	recViews, ctxViews := env.doJSONRequest(http.MethodGet, "/watched/views?movie_id=m1", nil, nil)
	require.NoError(t, env.Watched.MovieViews(ctxViews))
	var views map[string]interface{}
	require.NoError(t, json.Unmarshal(recViews.Body.Bytes(), &views))
	assert.EqualValues(t, 2, views["views"])

	recDel, ctxDel := env.doJSONRequest(http.MethodGet, "/watched/remove?movie_id=m1", nil, a)
	require.NoError(t, env.Watched.RemoveWatched(ctxDel))
	require.Equal(t, http.StatusOK, recDel.Code)

	recViews2, ctxViews2 := env.doJSONRequest(http.MethodGet, "/watched/views?movie_id=m1", nil, nil)
	require.NoError(t, env.Watched.MovieViews(ctxViews2))
	var views2 map[string]interface{}
	require.NoError(t, json.Unmarshal(recViews2.Body.Bytes(), &views2))
	assert.EqualValues(t, 1, views2["views"])
}
