package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviecatalog/internal/models"
)

func TestAddReview(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	user := env.seedUser("a@x.com", "pw1", "user")

	rec, c := env.doJSONRequest(http.MethodPost, "/review/add", map[string]string{
		"movie_id": "123abc",
		"content":  "This movie is great!",
	}, user)
	require.NoError(t, env.Reviews.AddReview(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message string        `json:"message"`
		Result  models.Review `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "review added", resp.Message)
	assert.Equal(t, user.ID, resp.Result.UserID)
	assert.Equal(t, "123abc", resp.Result.MovieID)
	assert.NotZero(t, resp.Result.ID)

	_, cBad := env.doJSONRequest(http.MethodPost, "/review/add", map[string]string{
		"movie_id": "123abc",
	}, user)
	err := env.Reviews.AddReview(cBad)
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
}

func TestEditReview_OwnerOnly(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	owner := env.seedUser("owner@x.com", "pw1", "user")
	other := env.seedUser("other@x.com", "pw1", "user")

	review := models.Review{UserID: owner.ID, MovieID: "m1", Content: "first cut"}
	require.NoError(t, env.Repo.DB.Create(&review).Error)

	payload := map[string]interface{}{
		"review_id":   review.ID,
		"new_content": "updated",
	}

	_, cOther := env.doJSONRequest(http.MethodPost, "/review/edit", payload, other)
	err := env.Reviews.EditReview(cOther)
	assert.Equal(t, http.StatusForbidden, httpCode(t, err))

	rec, cOwner := env.doJSONRequest(http.MethodPost, "/review/edit", payload, owner)
	require.NoError(t, env.Reviews.EditReview(cOwner))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.Review
	require.NoError(t, env.Repo.DB.First(&stored, review.ID).Error)
	assert.Equal(t, "updated", stored.Content)
}

func TestDeleteReview(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	owner := env.seedUser("owner@x.com", "pw1", "user")
	admin := env.seedUser("root@x.com", "pw1", "admin")

	first := models.Review{UserID: owner.ID, MovieID: "m1", Content: "one"}
	second := models.Review{UserID: owner.ID, MovieID: "m2", Content: "two"}
	require.NoError(t, env.Repo.DB.Create(&first).Error)
	require.NoError(t, env.Repo.DB.Create(&second).Error)

	rec, c := env.doJSONRequest(http.MethodGet, "/review/delete?id=1", nil, owner)
	require.NoError(t, env.Reviews.DeleteReview(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// admins may delete anyone's review
	recAdm, cAdm := env.doJSONRequest(http.MethodGet, "/review/delete?id=2", nil, admin)
	require.NoError(t, env.Reviews.DeleteReview(cAdm))
	require.Equal(t, http.StatusOK, recAdm.Code)

	_, cGone := env.doJSONRequest(http.MethodGet, "/review/delete?id=1", nil, owner)
	err := env.Reviews.DeleteReview(cGone)
	assert.Equal(t, http.StatusNotFound, httpCode(t, err))
}

func TestMovieAndUserReviews(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	a := env.seedUser("a@x.com", "pw1", "user")
	b := env.seedUser("b@x.com", "pw1", "user")

	require.NoError(t, env.Repo.DB.Create(&models.Review{UserID: a.ID, MovieID: "m1", Content: "x"}).Error)
	require.NoError(t, env.Repo.DB.Create(&models.Review{UserID: b.ID, MovieID: "m1", Content: "y"}).Error)
	require.NoError(t, env.Repo.DB.Create(&models.Review{UserID: a.ID, MovieID: "m2", Content: "z"}).Error)

	rec, c := env.doJSONRequest(http.MethodGet, "/review/movie-reviews?movie_id=m1", nil, nil)
	require.NoError(t, env.Reviews.MovieReviews(c))
	var byMovie []models.Review
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &byMovie))
	assert.Len(t, byMovie, 2)

	recMine, cMine := env.doJSONRequest(http.MethodGet, "/review/all", nil, a)
	require.NoError(t, env.Reviews.UserReviews(cMine))
	var mine []models.Review
	require.NoError(t, json.Unmarshal(recMine.Body.Bytes(), &mine))
	assert.Len(t, mine, 2)

	_, cNoParam := env.doJSONRequest(http.MethodGet, "/review/movie-reviews", nil, nil)
	err := env.Reviews.MovieReviews(cNoParam)
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
}
