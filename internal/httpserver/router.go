package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"moviecatalog/internal/handlers"
	mwauth "moviecatalog/internal/middleware/auth"
	"moviecatalog/internal/tmdb"
)

type Deps struct {
	Auth      *mwauth.AuthMiddleware
	AuthHTTP  *handlers.AuthHandler
	Users     *handlers.UserHandler
	Reviews   *handlers.ReviewHandler
	Ratings   *handlers.RatingHandler
	Bookmarks *handlers.BookmarkHandler
	Watched   *handlers.WatchedHandler
	Search    *handlers.SearchHandler
	TMDB      *tmdb.Handler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authGrp := e.Group("/auth")
	authGrp.POST("/register", d.AuthHTTP.Register)
	authGrp.POST("/login", d.AuthHTTP.Login)
	authGrp.POST("/refresh", d.AuthHTTP.Refresh)
	authGrp.POST("/logout", d.AuthHTTP.LogOut, d.Auth.RequireAuth)

	user := e.Group("/user")
	user.GET("/public-info", d.Users.PublicInfo)
	user.GET("/profile", d.Users.Profile, d.Auth.RequireAuth)
	user.POST("/reset-password", d.Users.ResetPassword, d.Auth.RequireAuth)
	user.POST("/set-name", d.Users.SetName, d.Auth.RequireAuth)
	user.POST("/upload-avatar", d.Users.UploadAvatar, d.Auth.RequireAuth)
	user.GET("/all", d.Users.AllUsers, d.Auth.RequireAuth, d.Auth.AdminOnly)
	user.GET("/delete", d.Users.DeleteUser, d.Auth.RequireAuth, d.Auth.AdminOnly)

	review := e.Group("/review")
	review.GET("/movie-reviews", d.Reviews.MovieReviews)
	review.GET("/search", d.Search.Search)
	review.POST("/add", d.Reviews.AddReview, d.Auth.RequireAuth)
	review.POST("/edit", d.Reviews.EditReview, d.Auth.RequireAuth)
	review.GET("/delete", d.Reviews.DeleteReview, d.Auth.RequireAuth)
	review.GET("/all", d.Reviews.UserReviews, d.Auth.RequireAuth)

	rating := e.Group("/rating")
	rating.GET("/movie-ratings", d.Ratings.MovieRating)
	rating.POST("/rate-movie", d.Ratings.RateMovie, d.Auth.RequireAuth)
	rating.GET("/user-ratings", d.Ratings.UserRatings, d.Auth.RequireAuth)

	bookmark := e.Group("/bookmark", d.Auth.RequireAuth)
	bookmark.GET("/add", d.Bookmarks.AddBookmark)
	bookmark.GET("/remove", d.Bookmarks.RemoveBookmark)
	bookmark.GET("/all", d.Bookmarks.UserBookmarks)

	watched := e.Group("/watched")
	watched.GET("/views", d.Watched.MovieViews)
	watched.GET("/add", d.Watched.AddWatched, d.Auth.RequireAuth)
	watched.GET("/remove", d.Watched.RemoveWatched, d.Auth.RequireAuth)
	watched.GET("/all", d.Watched.UserWatched, d.Auth.RequireAuth)

	e.GET("/tmdb/*", d.TMDB.Proxy)
}
