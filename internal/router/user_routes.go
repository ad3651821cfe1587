package router

import (
	"github.com/labstack/echo/v4"
)

// RegisterAuthenticated registers every endpoint that acts on behalf of the
// caller.  authn must come first in mw so later middleware sees the
// subject.  Routes are attached individually rather than through a
// prefix-less group, which would swallow unknown paths with a 401.
func RegisterAuthenticated(e *echo.Echo, h Handlers, mw ...echo.MiddlewareFunc) {
	e.POST("/verify-user", h.Users.VerifyUser, mw...)
	e.GET("/user-profile", h.Users.GetProfile, mw...)
	e.PATCH("/user-profile", h.Users.UpdateProfile, mw...)

	e.POST("/submit-review/:movieId", h.Reviews.Submit, mw...)
	e.PUT("/update-review/:reviewId", h.Reviews.Update, mw...)
	e.DELETE("/delete-review/:reviewId", h.Reviews.Delete, mw...)
	e.GET("/user-reviews", h.Reviews.ForUser, mw...)

	e.POST("/favorite-movie/:movieId", h.Favorites.Add, mw...)
	e.DELETE("/favorite-movie/:movieId", h.Favorites.Remove, mw...)
	e.GET("/favorite-movies", h.Favorites.List, mw...)
}
