package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinereview/internal/service"
)

// FavoriteHandler manages the caller's favorite movies.
type FavoriteHandler struct {
	Identity  *service.IdentityService
	Favorites *service.FavoriteService
}

func NewFavoriteHandler(ids *service.IdentityService, favs *service.FavoriteService) *FavoriteHandler {
	if ids == nil || favs == nil {
		panic("nil service passed to NewFavoriteHandler")
	}
	return &FavoriteHandler{Identity: ids, Favorites: favs}
}

func (h *FavoriteHandler) Add(c echo.Context) error {
	u, err := currentUser(c, h.Identity)
	if err != nil {
		return respond(c, err)
	}
	res, err := h.Favorites.Add(c.Request().Context(), u.ID, c.Param("movieId"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Movie added to favorites successfully",
		"data": echo.Map{
			"movie": toMovie(res.Movie),
			"user": echo.Map{
				"id":             res.UserID,
				"favoriteMovies": toMovies(res.Favorites),
			},
		},
	})
}

func (h *FavoriteHandler) List(c echo.Context) error {
	u, err := currentUser(c, h.Identity)
	if err != nil {
		return respond(c, err)
	}
	movies, err := h.Favorites.List(c.Request().Context(), u.ID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusOK, toFavorites(movies))
}

// Remove un-favorites :movieId and returns the movie.
func (h *FavoriteHandler) Remove(c echo.Context) error {
	u, err := currentUser(c, h.Identity)
	if err != nil {
		return respond(c, err)
	}
	m, err := h.Favorites.Remove(c.Request().Context(), u.ID, c.Param("movieId"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusOK, toMovie(m))
}
