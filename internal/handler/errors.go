package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinereview/internal/logger"
	"github.com/iliyamo/cinereview/internal/service"
)

// respond maps a service failure to its HTTP status and body.  Not-found
// and favorites conflicts use a "message" key, everything else "error".
// Unexpected failures are logged in full and answered generically.
func respond(c echo.Context, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Message})
	case errors.Is(err, service.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
	case errors.Is(err, service.ErrReviewNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Review not found"})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, service.ErrAlreadyFavorited):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Movie already in favorites"})
	case errors.Is(err, service.ErrNotFavorited):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Movie not found in user's favorites"})
	case errors.Is(err, service.ErrUpstreamUnavailable):
		logger.Error(c.Request().Context()).Err(err).Str("path", c.Path()).Msg("movie provider failure")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch movie details"})
	default:
		logger.Error(c.Request().Context()).Err(err).Str("path", c.Path()).Msg("request failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}
