package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinereview/internal/service"
)

// MovieHandler proxies title search to the metadata provider so the
// provider key never reaches the browser.
type MovieHandler struct {
	Movies *service.MovieIngestion
}

func NewMovieHandler(movies *service.MovieIngestion) *MovieHandler {
	if movies == nil {
		panic("nil ingestion service passed to NewMovieHandler")
	}
	return &MovieHandler{Movies: movies}
}

// Search handles GET /search-movies?query=.
func (h *MovieHandler) Search(c echo.Context) error {
	results, err := h.Movies.Search(c.Request().Context(), c.QueryParam("query"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusOK, toSearchResults(results))
}
