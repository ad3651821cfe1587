// Package handler exposes the HTTP handlers of the review API.  Handlers
// only parse requests, call a service and shape the response; every rule
// about ownership or uniqueness lives in internal/service.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinereview/internal/middleware"
	"github.com/iliyamo/cinereview/internal/model"
	"github.com/iliyamo/cinereview/internal/service"
)

var errNoPrincipal = errors.New("no authenticated principal in context")

// currentUser returns the local user for the authenticated caller.  It
// never creates one: only POST /verify-user does.
func currentUser(c echo.Context, ids *service.IdentityService) (*model.User, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return nil, errNoPrincipal
	}
	return ids.Lookup(c.Request().Context(), p.Subject)
}

// reviewID parses the :reviewId path parameter.  Anything that is not a
// positive integer cannot name a review.
func reviewID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("reviewId"), 10, 64)
	return id, err == nil && id > 0
}

func reviewNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, echo.Map{"message": "Review not found"})
}

// reviewBody is the JSON payload for creating and updating a review.
type reviewBody struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func bindReview(c echo.Context) (reviewBody, error) {
	var body reviewBody
	if err := c.Bind(&body); err != nil {
		return body, &service.ValidationError{Message: "invalid JSON body"}
	}
	return body, nil
}
