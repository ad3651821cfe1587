package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinereview/internal/middleware"
	"github.com/iliyamo/cinereview/internal/service"
)

// UserHandler serves the caller's own account.
type UserHandler struct {
	Identity *service.IdentityService
}

func NewUserHandler(ids *service.IdentityService) *UserHandler {
	if ids == nil {
		panic("nil identity service passed to NewUserHandler")
	}
	return &UserHandler{Identity: ids}
}

// VerifyUser returns the caller's local user, creating it from the token's
// email and name claims on first sight.
func (h *UserHandler) VerifyUser(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return respond(c, errNoPrincipal)
	}
	u, err := h.Identity.Resolve(c.Request().Context(), service.Identity{
		Subject: p.Subject,
		Email:   p.Email,
		Name:    p.Name,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusOK, toUser(u))
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	u, err := currentUser(c, h.Identity)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusOK, toUser(u))
}

type profileBody struct {
	Name *string `json:"name"`
}

// UpdateProfile changes the display name.  Omitting "name" is a no-op.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	u, err := currentUser(c, h.Identity)
	if err != nil {
		return respond(c, err)
	}
	var body profileBody
	if err := c.Bind(&body); err != nil {
		return respond(c, &service.ValidationError{Message: "invalid JSON body"})
	}
	updated, err := h.Identity.UpdateProfile(c.Request().Context(), u.ID, body.Name)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusOK, toUser(updated))
}
