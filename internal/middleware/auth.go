package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinereview/internal/auth"
	"github.com/iliyamo/cinereview/internal/logger"
)

// Context keys set by BearerAuth.
const (
	PrincipalKey = "principal"
	SubjectKey   = "user_id"
)

// BearerAuth rejects requests without a valid bearer token.  On success the
// verified principal is stored under PrincipalKey and its subject under
// SubjectKey, so handlers never see an unauthenticated request.
func BearerAuth(v auth.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, raw, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}

			p, err := v.Verify(c.Request().Context(), strings.TrimSpace(raw))
			if err != nil {
				logger.Debug(c.Request().Context()).Err(err).Msg("bearer token rejected")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set(PrincipalKey, p)
			c.Set(SubjectKey, p.Subject)
			return next(c)
		}
	}
}
