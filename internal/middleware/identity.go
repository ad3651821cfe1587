package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinereview/internal/auth"
)

// PrincipalFrom returns the principal stored by BearerAuth.
func PrincipalFrom(c echo.Context) (*auth.Principal, bool) {
	p, ok := c.Get(PrincipalKey).(*auth.Principal)
	return p, ok && p != nil
}

// subject identifies the caller for rate limiting.  Anonymous callers
// share the "anon" bucket per ip.
func subject(c echo.Context) string {
	if s, ok := c.Get(SubjectKey).(string); ok && s != "" {
		return s
	}
	return "anon"
}
