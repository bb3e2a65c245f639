package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"
)

// RBAC admits only callers whose token role is one of roles; everyone else
// gets 403 through the API error handler. It must run after Auth.
func RBAC(roles ...string) echo.MiddlewareFunc {
	denied := echo.NewHTTPError(http.StatusForbidden, strings.Join(roles, " or ")+" role required")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(KeyRole).(string)
			if !slices.Contains(roles, role) {
				return denied
			}
			return next(c)
		}
	}
}
