package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/snufix/taskflow/internal/api/middleware"
	"github.com/snufix/taskflow/internal/core/ports"
)

// ctxUserID extracts the caller id injected by the Auth middleware. Its
// absence means the route was mounted without Auth.
func ctxUserID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.KeyUserID).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

// ctxTokenClaims returns the identity of the token used for this request.
func ctxTokenClaims(c echo.Context) (ports.TokenClaims, error) {
	id, err := ctxUserID(c)
	if err != nil {
		return ports.TokenClaims{}, err
	}
	jti, _ := c.Get(middleware.KeyTokenID).(string)
	exp, _ := c.Get(middleware.KeyTokenExp).(time.Time)
	return ports.TokenClaims{UserID: id, TokenID: jti, ExpiresAt: exp}, nil
}
