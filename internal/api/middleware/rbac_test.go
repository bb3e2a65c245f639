package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRBAC_Allows(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(KeyRole, "admin")

	called := false
	handler := RBAC("admin")(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_Forbids(t *testing.T) {
	for _, role := range []any{"user", "", nil, 42} {
		e := echo.New()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil), httptest.NewRecorder())
		if role != nil {
			c.Set(KeyRole, role)
		}

		handler := RBAC("admin")(func(c echo.Context) error {
			t.Fatalf("role %v: should not reach next handler", role)
			return nil
		})

		var he *echo.HTTPError
		if err := handler(c); !errors.As(err, &he) || he.Code != http.StatusForbidden {
			t.Fatalf("role %v: expected 403, got %v", role, err)
		}
		if he.Message != "admin role required" {
			t.Errorf("unexpected message %v", he.Message)
		}
	}
}

func TestRBAC_AnyOfSeveralRoles(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set(KeyRole, "user")

	var he *echo.HTTPError
	err := RBAC("admin", "moderator")(func(echo.Context) error { return nil })(c)
	if !errors.As(err, &he) || he.Message != "admin or moderator role required" {
		t.Fatalf("unexpected error %v", err)
	}
}
