package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/snufix/taskflow/internal/core/domain"
)

func render(t *testing.T, log zerolog.Logger, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(log)(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return rec.Code, body
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: latitude 95 out of range", domain.ErrInvalidLocation), http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrNotParticipant, http.StatusForbidden},
		{domain.ErrAccountSuspended, http.StatusForbidden},
		{fmt.Errorf("get task: %w", domain.ErrTaskNotFound), http.StatusNotFound},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrUserExists, http.StatusConflict},
		{domain.ErrAlreadyApplied, http.StatusConflict},
		{domain.ErrAlreadyReviewed, http.StatusConflict},
		{domain.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{domain.ErrOwnTask, http.StatusUnprocessableEntity},
		{echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header"), http.StatusUnauthorized},
	}
	for _, tc := range cases {
		code, body := render(t, zerolog.Nop(), tc.err)
		if code != tc.code {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.code, code)
		}
		if body.Success || body.Message == "" {
			t.Errorf("%v: unexpected envelope %+v", tc.err, body)
		}
	}
}

func TestErrorHandler_DetailOnlyForClientErrors(t *testing.T) {
	_, body := render(t, zerolog.Nop(), fmt.Errorf("%w: latitude 95 out of range", domain.ErrInvalidLocation))
	if body.Message != "invalid location: latitude 95 out of range" {
		t.Errorf("expected wrapped detail, got %q", body.Message)
	}

	_, body = render(t, zerolog.Nop(), fmt.Errorf("find user 42: %w", domain.ErrUserNotFound))
	if body.Message != "user not found" {
		t.Errorf("expected sentinel text, got %q", body.Message)
	}
}

func TestErrorHandler_UnknownErrorIsLoggedAndHidden(t *testing.T) {
	var buf bytes.Buffer
	code, body := render(t, zerolog.New(&buf), errors.New("mongo: connection reset"))

	if code != http.StatusInternalServerError || body.Message != "internal server error" {
		t.Errorf("unexpected response %d %+v", code, body)
	}
	if !bytes.Contains(buf.Bytes(), []byte("connection reset")) {
		t.Errorf("expected cause to be logged, got %q", buf.String())
	}
}
