package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/donelist/task-system/internal/core/domain"
)

func TestResolveError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/tasks/1", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	log := zerolog.Nop()

	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"validation", fmt.Errorf("%w: text is required", domain.ErrValidation), http.StatusBadRequest, "validation failed: text is required"},
		{"task not found", domain.ErrTaskNotFound, http.StatusNotFound, "task not found"},
		{"wrapped task not found", fmt.Errorf("lookup: %w", domain.ErrTaskNotFound), http.StatusNotFound, "task not found"},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{"storage unavailable", domain.ErrStorageUnavailable, http.StatusServiceUnavailable, "storage unavailable"},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		code, msg := resolveError(tc.err, log, c)
		if code != tc.code {
			t.Errorf("%s: expected code %d, got %d", tc.name, tc.code, code)
		}
		if msg != tc.msg {
			t.Errorf("%s: expected message %q, got %q", tc.name, tc.msg, msg)
		}
	}
}
