package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRequireRole(t *testing.T) {
	e := echo.New()
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	cases := []struct {
		name    string
		role    interface{}
		allowed []string
		want    int
	}{
		{"allowed", "admin", []string{"admin"}, http.StatusOK},
		{"one of several", "worker", []string{"farmer", "worker"}, http.StatusOK},
		{"wrong role", "renter", []string{"admin"}, http.StatusForbidden},
		{"missing role", nil, []string{"admin"}, http.StatusForbidden},
		{"non-string role", 42, []string{"admin"}, http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if tc.role != nil {
			c.Set("role", tc.role)
		}

		h := RequireRole(tc.allowed...)(ok)
		if err := h(c); err != nil {
			t.Fatalf("%s: handler error: %v", tc.name, err)
		}
		if rec.Code != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.name, rec.Code, tc.want)
		}
	}
}
