package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/zipghana/rental-reservation/internal/utils"
)

const testSecret = "middleware-test-secret"

func runJWT(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := JWTAuth(testSecret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec, c
}

func TestJWTAuthMissingToken(t *testing.T) {
	for _, header := range []string{"", "Basic abc", "bearer lowercase-scheme", "Token xyz"} {
		rec, _ := runJWT(t, header)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: status = %d, want 401", header, rec.Code)
		}
	}
}

func TestJWTAuthInvalidToken(t *testing.T) {
	// Garbage, wrong-key and expired tokens all collapse to the same
	// undifferentiated 401.
	wrong, err := utils.NewAccessToken("some-other-secret", 5, "e@x.com", "customer", 7)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	expired, err := utils.NewAccessToken(testSecret, 5, "e@x.com", "customer", -1)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	for _, raw := range []string{"garbage", wrong.Token, expired.Token} {
		rec, _ := runJWT(t, "Bearer "+raw)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("token %q: status = %d, want 401", raw, rec.Code)
		}
	}
}

func TestJWTAuthValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 42, "ama@example.com", "customer", 7)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	rec, c := runJWT(t, "Bearer "+tok.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got, ok := c.Get("user_id").(uint64); !ok || got != 42 {
		t.Errorf("user_id in context = %v, want 42", c.Get("user_id"))
	}
	if got, _ := c.Get("email").(string); got != "ama@example.com" {
		t.Errorf("email in context = %q", got)
	}
	if got, _ := c.Get("role").(string); got != "customer" {
		t.Errorf("role in context = %q", got)
	}
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name     string
		role     interface{}
		allowed  []string
		wantCode int
	}{
		{"allowed", "rental_manager", []string{"rental_manager", "admin"}, http.StatusOK},
		{"denied", "customer", []string{"rental_manager", "admin"}, http.StatusForbidden},
		{"missing role", nil, []string{"customer"}, http.StatusForbidden},
		{"wrong type", 42, []string{"customer"}, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tc.role != nil {
				c.Set("role", tc.role)
			}
			h := RequireRole(tc.allowed...)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})
			if err := h(c); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantCode)
			}
		})
	}
}
