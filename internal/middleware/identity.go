package middleware

// identity.go defines helper functions shared across middleware files.
// It provides a userID extraction function that reads the identity the
// JWTAuth middleware stored in the Echo context. When no user is
// authenticated, "guest" is returned so unauthenticated traffic shares
// one rate-limit bucket per client IP.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// userID extracts a user identifier from the request context. It
// returns "guest" when no user is authenticated.
func userID(c echo.Context) string {
	if v, ok := c.Get("user_id").(uint64); ok && v != 0 {
		return strconv.FormatUint(v, 10)
	}
	return "guest"
}
