package middleware

// identity.go defines helper functions shared across middleware files.
// They read the numeric user ID that JWTAuth stored in the Echo context
// after validating a token.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// userID returns the authenticated user's ID and whether one is present.
func userID(c echo.Context) (uint64, bool) {
	if v, ok := c.Get("user_id").(uint64); ok {
		return v, true
	}
	return 0, false
}

// userIDString renders the authenticated identity for use in cache and
// rate-limit keys. It returns "anon" when no user is authenticated.
func userIDString(c echo.Context) string {
	if id, ok := userID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
