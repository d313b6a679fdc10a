package middleware

// profile.go gates routes that only make sense after onboarding.  The
// routine planner, the scanner and the overview all require a skin
// profile; without one there is nothing to personalize against.

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rbarbosa/glowroutine/internal/repository"
)

// RequireProfile returns middleware that rejects requests from users
// who have not completed onboarding with 409 and a machine-readable
// "profile_required" error, so clients can redirect into the
// questionnaire.  It must run after JWTAuth.
func RequireProfile(profiles *repository.ProfileRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, ok := userID(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user"})
			}
			exists, err := profiles.Exists(c.Request().Context(), uid)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
			}
			if !exists {
				return c.JSON(http.StatusConflict, echo.Map{
					"error":   "profile_required",
					"message": "complete onboarding before using this endpoint",
				})
			}
			return next(c)
		}
	}
}
