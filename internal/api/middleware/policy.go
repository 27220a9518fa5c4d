package middleware

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
)

// RequirePolicy lets the request through only when the authenticated caller
// holds every listed policy. It must run after Auth.
func RequirePolicy(policies ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			held, _ := c.Get("policies").([]string)
			for _, p := range policies {
				if !slices.Contains(held, p) {
					return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
				}
			}
			return next(c)
		}
	}
}
