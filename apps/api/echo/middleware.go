package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/aimelive/mcsa-awards/core/user"
)

// requireRole rejects requests whose token role does not satisfy required.
// SUPER_ADMIN satisfies every requirement.
func requireRole(required string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if user.RoleSatisfies(claims.Role, required) {
				return next(ctx)
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("Access denied, you must be %s to perform this action", required))
		}
	}
}
