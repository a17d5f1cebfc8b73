package middleware

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"

	"github.com/ChaseWoodhams/xytex-sub002/pkg/context"
)

// operatorRoles may run merge, move, and split operations. These mutations
// are irreversible so they are not open to every caller.
var operatorRoles = map[string]bool{
	"admin":        true,
	"data_steward": true,
}

// RequireOperator guards mutation routes
func RequireOperator() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := context.GetUserRole(c.Request().Context())
			if !operatorRoles[role] {
				return httperror.NewHTTPError(http.StatusForbidden, "operator role required")
			}
			return next(c)
		}
	}
}
