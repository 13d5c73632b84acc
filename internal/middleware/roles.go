package middleware

import (
	"trznica/internal/common"

	"github.com/labstack/echo/v4"
)

// RequireRole rejects callers whose role is not in the allowed set.
// Must run after JWTMiddleware.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := common.GetRoleFromContext(c.Request().Context())
			if !ok {
				return common.SendUnauthorizedError(c)
			}
			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}
			return common.SendForbiddenError(c, "Dostop zavrnjen")
		}
	}
}
