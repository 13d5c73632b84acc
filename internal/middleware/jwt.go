package middleware

import (
	"context"
	"net/http"

	"trznica/internal/common"
	"trznica/internal/services"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// JWTMiddleware validates the bearer token and places the caller's
// user ID and role into the request context.
func JWTMiddleware(authSvc services.AuthService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			claims, err := authSvc.ValidateToken(c.Request().Context(), auth)
			if err != nil {
				return nil, err
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return nil, err
			}

			ctx := context.WithValue(c.Request().Context(), common.UserIDKey, userID)
			ctx = context.WithValue(ctx, common.RoleKey, claims.Role)
			c.SetRequest(c.Request().WithContext(ctx))

			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("UNAUTHORIZED", "Niste prijavljeni", nil))
		},
	})
}
