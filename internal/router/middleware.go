package router

import (
	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	apperrors "blogapi/internal/errors"
	"blogapi/internal/handler"
	"blogapi/internal/service"
)

// activeUser is the second half of the auth gate. echo-jwt has already
// verified signature and expiry; this middleware resolves the subject claim to
// an existing user and rejects disabled accounts, storing the user in context.
func activeUser(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwtv5.Token)
			if !ok {
				return unauthenticated(c)
			}
			subject, err := token.Claims.GetSubject()
			if err != nil || subject == "" {
				return unauthenticated(c)
			}

			user, err := authService.ResolveActiveUser(c.Request().Context(), subject)
			if err != nil {
				he := apperrors.MapErrorToHTTP(err)
				if he.StatusCode == 401 {
					c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				}
				return c.JSON(he.StatusCode, he.ToErrorResponse())
			}

			c.Set(handler.ContextUserKey, user)
			return next(c)
		}
	}
}

func unauthenticated(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	he := apperrors.MapErrorToHTTP(apperrors.ErrUnauthenticated)
	return c.JSON(he.StatusCode, he.ToErrorResponse())
}
