package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
)

// ContextUserKey is the echo context key under which the auth middleware
// stores the authenticated user.
const ContextUserKey = "current_user"

// CurrentUser returns the authenticated user set by the auth middleware.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(ContextUserKey).(*model.User)
	return user, ok
}

// respondError maps a domain error to its HTTP shape.
func respondError(c echo.Context, err error) error {
	he := apperrors.MapErrorToHTTP(err)
	return c.JSON(he.StatusCode, he.ToErrorResponse())
}

// parseIDParam parses the :id path parameter.
func parseIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}
