package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned on login with an unknown username or a
	// wrong password, and on tokens with a bad signature. The two login cases
	// are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrTokenExpired is returned when a token's expiry has passed.
	ErrTokenExpired = errors.New("token has expired")
	// ErrUnauthenticated is returned when a bearer token cannot be resolved to
	// an existing user.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrAccountDisabled is returned when the token resolves to a known but
	// disabled user.
	ErrAccountDisabled = errors.New("account is disabled")
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateName is returned when a name or its slug is already taken
	// within the entity type.
	ErrDuplicateName = errors.New("name must be unique")
	// ErrUserExists is returned when a username or email is already registered.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidName is returned when a name yields an empty slug.
	ErrInvalidName = errors.New("name does not produce a valid slug")
	// ErrStorage wraps storage failures that are not uniqueness violations.
	ErrStorage = errors.New("storage error")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors collapse
// into a generic 500 so internal detail never reaches the caller.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrTokenExpired):
		return NewHTTPError(http.StatusUnauthorized, ErrTokenExpired.Error(), "TOKEN_EXPIRED")
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthenticated.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrAccountDisabled):
		return NewHTTPError(http.StatusForbidden, ErrAccountDisabled.Error(), "ACCOUNT_DISABLED")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, ErrNotFound.Error(), "NOT_FOUND")
	case errors.Is(err, ErrDuplicateName):
		return NewHTTPError(http.StatusConflict, ErrDuplicateName.Error(), "DUPLICATE_NAME")
	case errors.Is(err, ErrUserExists):
		return NewHTTPError(http.StatusConflict, ErrUserExists.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrInvalidName):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidName.Error(), "INVALID_NAME")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
