package challenges

import (
	"errors"
	"fmt"
	"net/http"
)

// Validation errors for challenge input.
var (
	ErrEmptyName    = errors.New("child name must not be empty")
	ErrInvalidAge   = fmt.Errorf("child age must be between %d and %d", MinAge, MaxAge)
	ErrEmptyDetails = errors.New("challenge details must not be empty")
	ErrEmptyOutcome = errors.New("desired outcome must not be empty")
)

// MapHTTPStatus maps challenge domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEmptyName),
		errors.Is(err, ErrInvalidAge),
		errors.Is(err, ErrEmptyDetails),
		errors.Is(err, ErrEmptyOutcome):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
