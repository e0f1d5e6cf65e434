package generation

import (
	"errors"
	"net/http"
)

// Domain errors for generation operations.
var (
	ErrEmptyResponse = errors.New("model returned an empty response")
	ErrNoImage       = errors.New("model response contained no image data")
	ErrEmptyPrompt   = errors.New("generation prompt must not be empty")
)

// MapHTTPStatus maps generation errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrEmptyPrompt) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrEmptyResponse) || errors.Is(err, ErrNoImage) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
