package artifacts

import (
	"errors"
	"net/http"

	"github.com/storytime-labs/storytime/pkg/storage"
)

// Domain errors for artifact operations.
var (
	ErrInvalidCategory = errors.New("category must be photo, seed, illustration, or pdf")
	ErrEmptySessionID  = errors.New("session id must not be empty")
	ErrEmptyArtifact   = errors.New("artifact data must not be empty")
)

// MapHTTPStatus maps artifact errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidCategory) ||
		errors.Is(err, ErrEmptySessionID) ||
		errors.Is(err, ErrEmptyArtifact) {
		return http.StatusBadRequest
	}
	return storage.MapHTTPStatus(err)
}
