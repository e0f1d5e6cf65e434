package sessions

import (
	"errors"
	"net/http"
)

// Domain errors for workflow state operations.
var (
	ErrInvalidStep      = errors.New("unrecognized workflow step")
	ErrStepNotCompleted = errors.New("step not yet completed")
	ErrEmptySessionID   = errors.New("session id must not be empty")
	ErrPersistence      = errors.New("workflow state persistence failed")
)

// MapHTTPStatus maps session domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidStep) || errors.Is(err, ErrEmptySessionID) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrStepNotCompleted) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
