package workflow

import (
	"errors"
	"net/http"

	"github.com/storytime-labs/storytime/internal/generation"
	"github.com/storytime-labs/storytime/internal/sessions"
)

// Domain errors for workflow execution.
var (
	ErrPrerequisiteNotMet = errors.New("a prior step has not produced its data yet")
	ErrTerminalStep       = errors.New("the session is already completed")
	ErrInvalidPageCount   = errors.New("num_pages must be between 4 and 20")
	ErrMissingInput       = errors.New("the discovery step requires parent input or challenge data")
	ErrDiscoveryFailed    = errors.New("discovery step failed")
	ErrSeedFailed         = errors.New("seed image step failed")
	ErrNarrationFailed    = errors.New("narration step failed")
	ErrIllustrationFailed = errors.New("illustration step failed")
	ErrPublishFailed      = errors.New("pdf generation step failed")
)

// MapHTTPStatus maps workflow errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrPrerequisiteNotMet) || errors.Is(err, ErrTerminalStep) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidPageCount) || errors.Is(err, ErrMissingInput) {
		return http.StatusBadRequest
	}
	if errors.Is(err, generation.ErrEmptyResponse) || errors.Is(err, generation.ErrNoImage) {
		return http.StatusBadGateway
	}
	return sessions.MapHTTPStatus(err)
}
