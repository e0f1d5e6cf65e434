package books

import (
	"errors"
	"net/http"
)

// Validation errors for book content construction.
var (
	ErrEmptyTitle        = errors.New("book title must not be empty")
	ErrEmptyStyle        = errors.New("style guidance must not be empty")
	ErrNoPages           = errors.New("book must have at least one page")
	ErrPageCountMismatch = errors.New("total_pages does not match page count")
	ErrPageNumbering     = errors.New("page numbers must be contiguous from 1")
	ErrEmptyPageField    = errors.New("page title, story content, and scene description must not be empty")
)

// MapHTTPStatus maps book domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEmptyTitle),
		errors.Is(err, ErrEmptyStyle),
		errors.Is(err, ErrNoPages),
		errors.Is(err, ErrPageCountMismatch),
		errors.Is(err, ErrPageNumbering),
		errors.Is(err, ErrEmptyPageField):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
