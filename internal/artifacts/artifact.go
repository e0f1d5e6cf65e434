// Package artifacts implements session-scoped binary artifact storage
// for StoryTime. Generated images and PDFs are written once under a
// session prefix and addressed by key; workflow state records the keys.
package artifacts

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Category partitions a session's artifacts by the step that produced
// them.
type Category string

// Valid artifact categories.
const (
	CategoryPhoto        Category = "photo"
	CategorySeed         Category = "seed"
	CategoryIllustration Category = "illustration"
	CategoryPDF          Category = "pdf"
)

var categories = []Category{
	CategoryPhoto,
	CategorySeed,
	CategoryIllustration,
	CategoryPDF,
}

// Categories returns the list of valid artifact categories.
func Categories() []Category {
	return categories
}

// ParseCategory validates a string as a known artifact category.
func ParseCategory(s string) (Category, error) {
	v := Category(s)
	if !slices.Contains(categories, v) {
		return "", ErrInvalidCategory
	}
	return v, nil
}

// contentTypes maps supported artifact extensions to MIME types.
var contentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".pdf":  "application/pdf",
}

// ContentType returns the MIME type for an artifact key based on its
// extension, defaulting to application/octet-stream.
func ContentType(key string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(key))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// ExtensionForMIME returns the storage extension for a generated MIME
// type, defaulting to .png for unrecognized image types.
func ExtensionForMIME(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "application/pdf":
		return ".pdf"
	default:
		return ".png"
	}
}

// NewKey builds a unique storage key for a session artifact.
func NewKey(sessionID string, category Category, ext string) string {
	return fmt.Sprintf("sessions/%s/%s/%s%s", sessionID, category, uuid.NewString(), ext)
}

// Prefix returns the listing prefix for a session, optionally narrowed
// to a category.
func Prefix(sessionID string, category Category) string {
	if category == "" {
		return fmt.Sprintf("sessions/%s/", sessionID)
	}
	return fmt.Sprintf("sessions/%s/%s/", sessionID, category)
}
