// Package books implements the book content domain for StoryTime.
// It provides the BookPage and BookContent value objects produced by the
// narration step, with construction-time invariant enforcement.
package books

import "strings"

// BookPage is a single page of a generated storybook. IllustrationPath
// is empty until the illustration step succeeds for this page.
type BookPage struct {
	PageNumber       int    `json:"page_number"`
	Title            string `json:"title"`
	StoryContent     string `json:"story_content"`
	SceneDescription string `json:"scene_description"`
	IllustrationPath string `json:"illustration_path,omitempty"`
}

// BookContent is the complete text of a generated storybook. Pages are
// ordered and contiguous from 1; TotalPages always equals len(Pages).
// StyleGuidance describes the single art style shared by all pages.
type BookContent struct {
	BookTitle     string     `json:"book_title"`
	Pages         []BookPage `json:"pages"`
	TotalPages    int        `json:"total_pages"`
	StyleGuidance string     `json:"style_guidance"`
}

// New validates and constructs a BookContent. It enforces that TotalPages
// matches the page count, that page numbers run contiguously from 1, and
// that every required text field is populated.
func New(title string, pages []BookPage, totalPages int, styleGuidance string) (*BookContent, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}
	if strings.TrimSpace(styleGuidance) == "" {
		return nil, ErrEmptyStyle
	}
	if totalPages != len(pages) {
		return nil, ErrPageCountMismatch
	}
	if len(pages) == 0 {
		return nil, ErrNoPages
	}

	for i, p := range pages {
		if p.PageNumber != i+1 {
			return nil, ErrPageNumbering
		}
		if strings.TrimSpace(p.Title) == "" ||
			strings.TrimSpace(p.StoryContent) == "" ||
			strings.TrimSpace(p.SceneDescription) == "" {
			return nil, ErrEmptyPageField
		}
	}

	return &BookContent{
		BookTitle:     title,
		Pages:         pages,
		TotalPages:    totalPages,
		StyleGuidance: styleGuidance,
	}, nil
}

// Page returns the page with the given number, or nil if out of range.
func (b *BookContent) Page(number int) *BookPage {
	if number < 1 || number > len(b.Pages) {
		return nil
	}
	return &b.Pages[number-1]
}

// MissingIllustrations returns the page numbers, in order, that have no
// entry in the given illustration map. An empty result means the
// illustration step is complete.
func (b *BookContent) MissingIllustrations(illustrations map[int]string) []int {
	var missing []int
	for _, p := range b.Pages {
		if _, ok := illustrations[p.PageNumber]; !ok {
			missing = append(missing, p.PageNumber)
		}
	}
	return missing
}
