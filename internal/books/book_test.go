package books_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storytime-labs/storytime/internal/books"
)

func makePages(n int) []books.BookPage {
	pages := make([]books.BookPage, n)
	for i := range pages {
		pages[i] = books.BookPage{
			PageNumber:       i + 1,
			Title:            "A Brave Step",
			StoryContent:     "Emma took a deep breath and smiled.",
			SceneDescription: "Emma standing at her bedroom door, moonlight on the floor.",
		}
	}
	return pages
}

func TestNewValid(t *testing.T) {
	book, err := books.New("Emma and the Gentle Dark", makePages(3), 3, "soft watercolor, warm palette")
	require.NoError(t, err)

	assert.Equal(t, 3, book.TotalPages)
	assert.Len(t, book.Pages, 3)
}

func TestNewPageCountMismatch(t *testing.T) {
	_, err := books.New("Emma and the Gentle Dark", makePages(4), 5, "soft watercolor")
	assert.ErrorIs(t, err, books.ErrPageCountMismatch)
}

func TestNewNonContiguousPages(t *testing.T) {
	pages := makePages(3)
	pages[1].PageNumber = 5

	_, err := books.New("Emma and the Gentle Dark", pages, 3, "soft watercolor")
	assert.ErrorIs(t, err, books.ErrPageNumbering)
}

func TestNewEmptyFields(t *testing.T) {
	_, err := books.New("  ", makePages(2), 2, "soft watercolor")
	assert.ErrorIs(t, err, books.ErrEmptyTitle)

	_, err = books.New("Title", makePages(2), 2, "")
	assert.ErrorIs(t, err, books.ErrEmptyStyle)

	pages := makePages(2)
	pages[1].SceneDescription = ""
	_, err = books.New("Title", pages, 2, "soft watercolor")
	assert.ErrorIs(t, err, books.ErrEmptyPageField)

	_, err = books.New("Title", nil, 0, "soft watercolor")
	assert.ErrorIs(t, err, books.ErrNoPages)
}

func TestPage(t *testing.T) {
	book, err := books.New("Title", makePages(3), 3, "soft watercolor")
	require.NoError(t, err)

	assert.Equal(t, 2, book.Page(2).PageNumber)
	assert.Nil(t, book.Page(0))
	assert.Nil(t, book.Page(4))
}

func TestMissingIllustrations(t *testing.T) {
	book, err := books.New("Title", makePages(3), 3, "soft watercolor")
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, book.MissingIllustrations(nil))
	assert.Equal(
		t, []int{3},
		book.MissingIllustrations(map[int]string{1: "a.png", 2: "b.png"}),
	)
	assert.Empty(t, book.MissingIllustrations(map[int]string{1: "a.png", 2: "b.png", 3: "c.png"}))
}
