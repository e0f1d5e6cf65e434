package sessions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storytime-labs/storytime/internal/books"
	"github.com/storytime-labs/storytime/internal/challenges"
)

func testChallenge(t *testing.T) *challenges.ChallengeData {
	t.Helper()

	cd, err := challenges.New(challenges.CreateCommand{
		ChildName:      "Mila",
		ChildAge:       6,
		Details:        "afraid of the dark at bedtime",
		DesiredOutcome: "feel safe falling asleep",
	})
	require.NoError(t, err)
	return cd
}

func testBook(t *testing.T, pages int) *books.BookContent {
	t.Helper()

	bp := make([]books.BookPage, pages)
	for i := range bp {
		bp[i] = books.BookPage{
			PageNumber:       i + 1,
			Title:            "A Small Light",
			StoryContent:     "Mila found a lantern glowing softly.",
			SceneDescription: "A child holding a lantern in a cozy bedroom.",
		}
	}

	bc, err := books.New("Mila and the Night Lantern", bp, pages, "soft watercolor")
	require.NoError(t, err)
	return bc
}

func TestNewStateDefaults(t *testing.T) {
	state := NewState()

	assert.Equal(t, StepDiscovery, state.CurrentStep)
	assert.Nil(t, state.ChallengeData)
	assert.Empty(t, state.SeedImagePath)
	assert.Nil(t, state.BookContent)
	assert.Empty(t, state.Illustrations)
	assert.Empty(t, state.PDFPath)
	assert.Empty(t, state.Approvals)
	assert.False(t, state.CreatedAt.IsZero())
	assert.Equal(t, state.CreatedAt, state.UpdatedAt)
}

func TestStepCompletedPredicates(t *testing.T) {
	state := NewState()

	for _, step := range Steps() {
		if step == StepCompleted {
			assert.True(t, state.StepCompleted(step))
			continue
		}
		assert.False(t, state.StepCompleted(step), "step %s on empty state", step)
	}

	state.ChallengeData = testChallenge(t)
	assert.True(t, state.StepCompleted(StepDiscovery))

	state.SeedImagePath = "sessions/abc/seed/seed.png"
	assert.True(t, state.StepCompleted(StepSeedImage))

	state.BookContent = testBook(t, 3)
	assert.True(t, state.StepCompleted(StepNarration))

	state.Illustrations = map[int]string{1: "p1.png", 2: "p2.png"}
	assert.False(t, state.StepCompleted(StepIllustration), "partial illustrations")

	state.Illustrations[3] = "p3.png"
	assert.True(t, state.StepCompleted(StepIllustration))

	state.PDFPath = "sessions/abc/pdf/book.pdf"
	assert.True(t, state.StepCompleted(StepPDFGeneration))
}

func TestIllustrationCompletionRequiresBook(t *testing.T) {
	state := NewState()
	state.Illustrations = map[int]string{1: "p1.png"}

	assert.False(t, state.StepCompleted(StepIllustration))
}

func TestCanAdvanceRequiresCompletionAndApproval(t *testing.T) {
	state := NewState()
	assert.False(t, state.CanAdvance(), "incomplete and unapproved")

	state.Approvals[StepDiscovery] = true
	assert.False(t, state.CanAdvance(), "approved but incomplete")

	state.Approvals = map[Step]bool{}
	state.ChallengeData = testChallenge(t)
	assert.False(t, state.CanAdvance(), "completed but unapproved")

	state.Approvals[StepDiscovery] = true
	assert.True(t, state.CanAdvance())
}

func TestCloneIsolation(t *testing.T) {
	state := NewState()
	state.ChallengeData = testChallenge(t)
	state.BookContent = testBook(t, 2)
	state.Illustrations = map[int]string{1: "p1.png"}
	state.Approvals[StepDiscovery] = true

	copied := state.clone()
	copied.Illustrations[2] = "p2.png"
	copied.Approvals[StepSeedImage] = true
	copied.ChallengeData.ChildName = "Other"
	copied.BookContent.Pages[0].Title = "Changed"

	assert.NotContains(t, state.Illustrations, 2)
	assert.False(t, state.Approvals[StepSeedImage])
	assert.Equal(t, "Mila", state.ChallengeData.ChildName)
	assert.Equal(t, "A Small Light", state.BookContent.Pages[0].Title)
}

func TestPatchApply(t *testing.T) {
	state := NewState()
	created := state.CreatedAt

	step := StepNarration
	seed := "sessions/abc/seed/seed.png"
	patch := Patch{
		CurrentStep:   &step,
		ChallengeData: testChallenge(t),
		SeedImagePath: &seed,
	}

	assert.False(t, patch.empty())
	patch.apply(state)

	assert.Equal(t, StepNarration, state.CurrentStep)
	assert.NotNil(t, state.ChallengeData)
	assert.Equal(t, seed, state.SeedImagePath)
	assert.Nil(t, state.BookContent)
	assert.Equal(t, created, state.CreatedAt)
}

func TestEmptyPatchLeavesStateUntouched(t *testing.T) {
	state := NewState()
	state.ChallengeData = testChallenge(t)

	var patch Patch
	assert.True(t, patch.empty())
	patch.apply(state)

	assert.Equal(t, StepDiscovery, state.CurrentStep)
	assert.NotNil(t, state.ChallengeData)
}
