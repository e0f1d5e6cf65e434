package workflow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/storytime-labs/storytime/internal/books"
	"github.com/storytime-labs/storytime/internal/challenges"
	"github.com/storytime-labs/storytime/internal/prompts"
	"github.com/storytime-labs/storytime/internal/sessions"
	"github.com/storytime-labs/storytime/pkg/formatting"
)

type bookResponse struct {
	BookTitle     string `json:"book_title"`
	StyleGuidance string `json:"style_guidance"`
	TotalPages    int    `json:"total_pages"`
	Pages         []struct {
		PageNumber       int    `json:"page_number"`
		Title            string `json:"title"`
		StoryContent     string `json:"story_content"`
		SceneDescription string `json:"scene_description"`
	} `json:"pages"`
}

// NarrateNode returns a state node that generates the complete book
// text. Regeneration replaces the book and discards any illustrations
// produced for the previous text, since their page mapping no longer
// holds. Requires completed discovery.
func NarrateNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		sessionID, err := extractSessionID(s)
		if err != nil {
			return s, fmt.Errorf("narrate: %w", err)
		}

		req, err := extractRequest(s)
		if err != nil {
			return s, fmt.Errorf("narrate: %w", err)
		}

		numPages := req.NumPages
		if numPages == 0 {
			numPages = DefaultPages
		}
		if numPages < MinPages || numPages > MaxPages {
			return s, fmt.Errorf("narrate: %w: got %d", ErrInvalidPageCount, numPages)
		}

		ws := rt.Sessions.Get(ctx, sessionID)
		if ws.ChallengeData == nil {
			return s, fmt.Errorf("narrate: %w: discovery has not produced challenge data", ErrPrerequisiteNotMet)
		}

		content, err := generateBook(ctx, rt, ws.ChallengeData, numPages, req.StylePreference)
		if err != nil {
			return s, fmt.Errorf("narrate: %w", err)
		}

		if err := rt.Sessions.Update(ctx, sessionID, sessions.Patch{
			BookContent:   content,
			Illustrations: map[int]string{},
		}); err != nil {
			return s, fmt.Errorf("narrate: %w", err)
		}

		for _, step := range []sessions.Step{sessions.StepNarration, sessions.StepIllustration} {
			if err := rt.Sessions.ResetApproval(ctx, sessionID, step); err != nil {
				return s, fmt.Errorf("narrate: %w", err)
			}
		}

		rt.Logger.InfoContext(
			ctx, "narrate node complete",
			"session_id", sessionID,
			"book_title", content.BookTitle,
			"total_pages", content.TotalPages,
		)

		return s, nil
	})
}

func generateBook(
	ctx context.Context,
	rt *Runtime,
	challenge *challenges.ChallengeData,
	numPages int,
	stylePreference string,
) (*books.BookContent, error) {
	challengeJSON, err := json.MarshalIndent(challenge, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: serialize challenge: %w", ErrNarrationFailed, err)
	}

	stepContext := fmt.Sprintf("Challenge context:\n\n%s", challengeJSON)
	prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageNarration, stepContext)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNarrationFailed, err)
	}

	userPrompt := fmt.Sprintf("Write the book with exactly %d pages.", numPages)
	if stylePreference != "" {
		userPrompt += fmt.Sprintf(" Tone preference: %s.", stylePreference)
	}

	resp, err := rt.Generator.Text(ctx, textRequest(prompt, userPrompt))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNarrationFailed, err)
	}

	parsed, err := formatting.Parse[bookResponse](resp)
	if err != nil {
		return nil, fmt.Errorf("%w: parse response: %w", ErrNarrationFailed, err)
	}

	pages := make([]books.BookPage, len(parsed.Pages))
	for i, p := range parsed.Pages {
		pages[i] = books.BookPage{
			PageNumber:       p.PageNumber,
			Title:            p.Title,
			StoryContent:     p.StoryContent,
			SceneDescription: p.SceneDescription,
		}
	}

	content, err := books.New(parsed.BookTitle, pages, parsed.TotalPages, parsed.StyleGuidance)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNarrationFailed, err)
	}

	return content, nil
}
