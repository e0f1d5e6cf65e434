package workflow

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/storytime-labs/storytime/internal/artifacts"
	"github.com/storytime-labs/storytime/internal/books"
	"github.com/storytime-labs/storytime/internal/generation"
	"github.com/storytime-labs/storytime/internal/prompts"
	"github.com/storytime-labs/storytime/internal/sessions"
)

// IllustrateNode returns a state node that generates one illustration
// per book page. Pages are generated sequentially in page order so each
// call can reference the most recent illustrations for visual
// continuity. Progress persists after every page, so an interrupted run
// resumes at the first missing page instead of starting over. Requires
// completed narration and an approved seed image path.
func IllustrateNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		sessionID, err := extractSessionID(s)
		if err != nil {
			return s, fmt.Errorf("illustrate: %w", err)
		}

		ws := rt.Sessions.Get(ctx, sessionID)
		if ws.BookContent == nil {
			return s, fmt.Errorf("illustrate: %w: narration has not produced book content", ErrPrerequisiteNotMet)
		}
		if ws.SeedImagePath == "" {
			return s, fmt.Errorf("illustrate: %w: no seed image has been generated", ErrPrerequisiteNotMet)
		}

		missing := ws.BookContent.MissingIllustrations(ws.Illustrations)
		if len(missing) == 0 {
			// Full regeneration: the reviewer rejected the complete set.
			missing = pageNumbers(ws.BookContent)
			ws.Illustrations = map[int]string{}
		}

		seed, err := rt.Artifacts.Load(ctx, ws.SeedImagePath)
		if err != nil {
			return s, fmt.Errorf("illustrate: %w: load seed image: %w", ErrIllustrationFailed, err)
		}

		generated := 0
		for _, pageNumber := range missing {
			if ctx.Err() != nil {
				return s, fmt.Errorf("illustrate: %w", ctx.Err())
			}

			page := ws.BookContent.Page(pageNumber)
			if page == nil {
				return s, fmt.Errorf("illustrate: %w: page %d out of range", ErrIllustrationFailed, pageNumber)
			}

			key, err := illustratePage(ctx, rt, sessionID, ws, page, seed)
			if err != nil {
				return s, fmt.Errorf("illustrate: page %d: %w", pageNumber, err)
			}

			ws.Illustrations[pageNumber] = key
			if err := rt.Sessions.Update(ctx, sessionID, sessions.Patch{
				Illustrations: ws.Illustrations,
			}); err != nil {
				return s, fmt.Errorf("illustrate: page %d: %w", pageNumber, err)
			}
			generated++
		}

		if err := rt.Sessions.ResetApproval(ctx, sessionID, sessions.StepIllustration); err != nil {
			return s, fmt.Errorf("illustrate: %w", err)
		}

		rt.Logger.InfoContext(
			ctx, "illustrate node complete",
			"session_id", sessionID,
			"generated", generated,
			"total_pages", ws.BookContent.TotalPages,
		)

		return s, nil
	})
}

func illustratePage(
	ctx context.Context,
	rt *Runtime,
	sessionID string,
	ws *sessions.WorkflowState,
	page *books.BookPage,
	seed []byte,
) (string, error) {
	prompt, err := composeIllustrationPrompt(ctx, rt, ws, page)
	if err != nil {
		return "", err
	}

	refs, err := illustrationReferences(ctx, rt, ws, page.PageNumber, seed)
	if err != nil {
		return "", err
	}

	img, err := rt.Generator.Image(ctx, generation.ImageRequest{
		Prompt:     prompt,
		References: refs,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrIllustrationFailed, err)
	}

	key, err := rt.Artifacts.Save(ctx, sessionID, artifacts.CategoryIllustration, img.MIMEType, img.Data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrIllustrationFailed, err)
	}

	return key, nil
}

func composeIllustrationPrompt(
	ctx context.Context,
	rt *Runtime,
	ws *sessions.WorkflowState,
	page *books.BookPage,
) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Art Style: %s\n", ws.BookContent.StyleGuidance)
	if ws.ChallengeData != nil {
		fmt.Fprintf(&sb, "Character: %s, a %d-year-old\n", ws.ChallengeData.ChildName, ws.ChallengeData.ChildAge)
	}
	fmt.Fprintf(&sb, "Page Title: %s\n", page.Title)
	fmt.Fprintf(&sb, "Story Text: %s\n", page.StoryContent)
	fmt.Fprintf(&sb, "Scene Description: %s", page.SceneDescription)

	return ComposePrompt(ctx, rt.Prompts, prompts.StageIllustration, sb.String())
}

// illustrationReferences builds the reference set for one page: the
// seed character sheet plus up to the last three illustrations of
// earlier pages.
func illustrationReferences(
	ctx context.Context,
	rt *Runtime,
	ws *sessions.WorkflowState,
	pageNumber int,
	seed []byte,
) ([]generation.Reference, error) {
	refs := []generation.Reference{{
		MIMEType: artifacts.ContentType(ws.SeedImagePath),
		Data:     seed,
	}}

	var prior []int
	for n := range ws.Illustrations {
		if n < pageNumber {
			prior = append(prior, n)
		}
	}
	sort.Ints(prior)
	if len(prior) > maxIllustrationRefs {
		prior = prior[len(prior)-maxIllustrationRefs:]
	}

	for _, n := range prior {
		key := ws.Illustrations[n]
		data, err := rt.Artifacts.Load(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("%w: load illustration %s: %w", ErrIllustrationFailed, key, err)
		}
		refs = append(refs, generation.Reference{
			MIMEType: artifacts.ContentType(key),
			Data:     data,
		})
	}

	return refs, nil
}

func pageNumbers(content *books.BookContent) []int {
	numbers := make([]int, len(content.Pages))
	for i, p := range content.Pages {
		numbers[i] = p.PageNumber
	}
	return numbers
}
