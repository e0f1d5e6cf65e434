package workflow

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"

	"github.com/storytime-labs/storytime/internal/artifacts"
	"github.com/storytime-labs/storytime/internal/sessions"
)

// PublishNode returns a state node that assembles the illustrated book
// into a PDF. Page illustrations are staged to a temp directory
// concurrently, imported in page order, and the result is stored as a
// session artifact. Requires a full illustration set.
func PublishNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		sessionID, err := extractSessionID(s)
		if err != nil {
			return s, fmt.Errorf("publish: %w", err)
		}

		ws := rt.Sessions.Get(ctx, sessionID)
		if ws.BookContent == nil {
			return s, fmt.Errorf("publish: %w: narration has not produced book content", ErrPrerequisiteNotMet)
		}
		if missing := ws.BookContent.MissingIllustrations(ws.Illustrations); len(missing) > 0 {
			return s, fmt.Errorf(
				"publish: %w: pages %v have no illustration",
				ErrPrerequisiteNotMet, missing,
			)
		}

		tempDir, err := os.MkdirTemp("", "storytime-publish-*")
		if err != nil {
			return s, fmt.Errorf("publish: %w: create temp directory: %w", ErrPublishFailed, err)
		}
		defer os.RemoveAll(tempDir)

		imageFiles, err := stageIllustrations(ctx, rt, ws, tempDir)
		if err != nil {
			return s, fmt.Errorf("publish: %w", err)
		}

		data, err := assemblePDF(imageFiles, tempDir, ws.BookContent.TotalPages)
		if err != nil {
			return s, fmt.Errorf("publish: %w", err)
		}

		key, err := rt.Artifacts.Save(ctx, sessionID, artifacts.CategoryPDF, "application/pdf", data)
		if err != nil {
			return s, fmt.Errorf("publish: %w: %w", ErrPublishFailed, err)
		}

		if err := rt.Sessions.Update(ctx, sessionID, sessions.Patch{
			PDFPath: &key,
		}); err != nil {
			return s, fmt.Errorf("publish: %w", err)
		}

		if err := rt.Sessions.ResetApproval(ctx, sessionID, sessions.StepPDFGeneration); err != nil {
			return s, fmt.Errorf("publish: %w", err)
		}

		rt.Logger.InfoContext(
			ctx, "publish node complete",
			"session_id", sessionID,
			"key", key,
			"pages", ws.BookContent.TotalPages,
		)

		return s, nil
	})
}

// stageIllustrations downloads the session's illustrations to the temp
// directory concurrently and returns their paths in page order.
func stageIllustrations(
	ctx context.Context,
	rt *Runtime,
	ws *sessions.WorkflowState,
	tempDir string,
) ([]string, error) {
	total := ws.BookContent.TotalPages
	paths := make([]string, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(stageWorkerCount(total))

	for _, page := range ws.BookContent.Pages {
		pageNumber := page.PageNumber
		key := ws.Illustrations[pageNumber]
		path := filepath.Join(tempDir, fmt.Sprintf("page-%03d.png", pageNumber))
		paths[pageNumber-1] = path

		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			data, err := rt.Artifacts.Load(gctx, key)
			if err != nil {
				return fmt.Errorf("load page %d illustration: %w", pageNumber, err)
			}

			if err := os.WriteFile(path, data, 0600); err != nil {
				return fmt.Errorf("stage page %d image: %w", pageNumber, err)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return paths, nil
}

// assemblePDF imports the staged page images into a single PDF and
// verifies the resulting page count before returning the bytes.
func assemblePDF(imageFiles []string, tempDir string, expectedPages int) ([]byte, error) {
	outPath := filepath.Join(tempDir, "book.pdf")

	if err := api.ImportImagesFile(imageFiles, outPath, nil, nil); err != nil {
		return nil, fmt.Errorf("%w: import images: %w", ErrPublishFailed, err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read pdf: %w", ErrPublishFailed, err)
	}

	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: verify pdf: %w", ErrPublishFailed, err)
	}
	if count != expectedPages {
		return nil, fmt.Errorf(
			"%w: pdf has %d pages, expected %d",
			ErrPublishFailed, count, expectedPages,
		)
	}

	return data, nil
}

func stageWorkerCount(pageCount int) int {
	return max(min(runtime.NumCPU(), pageCount), 1)
}
