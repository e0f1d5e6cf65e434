// Package workflow implements the book-creation pipeline for StoryTime.
// Each run executes the session's current step through a state graph:
// a routing node inspects the workflow state and conditional edges
// dispatch to the matching step node. Step nodes generate content,
// persist it through the session manager, and clear stale approvals;
// they never advance the session or approve their own output.
package workflow

import (
	"context"
	"fmt"
	"time"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/storytime-labs/storytime/internal/sessions"
)

// Run executes the current step of a session. The step is resolved from
// persisted workflow state at routing time, so callers never name a step
// and cannot skip ahead. Re-running a completed step regenerates its
// content and clears its approval.
func Run(ctx context.Context, rt *Runtime, sessionID string, req Request) (*Outcome, error) {
	if sessionID == "" {
		return nil, sessions.ErrEmptySessionID
	}

	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initial := state.New(nil)
	initial = initial.Set(KeySessionID, sessionID)
	initial = initial.Set(KeyRequest, req)

	final, err := graph.Execute(ctx, initial)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractOutcome(final)
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("storytime-pipeline")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	nodes := map[string]state.StateNode{
		"route":      RouteNode(rt),
		"discovery":  DiscoveryNode(rt),
		"seed":       SeedNode(rt),
		"narrate":    NarrateNode(rt),
		"illustrate": IllustrateNode(rt),
		"publish":    PublishNode(rt),
		"report":     ReportNode(rt),
	}
	for name, node := range nodes {
		if err := graph.AddNode(name, node); err != nil {
			return nil, err
		}
	}

	// route → step node matching the session's current step
	edges := map[string]sessions.Step{
		"discovery":  sessions.StepDiscovery,
		"seed":       sessions.StepSeedImage,
		"narrate":    sessions.StepNarration,
		"illustrate": sessions.StepIllustration,
		"publish":    sessions.StepPDFGeneration,
	}
	for name, step := range edges {
		if err := graph.AddEdge("route", name, atStep(step)); err != nil {
			return nil, err
		}

		// every step node reports
		if err := graph.AddEdge(name, "report", nil); err != nil {
			return nil, err
		}
	}

	if err := graph.SetEntryPoint("route"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("report"); err != nil {
		return nil, err
	}

	return graph, nil
}

// RouteNode resolves the session's current step from persisted state and
// rejects runs against a completed session.
func RouteNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		sessionID, err := extractSessionID(s)
		if err != nil {
			return s, fmt.Errorf("route: %w", err)
		}

		ws := rt.Sessions.Get(ctx, sessionID)
		if ws.CurrentStep == sessions.StepCompleted {
			return s, fmt.Errorf("route: %w", ErrTerminalStep)
		}

		rt.Logger.InfoContext(
			ctx, "routing workflow run",
			"session_id", sessionID,
			"step", ws.CurrentStep,
		)

		s = s.Set(KeyStep, ws.CurrentStep)
		return s, nil
	})
}

// ReportNode snapshots the post-run workflow state into the outcome.
func ReportNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		sessionID, err := extractSessionID(s)
		if err != nil {
			return s, fmt.Errorf("report: %w", err)
		}

		step, err := extractStep(s)
		if err != nil {
			return s, fmt.Errorf("report: %w", err)
		}

		ws := rt.Sessions.Get(ctx, sessionID)
		s = s.Set(KeyOutcome, Outcome{
			SessionID:   sessionID,
			Step:        step,
			Completed:   ws.StepCompleted(step),
			State:       ws,
			CompletedAt: time.Now().UTC(),
		})
		return s, nil
	})
}

func atStep(step sessions.Step) func(state.State) bool {
	return func(s state.State) bool {
		current, err := extractStep(s)
		if err != nil {
			return false
		}
		return current == step
	}
}

func extractSessionID(s state.State) (string, error) {
	val, ok := s.Get(KeySessionID)
	if !ok {
		return "", fmt.Errorf("missing %s in state", KeySessionID)
	}

	sessionID, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%s is not string", KeySessionID)
	}
	return sessionID, nil
}

func extractStep(s state.State) (sessions.Step, error) {
	val, ok := s.Get(KeyStep)
	if !ok {
		return "", fmt.Errorf("missing %s in state", KeyStep)
	}

	step, ok := val.(sessions.Step)
	if !ok {
		return "", fmt.Errorf("%s is not sessions.Step", KeyStep)
	}
	return step, nil
}

func extractRequest(s state.State) (Request, error) {
	val, ok := s.Get(KeyRequest)
	if !ok {
		return Request{}, fmt.Errorf("missing %s in state", KeyRequest)
	}

	req, ok := val.(Request)
	if !ok {
		return Request{}, fmt.Errorf("%s is not Request", KeyRequest)
	}
	return req, nil
}

func extractOutcome(s state.State) (*Outcome, error) {
	val, ok := s.Get(KeyOutcome)
	if !ok {
		return nil, fmt.Errorf("missing %s in final state", KeyOutcome)
	}

	outcome, ok := val.(Outcome)
	if !ok {
		return nil, fmt.Errorf("%s is not Outcome", KeyOutcome)
	}
	return &outcome, nil
}
