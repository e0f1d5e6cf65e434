package api

import (
	"github.com/storytime-labs/storytime/internal/artifacts"
	"github.com/storytime-labs/storytime/internal/prompts"
	"github.com/storytime-labs/storytime/internal/sessions"
	"github.com/storytime-labs/storytime/internal/workflow"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Sessions  sessions.System
	Prompts   prompts.System
	Artifacts artifacts.System
	Workflow  *workflow.Runtime
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	sessionsSystem := sessions.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	promptsSystem := prompts.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	artifactsSystem := artifacts.New(
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Sessions:  sessionsSystem,
		Prompts:   promptsSystem,
		Artifacts: artifactsSystem,
		Workflow: &workflow.Runtime{
			Sessions:  sessionsSystem,
			Artifacts: artifactsSystem,
			Prompts:   promptsSystem,
			Generator: runtime.Generator,
			Logger:    runtime.Logger,
		},
	}
}
