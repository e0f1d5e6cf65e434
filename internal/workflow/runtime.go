package workflow

import (
	"log/slog"

	"github.com/storytime-labs/storytime/internal/artifacts"
	"github.com/storytime-labs/storytime/internal/generation"
	"github.com/storytime-labs/storytime/internal/prompts"
	"github.com/storytime-labs/storytime/internal/sessions"
)

// Runtime bundles the dependencies that workflow nodes require.
// It is constructed by higher-level composition code from Infrastructure and Domain systems.
type Runtime struct {
	Sessions  sessions.System
	Artifacts artifacts.System
	Prompts   prompts.System
	Generator generation.System
	Logger    *slog.Logger
}
