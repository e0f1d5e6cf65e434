package api

import (
	"context"
	"fmt"

	"github.com/storytime-labs/storytime/internal/config"
	"github.com/storytime-labs/storytime/internal/generation"
	"github.com/storytime-labs/storytime/internal/infrastructure"
	"github.com/storytime-labs/storytime/pkg/pagination"
)

// Runtime extends Infrastructure with API-scoped configuration and the
// generation clients.
type Runtime struct {
	*infrastructure.Infrastructure
	Generator  generation.System
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(ctx context.Context, cfg *config.Config, infra *infrastructure.Infrastructure) (*Runtime, error) {
	logger := infra.Logger.With("module", "api")

	generator, err := generation.New(ctx, &cfg.Generation, logger)
	if err != nil {
		return nil, fmt.Errorf("generation init failed: %w", err)
	}

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    logger,
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Generator:  generator,
		Pagination: cfg.API.Pagination,
	}, nil
}
