// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"context"
	"net/http"

	"github.com/storytime-labs/storytime/internal/config"
	"github.com/storytime-labs/storytime/internal/infrastructure"
	"github.com/storytime-labs/storytime/pkg/middleware"
	"github.com/storytime-labs/storytime/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(ctx context.Context, cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime, err := NewRuntime(ctx, cfg, infra)
	if err != nil {
		return nil, err
	}
	domain := NewDomain(runtime)

	spec, err := specRoutes(cfg)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime, spec)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))

	return m, nil
}
