package api

import (
	"net/http"

	"github.com/storytime-labs/storytime/internal/config"
	"github.com/storytime-labs/storytime/internal/workflow"
	"github.com/storytime-labs/storytime/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
	spec routes.Group,
) {
	routes.Register(
		mux,
		domain.Sessions.Handler().Routes(),
		workflow.NewHandler(domain.Workflow).Routes(),
		domain.Prompts.Handler().Routes(),
		domain.Artifacts.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		newStorageHandler(runtime.Storage, runtime.Logger).routes(),
		spec,
	)
}
