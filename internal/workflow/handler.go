package workflow

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/storytime-labs/storytime/pkg/handlers"
	"github.com/storytime-labs/storytime/pkg/routes"
)

// Handler exposes workflow execution over HTTP. Each call runs the
// session's current step once and returns the resulting state snapshot;
// approval and advancement stay on the session endpoints.
type Handler struct {
	rt     *Runtime
	logger *slog.Logger
}

// NewHandler creates a Handler bound to the given runtime.
func NewHandler(rt *Runtime) *Handler {
	return &Handler{
		rt:     rt,
		logger: rt.Logger.With("handler", "workflow"),
	}
}

// Routes returns the route group definition for workflow endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/sessions",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/{id}/run", Handler: h.Run},
		},
	}
}

// Run executes the session's current step. An empty body runs the step
// with default inputs.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	outcome, err := Run(r.Context(), h.rt, r.PathValue("id"), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, outcome)
}
