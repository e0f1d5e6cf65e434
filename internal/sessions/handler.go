package sessions

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/storytime-labs/storytime/pkg/handlers"
	"github.com/storytime-labs/storytime/pkg/pagination"
	"github.com/storytime-labs/storytime/pkg/routes"
)

// Handler provides HTTP endpoints for session state, approvals, and
// advancement.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// ApproveRequest is the JSON body for the approval endpoint.
type ApproveRequest struct {
	Step string `json:"step"`
}

// CreateResponse reports a newly allocated session.
type CreateResponse struct {
	SessionID string         `json:"session_id"`
	State     *WorkflowState `json:"state"`
}

// GateResponse reports the step-gating status of a session.
type GateResponse struct {
	CurrentStep Step `json:"current_step"`
	Completed   bool `json:"completed"`
	Approved    bool `json:"approved"`
	CanAdvance  bool `json:"can_advance"`
}

// AdvanceResponse reports the outcome of an advancement attempt.
type AdvanceResponse struct {
	Advanced    bool `json:"advanced"`
	CurrentStep Step `json:"current_step"`
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "sessions"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for session endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/sessions",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/{id}/gate", Handler: h.Gate},
			{Method: "POST", Pattern: "/{id}/approvals", Handler: h.Approve},
			{Method: "POST", Pattern: "/{id}/advance", Handler: h.Advance},
		},
	}
}

// List returns a paginated list of sessions with optional step filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create allocates a new session identifier. No state is persisted until
// the first update.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sessionID := uuid.NewString()

	handlers.RespondJSON(w, http.StatusCreated, CreateResponse{
		SessionID: sessionID,
		State:     h.sys.Get(r.Context(), sessionID),
	})
}

// Find returns the workflow state snapshot for a session.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	state := h.sys.Get(r.Context(), r.PathValue("id"))
	handlers.RespondJSON(w, http.StatusOK, state)
}

// Gate reports completion, approval, and advancement status for the
// session's current step.
func (h *Handler) Gate(w http.ResponseWriter, r *http.Request) {
	state := h.sys.Get(r.Context(), r.PathValue("id"))

	handlers.RespondJSON(w, http.StatusOK, GateResponse{
		CurrentStep: state.CurrentStep,
		Completed:   state.StepCompleted(state.CurrentStep),
		Approved:    state.StepApproved(state.CurrentStep),
		CanAdvance:  state.CanAdvance(),
	})
}

// Approve records reviewer sign-off for a step via the approval gate.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	var req ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidStep)
		return
	}

	result := h.sys.ApproveStep(r.Context(), r.PathValue("id"), req.Step)
	if !result.Success {
		handlers.RespondJSON(w, MapHTTPStatus(result.Err()), result)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Advance attempts to move the session to its next step.
func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	_, advanced, err := h.sys.Advance(r.Context(), sessionID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	state := h.sys.Get(r.Context(), sessionID)
	handlers.RespondJSON(w, http.StatusOK, AdvanceResponse{
		Advanced:    advanced,
		CurrentStep: state.CurrentStep,
	})
}
