package api

import (
	"fmt"

	"github.com/storytime-labs/storytime/internal/config"
	"github.com/storytime-labs/storytime/pkg/openapi"
	"github.com/storytime-labs/storytime/pkg/routes"
)

// specRoutes serializes the OpenAPI document once at startup and serves
// it at /openapi.json under the API base path.
func specRoutes(cfg *config.Config) (routes.Group, error) {
	spec := buildSpec(cfg)

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return routes.Group{}, fmt.Errorf("serialize openapi spec: %w", err)
	}

	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/openapi.json", Handler: openapi.ServeSpec(data)},
		},
	}, nil
}

func buildSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"WorkflowState": {
			Type:        "object",
			Description: "Step progress and generated content for one storybook session",
			Properties: map[string]*openapi.Schema{
				"current_step":    {Type: "string", Enum: stepEnum(), Example: "discovery"},
				"challenge_data":  {Type: "object", Description: "Child and challenge details from discovery"},
				"seed_image_path": {Type: "string", Description: "Artifact key of the character reference sheet"},
				"book_content":    {Type: "object", Description: "Generated book text and scene descriptions"},
				"illustrations":   {Type: "object", Description: "Artifact keys by page number"},
				"pdf_path":        {Type: "string", Description: "Artifact key of the assembled PDF"},
				"approvals":       {Type: "object", Description: "Reviewer sign-off by step"},
				"created_at":      {Type: "string", Format: "date-time"},
				"updated_at":      {Type: "string", Format: "date-time"},
			},
		},
		"RunRequest": {
			Type:        "object",
			Description: "Inputs for executing the session's current step",
			Properties: map[string]*openapi.Schema{
				"parent_input":     {Type: "string", Description: "Free-text challenge description for discovery"},
				"challenge":        {Type: "object", Description: "Structured challenge data, bypasses the discovery model"},
				"art_style":        {Type: "string", Description: "Visual style for the seed image"},
				"num_pages":        {Type: "integer", Description: "Book length for narration", Example: 8},
				"style_preference": {Type: "string", Description: "Tone preference for narration"},
			},
		},
		"ApproveRequest": {
			Type:       "object",
			Required:   []string{"step"},
			Properties: map[string]*openapi.Schema{"step": {Type: "string", Enum: stepEnum()}},
		},
		"Prompt": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"name":         {Type: "string"},
				"stage":        {Type: "string", Enum: stageEnum()},
				"instructions": {Type: "string"},
				"description":  {Type: "string"},
				"active":       {Type: "boolean"},
			},
		},
	})

	addSessionPaths(spec)
	addPromptPaths(spec)
	addArtifactPaths(spec)

	return spec
}

func addSessionPaths(spec *openapi.Spec) {
	spec.Paths["/sessions"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List sessions",
			Tags:    []string{"sessions"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("current_step", "string", "Filter by current step", false),
				openapi.QueryParam("page", "integer", "Page number", false),
				openapi.QueryParam("page_size", "integer", "Results per page", false),
			},
			Responses: map[int]*openapi.Response{
				200: {Description: "Paginated session summaries"},
			},
		},
		Post: &openapi.Operation{
			Summary: "Create a session",
			Tags:    []string{"sessions"},
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("New session identifier and default state", "WorkflowState"),
			},
		},
	}

	spec.Paths["/sessions/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Get session state",
			Tags:       []string{"sessions"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Session identifier")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Workflow state snapshot", "WorkflowState"),
			},
		},
	}

	spec.Paths["/sessions/{id}/gate"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Get step gate status",
			Tags:       []string{"sessions"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Session identifier")},
			Responses: map[int]*openapi.Response{
				200: {Description: "Completion, approval, and advancement status for the current step"},
			},
		},
	}

	spec.Paths["/sessions/{id}/run"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Run the current step",
			Description: "Executes the session's current workflow step and returns the updated state. Re-running a step regenerates its content and clears its approval.",
			Tags:        []string{"workflow"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Session identifier")},
			RequestBody: openapi.RequestBodyJSON("RunRequest", false),
			Responses: map[int]*openapi.Response{
				200: {Description: "Step outcome and state snapshot"},
				400: openapi.ResponseRef("BadRequest"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}

	spec.Paths["/sessions/{id}/approvals"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Approve a step",
			Tags:        []string{"sessions"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Session identifier")},
			RequestBody: openapi.RequestBodyJSON("ApproveRequest", true),
			Responses: map[int]*openapi.Response{
				200: {Description: "Approval result"},
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}

	spec.Paths["/sessions/{id}/advance"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:    "Advance to the next step",
			Tags:       []string{"sessions"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Session identifier")},
			Responses: map[int]*openapi.Response{
				200: {Description: "Whether the session advanced and its current step"},
			},
		},
	}
}

func addPromptPaths(spec *openapi.Spec) {
	spec.Paths["/prompts"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List prompt overrides",
			Tags:    []string{"prompts"},
			Responses: map[int]*openapi.Response{
				200: {Description: "Paginated prompts"},
			},
		},
		Post: &openapi.Operation{
			Summary: "Create a prompt override",
			Tags:    []string{"prompts"},
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Created prompt", "Prompt"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}

	spec.Paths["/prompts/{id}/activate"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:    "Activate a prompt override for its stage",
			Tags:       []string{"prompts"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Prompt identifier")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Activated prompt", "Prompt"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}

func addArtifactPaths(spec *openapi.Spec) {
	spec.Paths["/artifacts/{session}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List session artifacts",
			Tags:    []string{"artifacts"},
			Parameters: []*openapi.Parameter{
				openapi.PathParam("session", "Session identifier"),
				openapi.QueryParam("category", "string", "Artifact category filter", false),
			},
			Responses: map[int]*openapi.Response{
				200: {Description: "Artifact keys"},
			},
		},
	}

	spec.Paths["/artifacts/{session}/photos"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:    "Upload a reference photo",
			Tags:       []string{"artifacts"},
			Parameters: []*openapi.Parameter{openapi.PathParam("session", "Session identifier")},
			Responses: map[int]*openapi.Response{
				201: {Description: "Stored artifact key"},
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/artifacts/blob/{key}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Download an artifact",
			Tags:       []string{"artifacts"},
			Parameters: []*openapi.Parameter{openapi.PathParam("key", "Artifact key")},
			Responses: map[int]*openapi.Response{
				200: {Description: "Artifact bytes"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}

func stepEnum() []any {
	return []any{"discovery", "seed_image", "narration", "illustration", "pdf_generation", "completed"}
}

func stageEnum() []any {
	return []any{"discovery", "seed_image", "narration", "illustration"}
}
