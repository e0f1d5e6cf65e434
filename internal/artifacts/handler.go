package artifacts

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/storytime-labs/storytime/pkg/handlers"
	"github.com/storytime-labs/storytime/pkg/pagination"
	"github.com/storytime-labs/storytime/pkg/routes"
)

// Handler provides HTTP endpoints for artifact listing, photo upload,
// and artifact download.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// UploadResponse reports a stored artifact key.
type UploadResponse struct {
	Key string `json:"key"`
}

// ListResponse reports the artifact keys for a session.
type ListResponse struct {
	SessionID string   `json:"session_id"`
	Keys      []string `json:"keys"`
}

// NewHandler creates a Handler with the given system, logger, pagination
// config, and upload size limit.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "artifacts"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for artifact endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/artifacts",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{session}", Handler: h.List},
			{Method: "POST", Pattern: "/{session}/photos", Handler: h.UploadPhoto},
			{Method: "GET", Pattern: "/blob/{key...}", Handler: h.Download},
		},
	}
}

// List returns a session's artifact keys, optionally narrowed by the
// category query parameter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session")

	var category Category
	if c := r.URL.Query().Get("category"); c != "" {
		parsed, err := ParseCategory(c)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return
		}
		category = parsed
	}

	keys, err := h.sys.List(r.Context(), sessionID, category)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if keys == nil {
		keys = []string{}
	}
	handlers.RespondJSON(w, http.StatusOK, ListResponse{SessionID: sessionID, Keys: keys})
}

// UploadPhoto stores a reference photo of the child for seed image
// generation. Accepts a multipart form with a "file" field or a raw
// image body.
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session")

	data, mime, err := readPhoto(r, h.maxUploadSize)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	key, err := h.sys.Save(r.Context(), sessionID, CategoryPhoto, mime, data)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, UploadResponse{Key: key})
}

// Download streams an artifact by key.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	reader, err := h.sys.Open(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", ContentType(key))
	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Error("artifact stream interrupted", "key", key, "error", err)
	}
}

func readPhoto(r *http.Request, maxSize int64) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err == nil {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", err
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", err
		}
		return data, header.Header.Get("Content-Type"), nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", err
	}
	return data, r.Header.Get("Content-Type"), nil
}
