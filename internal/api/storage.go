package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"

	"github.com/storytime-labs/storytime/internal/artifacts"
	"github.com/storytime-labs/storytime/pkg/handlers"
	"github.com/storytime-labs/storytime/pkg/routes"
	"github.com/storytime-labs/storytime/pkg/storage"
)

// storageHandler exposes raw blob operations for operational inspection.
// Session-scoped artifact access lives on the artifacts endpoints.
type storageHandler struct {
	store  storage.System
	logger *slog.Logger
}

type storageListResponse struct {
	Prefix string   `json:"prefix"`
	Keys   []string `json:"keys"`
}

func newStorageHandler(store storage.System, logger *slog.Logger) *storageHandler {
	return &storageHandler{
		store:  store,
		logger: logger.With("handler", "storage"),
	}
}

func (h *storageHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/storage",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.list},
			{Method: "GET", Pattern: "/download/{key...}", Handler: h.download},
		},
	}
}

func (h *storageHandler) list(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")

	keys, err := h.store.List(r.Context(), prefix)
	if err != nil {
		handlers.RespondError(
			w, h.logger,
			http.StatusInternalServerError, err,
		)
		return
	}

	if keys == nil {
		keys = []string{}
	}
	handlers.RespondJSON(w, http.StatusOK, storageListResponse{
		Prefix: prefix,
		Keys:   keys,
	})
}

func (h *storageHandler) download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	reader, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(
			w, h.logger,
			storage.MapHTTPStatus(err), err,
		)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", artifacts.ContentType(key))
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", path.Base(key)),
	)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, reader)
}
