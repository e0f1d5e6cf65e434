package artifacts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/storytime-labs/storytime/pkg/pagination"
	"github.com/storytime-labs/storytime/pkg/storage"
)

// System defines the artifact store contract consumed by step handlers
// and HTTP endpoints.
type System interface {
	Handler(maxUploadSize int64) *Handler

	// Save writes artifact data under a fresh session-scoped key and
	// returns the key.
	Save(ctx context.Context, sessionID string, category Category, mime string, data []byte) (string, error)

	// Load returns the artifact bytes for a key. Recently loaded
	// artifacts are served from an in-memory cache, since illustration
	// generation re-reads the same reference images for every page.
	Load(ctx context.Context, key string) ([]byte, error)

	// Open returns a stream for the artifact, bypassing the cache.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// List returns the keys of a session's artifacts, optionally
	// narrowed to one category. Category "" lists everything.
	List(ctx context.Context, sessionID string, category Category) ([]string, error)

	// Delete removes an artifact.
	Delete(ctx context.Context, key string) error
}

type store struct {
	storage    storage.System
	cache      *gocache.Cache
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an artifact store over the given blob storage.
func New(st storage.System, logger *slog.Logger, pagination pagination.Config) System {
	return &store{
		storage:    st,
		cache:      gocache.New(30*time.Minute, time.Hour),
		logger:     logger.With("system", "artifacts"),
		pagination: pagination,
	}
}

func (s *store) Handler(maxUploadSize int64) *Handler {
	return NewHandler(s, s.logger, s.pagination, maxUploadSize)
}

func (s *store) Save(ctx context.Context, sessionID string, category Category, mime string, data []byte) (string, error) {
	if sessionID == "" {
		return "", ErrEmptySessionID
	}
	if _, err := ParseCategory(string(category)); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrEmptyArtifact
	}

	key := NewKey(sessionID, category, ExtensionForMIME(mime))
	if err := s.storage.Upload(ctx, key, bytes.NewReader(data), ContentType(key)); err != nil {
		return "", fmt.Errorf("save artifact: %w", err)
	}

	s.cache.Set(key, data, gocache.DefaultExpiration)
	s.logger.Info("artifact saved",
		"session_id", sessionID,
		"category", category,
		"key", key,
		"bytes", len(data),
	)
	return key, nil
}

func (s *store) Load(ctx context.Context, key string) ([]byte, error) {
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]byte), nil
	}

	reader, err := s.storage.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", key, err)
	}

	s.cache.Set(key, data, gocache.DefaultExpiration)
	return data, nil
}

func (s *store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.storage.Download(ctx, key)
}

func (s *store) List(ctx context.Context, sessionID string, category Category) ([]string, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}
	if category != "" {
		if _, err := ParseCategory(string(category)); err != nil {
			return nil, err
		}
	}

	return s.storage.List(ctx, Prefix(sessionID, category))
}

func (s *store) Delete(ctx context.Context, key string) error {
	s.cache.Delete(key)
	return s.storage.Delete(ctx, key)
}
