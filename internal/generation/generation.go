// Package generation provides the LLM clients used by the book-creation
// pipeline: a text generator for discovery and narration, and an image
// generator for seed images and page illustrations. Both share a rate
// limiter and retry policy so step handlers stay free of provider
// concerns.
package generation

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

// TextRequest describes a single text generation call. Instructions act
// as the system prompt; Prompt carries the user content.
type TextRequest struct {
	Instructions string
	Prompt       string
}

// Reference is an input image passed to the image model for visual
// consistency.
type Reference struct {
	MIMEType string
	Data     []byte
}

// ImageRequest describes a single image generation call.
type ImageRequest struct {
	Prompt     string
	References []Reference
}

// Image is a generated image with its MIME type.
type Image struct {
	MIMEType string
	Data     []byte
}

// System defines the generation contract consumed by step handlers.
type System interface {
	Text(ctx context.Context, req TextRequest) (string, error)
	Image(ctx context.Context, req ImageRequest) (*Image, error)
}

type system struct {
	text    *textClient
	image   *imageClient
	limiter *rate.Limiter
	retries uint64
	logger  *slog.Logger
}

// New creates a generation system backed by the configured providers.
func New(ctx context.Context, cfg *Config, logger *slog.Logger) (System, error) {
	logger = logger.With("system", "generation")

	image, err := newImageClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &system{
		text:    newTextClient(cfg),
		image:   image,
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1),
		retries: uint64(cfg.MaxRetries),
		logger:  logger,
	}, nil
}

func (s *system) Text(ctx context.Context, req TextRequest) (string, error) {
	if req.Prompt == "" {
		return "", ErrEmptyPrompt
	}

	var result string
	err := s.call(ctx, "text", func() error {
		out, err := s.text.generate(ctx, req)
		if err != nil {
			return err
		}
		result = out
		return nil
	})
	return result, err
}

func (s *system) Image(ctx context.Context, req ImageRequest) (*Image, error) {
	if req.Prompt == "" {
		return nil, ErrEmptyPrompt
	}

	var result *Image
	err := s.call(ctx, "image", func() error {
		out, err := s.image.generate(ctx, req)
		if err != nil {
			return err
		}
		result = out
		return nil
	})
	return result, err
}

// call applies the shared rate limit, then runs op under exponential
// backoff. Context cancellation aborts both the wait and the retries.
func (s *system) call(ctx context.Context, kind string, op func() error) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(newBackoff(), s.retries),
		ctx,
	)

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := op()
		if err != nil {
			s.logger.Warn("generation attempt failed",
				"kind", kind,
				"attempt", attempt,
				"error", err,
			)
		}
		return err
	}, policy)
}

func newBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	b.MaxInterval = 30 * time.Second
	return b
}
