package generation

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// imageClient wraps the Gemini image generation API. Reference images
// are passed inline alongside the prompt so the model can keep the
// character visually consistent across pages.
type imageClient struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

func newImageClient(ctx context.Context, cfg *Config) (*imageClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GoogleKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &imageClient{
		client:      client,
		model:       cfg.ImageModel,
		temperature: cfg.ImageTemperature,
		maxTokens:   int32(cfg.ImageMaxTokens),
	}, nil
}

func (c *imageClient) generate(ctx context.Context, req ImageRequest) (*Image, error) {
	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	for _, ref := range req.References {
		parts = append(parts, genai.NewPartFromBytes(ref.Data, ref.MIMEType))
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		Temperature:        genai.Ptr(c.temperature),
		MaxOutputTokens:    c.maxTokens,
		ResponseModalities: []string{"TEXT", "IMAGE"},
	})
	if err != nil {
		return nil, fmt.Errorf("generate image: %w", err)
	}

	return extractImage(resp)
}

// extractImage pulls the first inline image out of a Gemini response.
// Text parts are ignored.
func extractImage(resp *genai.GenerateContentResponse) (*Image, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, ErrEmptyResponse
	}

	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mime := part.InlineData.MIMEType
				if mime == "" {
					mime = "image/png"
				}
				return &Image{MIMEType: mime, Data: part.InlineData.Data}, nil
			}
		}
	}

	return nil, ErrNoImage
}
