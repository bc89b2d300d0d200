package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// GeneratedImage carries the raw bytes of one generated image.
type GeneratedImage struct {
	Data     []byte
	MIMEType string
}

// ImageGenerator renders a bouquet image from a descriptive prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (GeneratedImage, error)
}

// GeminiImageGenerator produces bouquet images through the Gemini image models.
type GeminiImageGenerator struct {
	client      *genai.Client
	model       string
	aspectRatio string
	timeout     time.Duration
}

// NewGeminiImageGenerator constructs an image generator backed by the given model.
func NewGeminiImageGenerator(ctx context.Context, apiKey, model, aspectRatio string, timeout time.Duration) (*GeminiImageGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ai: api key is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("ai: model name is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("ai: create genai client: %w", err)
	}

	return &GeminiImageGenerator{
		client:      client,
		model:       strings.TrimSpace(model),
		aspectRatio: normalizeAspectRatio(aspectRatio),
		timeout:     timeout,
	}, nil
}

// GenerateImage renders the prompt and returns the first inline image part.
func (g *GeminiImageGenerator) GenerateImage(ctx context.Context, prompt string) (GeneratedImage, error) {
	if g == nil || g.client == nil {
		return GeneratedImage{}, errors.New("ai: image generator not configured")
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return GeneratedImage{}, errors.New("ai: prompt is required")
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
		ImageConfig: &genai.ImageConfig{
			AspectRatio: g.aspectRatio,
		},
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return GeneratedImage{}, fmt.Errorf("ai: generate image: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return GeneratedImage{}, errors.New("ai: empty image response")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		mimeType := strings.TrimSpace(part.InlineData.MIMEType)
		if mimeType == "" {
			mimeType = "image/png"
		}
		return GeneratedImage{
			Data:     part.InlineData.Data,
			MIMEType: mimeType,
		}, nil
	}
	return GeneratedImage{}, errors.New("ai: image data missing in response")
}

func normalizeAspectRatio(value string) string {
	value = strings.TrimSpace(value)
	switch value {
	case "1:1", "3:4", "4:3", "9:16", "16:9":
		return value
	default:
		return "1:1"
	}
}

// Ensure interface compliance.
var _ ImageGenerator = (*GeminiImageGenerator)(nil)
