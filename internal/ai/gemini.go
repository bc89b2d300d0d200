package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	domain "github.com/sakisou/api/internal/domain"
)

// GeminiClassifier performs emotion analysis through the Gemini API.
type GeminiClassifier struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiClassifier constructs a classifier backed by the given model.
func NewGeminiClassifier(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiClassifier, error) {
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

	return &GeminiClassifier{
		client:  client,
		model:   strings.TrimSpace(model),
		timeout: timeout,
	}, nil
}

// Classify sends the analysis prompt and validates the model's JSON reply.
func (c *GeminiClassifier) Classify(ctx context.Context, text string, language domain.Language) (Classification, error) {
	if c == nil || c.client == nil {
		return Classification{}, errors.New("ai: classifier not configured")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Classification{}, errors.New("ai: text is required")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.7),
		TopK:            genai.Ptr[float32](40),
		TopP:            genai.Ptr[float32](0.8),
		MaxOutputTokens: 2048,
	}

	prompt := BuildClassificationPrompt(text, language)
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return Classification{}, fmt.Errorf("ai: generate content: %w", err)
	}

	reply := responseText(resp)
	if reply == "" {
		return Classification{}, errors.New("ai: empty model response")
	}

	return ParseClassification(reply)
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}
	var builder strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Text == "" {
			continue
		}
		builder.WriteString(part.Text)
	}
	return builder.String()
}

// BuildClassificationPrompt renders the analysis prompt in the requested
// locale, listing the catalog so the model recommends known flowers.
func BuildClassificationPrompt(text string, language domain.Language) string {
	names := make([]string, 0, len(domain.FlowerCatalog))
	for _, flower := range domain.FlowerCatalog {
		if language == domain.LanguageJapanese {
			names = append(names, flower.Name)
		} else {
			names = append(names, flower.NameEn)
		}
	}
	flowerNames := strings.Join(names, ", ")

	if language == domain.LanguageJapanese {
		return fmt.Sprintf(`あなたは花言葉に詳しい心理カウンセラーです。
以下のテキストから感情を分析し、適切な花言葉を持つ花を3-5種類推薦してください。

【分析対象テキスト】
"%s"

【利用可能な花】
%s

【回答形式（必ずJSONで回答）】
{
  "emotions": ["感情1", "感情2", "感情3"],
  "confidence": 0.85,
  "flowers": [
    {
      "name": "桜",
      "nameEn": "Cherry Blossom",
      "meaning": "精神美、優美な女性",
      "reason": "この感情にふさわしい理由の説明"
    }
  ],
  "explanation": "感情分析の詳細説明"
}

注意：
- emotionsは主要な感情を3つまで
- confidenceは0-1の信頼度
- flowersは3-5種類
- 日本の花言葉文化を重視
- JSON形式で回答すること`, text, flowerNames)
	}

	return fmt.Sprintf(`You are a psychology counselor specializing in flower language.
Analyze the emotions in the following text and recommend 3-5 flowers with appropriate meanings.

【Text to Analyze】
"%s"

【Available Flowers】
%s

【Response Format (Must be JSON)】
{
  "emotions": ["emotion1", "emotion2", "emotion3"],
  "confidence": 0.85,
  "flowers": [
    {
      "name": "桜",
      "nameEn": "Cherry Blossom",
      "meaning": "Spiritual beauty, elegant woman",
      "reason": "Explanation of why this flower fits the emotion"
    }
  ],
  "explanation": "Detailed explanation of emotion analysis"
}

Note:
- emotions: up to 3 main emotions
- confidence: 0-1 confidence score
- flowers: 3-5 varieties
- Focus on Japanese flower language culture
- Respond in JSON format`, text, flowerNames)
}

// Ensure interface compliance.
var _ Classifier = (*GeminiClassifier)(nil)
