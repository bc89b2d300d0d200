package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	domain "github.com/sakisou/api/internal/domain"
)

// Source tags where a classification came from.
type Source string

const (
	// SourceModel marks results produced by the generative backend.
	SourceModel Source = "model"
	// SourceFallback marks the canned result used when the backend is unavailable.
	SourceFallback Source = "fallback"
)

// FlowerSuggestion is a single flower proposed by the classifier. Only
// the names are trusted; everything else is advisory until the catalog
// resolves it.
type FlowerSuggestion struct {
	Name    string `json:"name"`
	NameEn  string `json:"nameEn"`
	Meaning string `json:"meaning"`
	Reason  string `json:"reason"`
}

// Classification is the validated result of a single analysis call.
type Classification struct {
	Emotions    []string           `json:"emotions"`
	Confidence  float64            `json:"confidence"`
	Flowers     []FlowerSuggestion `json:"flowers"`
	Explanation string             `json:"explanation"`
	Source      Source             `json:"-"`
}

// Classifier turns free text into an emotion classification.
type Classifier interface {
	Classify(ctx context.Context, text string, language domain.Language) (Classification, error)
}

// ErrNoJSON indicates the model response carried no JSON object at all.
var ErrNoJSON = errors.New("ai: no JSON object found in response")

const (
	maxEmotions    = 3
	maxSuggestions = 5
)

var fencedBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// ExtractJSON pulls the JSON payload out of a model response. Fenced
// code blocks win over bare objects; otherwise the first balanced
// top-level object is taken.
func ExtractJSON(text string) (string, error) {
	if match := fencedBlockPattern.FindStringSubmatch(text); match != nil {
		candidate := strings.TrimSpace(match[1])
		if candidate != "" {
			return candidate, nil
		}
	}

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", ErrNoJSON
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", ErrNoJSON
}

// ParseClassification extracts, decodes, and validates a model response.
// Emotions beyond the first three and suggestions beyond the first five
// are dropped.
func ParseClassification(text string) (Classification, error) {
	payload, err := ExtractJSON(text)
	if err != nil {
		return Classification{}, err
	}

	var raw struct {
		Emotions    []string           `json:"emotions"`
		Confidence  *float64           `json:"confidence"`
		Flowers     []FlowerSuggestion `json:"flowers"`
		Explanation string             `json:"explanation"`
	}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return Classification{}, fmt.Errorf("ai: decode classification: %w", err)
	}

	if len(raw.Emotions) == 0 {
		return Classification{}, errors.New("ai: classification missing emotions")
	}
	if len(raw.Flowers) == 0 {
		return Classification{}, errors.New("ai: classification missing flowers")
	}
	if raw.Confidence == nil || *raw.Confidence < 0 || *raw.Confidence > 1 {
		return Classification{}, errors.New("ai: classification confidence out of range")
	}

	emotions := make([]string, 0, maxEmotions)
	for _, emotion := range raw.Emotions {
		emotion = strings.TrimSpace(emotion)
		if emotion == "" {
			continue
		}
		emotions = append(emotions, emotion)
		if len(emotions) == maxEmotions {
			break
		}
	}
	if len(emotions) == 0 {
		return Classification{}, errors.New("ai: classification missing emotions")
	}

	flowers := make([]FlowerSuggestion, 0, maxSuggestions)
	for _, flower := range raw.Flowers {
		flower.Name = strings.TrimSpace(flower.Name)
		flower.NameEn = strings.TrimSpace(flower.NameEn)
		flower.Meaning = strings.TrimSpace(flower.Meaning)
		flower.Reason = strings.TrimSpace(flower.Reason)
		if flower.Name == "" && flower.NameEn == "" {
			continue
		}
		flowers = append(flowers, flower)
		if len(flowers) == maxSuggestions {
			break
		}
	}
	if len(flowers) == 0 {
		return Classification{}, errors.New("ai: classification missing flowers")
	}

	return Classification{
		Emotions:    emotions,
		Confidence:  *raw.Confidence,
		Flowers:     flowers,
		Explanation: strings.TrimSpace(raw.Explanation),
		Source:      SourceModel,
	}, nil
}

// FallbackClassification returns the canned warm-gratitude result served
// when the generative backend is unreachable or returns garbage.
func FallbackClassification() Classification {
	return Classification{
		Emotions:   []string{"gratitude", "appreciation", "warmth"},
		Confidence: 0.85,
		Flowers: []FlowerSuggestion{
			{
				Name:    "かすみ草",
				NameEn:  "Baby's Breath",
				Meaning: "清らかな心、感謝",
				Reason:  "感謝の気持ちを表現するのにぴったりです",
			},
			{
				Name:    "ピンクのバラ",
				NameEn:  "Pink Rose",
				Meaning: "感謝、上品",
				Reason:  "温かい感謝の想いを伝えます",
			},
			{
				Name:    "ガーベラ",
				NameEn:  "Gerbera",
				Meaning: "希望、常に前進",
				Reason:  "前向きな気持ちを表現します",
			},
		},
		Explanation: "あなたのメッセージからは深い感謝と温かい気持ちが感じられます。",
		Source:      SourceFallback,
	}
}
