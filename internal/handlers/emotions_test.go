package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	domain "github.com/sakisou/api/internal/domain"
	"github.com/sakisou/api/internal/services"
)

type stubEmotionService struct {
	analyzeFn func(context.Context, services.AnalyzeEmotionCommand) (services.EmotionAnalysis, error)
	getFn     func(context.Context, string) (services.EmotionAnalysis, error)
	listFn    func(context.Context, string, services.Pagination) (domain.CursorPage[services.EmotionAnalysis], error)
	statsFn   func(context.Context) (services.EmotionStats, error)
}

func (s *stubEmotionService) AnalyzeEmotion(ctx context.Context, cmd services.AnalyzeEmotionCommand) (services.EmotionAnalysis, error) {
	if s.analyzeFn != nil {
		return s.analyzeFn(ctx, cmd)
	}
	return services.EmotionAnalysis{}, nil
}

func (s *stubEmotionService) GetAnalysis(ctx context.Context, analysisID string) (services.EmotionAnalysis, error) {
	if s.getFn != nil {
		return s.getFn(ctx, analysisID)
	}
	return services.EmotionAnalysis{}, nil
}

func (s *stubEmotionService) ListByOwner(ctx context.Context, ownerRef string, pager services.Pagination) (domain.CursorPage[services.EmotionAnalysis], error) {
	if s.listFn != nil {
		return s.listFn(ctx, ownerRef, pager)
	}
	return domain.CursorPage[services.EmotionAnalysis]{}, nil
}

func (s *stubEmotionService) Stats(ctx context.Context) (services.EmotionStats, error) {
	if s.statsFn != nil {
		return s.statsFn(ctx)
	}
	return services.EmotionStats{}, nil
}

func sampleAnalysis() services.EmotionAnalysis {
	return services.EmotionAnalysis{
		ID:               "em-1",
		OwnerRef:         "user-1",
		InputText:        "ありがとう",
		DetectedEmotions: []string{"gratitude"},
		Confidence:       0.92,
		RecommendedFlowers: []domain.ResolvedFlower{
			{Flower: domain.Flower{Name: "かすみ草", NameEn: "Baby's Breath"}, Reason: "感謝を伝えます"},
		},
		Explanation: "感謝の気持ちが伝わります。",
		Language:    domain.LanguageJapanese,
		CreatedAt:   time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestAnalyzeEmotionEndpoint(t *testing.T) {
	svc := &stubEmotionService{analyzeFn: func(_ context.Context, cmd services.AnalyzeEmotionCommand) (services.EmotionAnalysis, error) {
		if cmd.Text != "ありがとう" || cmd.OwnerRef != "user-1" {
			t.Fatalf("unexpected command %+v", cmd)
		}
		return sampleAnalysis(), nil
	}}
	handlers := NewEmotionHandlers(svc)

	body := strings.NewReader(`{"text":"ありがとう","language":"ja","userId":"user-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/analyze-emotion", body)
	rr := httptest.NewRecorder()

	handlers.analyzeEmotion(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var payload struct {
		EmotionID  string   `json:"emotionId"`
		Emotions   []string `json:"emotions"`
		Confidence float64  `json:"confidence"`
		Flowers    []struct {
			Name   string `json:"name"`
			Reason string `json:"reason"`
		} `json:"flowers"`
		Language  string `json:"language"`
		CreatedAt string `json:"createdAt"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if payload.EmotionID != "em-1" {
		t.Fatalf("unexpected emotion id %q", payload.EmotionID)
	}
	if len(payload.Flowers) != 1 || payload.Flowers[0].Name != "かすみ草" || payload.Flowers[0].Reason != "感謝を伝えます" {
		t.Fatalf("unexpected flowers %+v", payload.Flowers)
	}
	if payload.CreatedAt != "2025-07-01T09:00:00Z" {
		t.Fatalf("unexpected createdAt %q", payload.CreatedAt)
	}
}

func TestAnalyzeEmotionEndpointRejectsBadJSON(t *testing.T) {
	handlers := NewEmotionHandlers(&stubEmotionService{})

	req := httptest.NewRequest(http.MethodPost, "/analyze-emotion", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()

	handlers.analyzeEmotion(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestAnalyzeEmotionEndpointMapsValidationError(t *testing.T) {
	svc := &stubEmotionService{analyzeFn: func(context.Context, services.AnalyzeEmotionCommand) (services.EmotionAnalysis, error) {
		return services.EmotionAnalysis{}, fmt.Errorf("%w: text is required", services.ErrEmotionInvalidInput)
	}}
	handlers := NewEmotionHandlers(svc)

	req := httptest.NewRequest(http.MethodPost, "/analyze-emotion", strings.NewReader(`{"text":""}`))
	rr := httptest.NewRecorder()

	handlers.analyzeEmotion(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body.Error != "invalid_request" {
		t.Fatalf("unexpected error code %q", body.Error)
	}
}

func TestGetAnalysisEndpointMapsNotFound(t *testing.T) {
	svc := &stubEmotionService{getFn: func(context.Context, string) (services.EmotionAnalysis, error) {
		return services.EmotionAnalysis{}, fmt.Errorf("%w: missing", services.ErrEmotionNotFound)
	}}

	router := NewRouter(WithEmotionRoutes(NewEmotionHandlers(svc).Routes))

	req := httptest.NewRequest(http.MethodGet, "/api/emotions/missing", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

func TestEmotionStatsEndpoint(t *testing.T) {
	svc := &stubEmotionService{statsFn: func(context.Context) (services.EmotionStats, error) {
		return services.EmotionStats{
			TotalAnalyses:        7,
			AverageConfidence:    0.81,
			EmotionDistribution:  map[string]int64{"joy": 4, "gratitude": 3},
			LanguageDistribution: map[domain.Language]int64{domain.LanguageJapanese: 6, domain.LanguageEnglish: 1},
			GeneratedAt:          time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC),
		}, nil
	}}

	router := NewRouter(WithEmotionRoutes(NewEmotionHandlers(svc).Routes))

	req := httptest.NewRequest(http.MethodGet, "/api/emotions/stats", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var payload struct {
		TotalAnalyses        int64            `json:"totalAnalyses"`
		AverageConfidence    float64          `json:"averageConfidence"`
		EmotionDistribution  map[string]int64 `json:"emotionDistribution"`
		LanguageDistribution map[string]int64 `json:"languageDistribution"`
		Period               string           `json:"period"`
		Timestamp            string           `json:"timestamp"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if payload.TotalAnalyses != 7 || payload.EmotionDistribution["joy"] != 4 {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if payload.LanguageDistribution["ja"] != 6 {
		t.Fatalf("unexpected language distribution %+v", payload.LanguageDistribution)
	}
	if payload.Period != "30days" {
		t.Fatalf("unexpected period %q", payload.Period)
	}
	if payload.Timestamp != "2025-07-01T09:00:00Z" {
		t.Fatalf("unexpected timestamp %q", payload.Timestamp)
	}
}
