package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sakisou/api/internal/platform/httpx"
	"github.com/sakisou/api/internal/services"
)

// EmotionHandlers exposes the emotion analysis endpoints.
type EmotionHandlers struct {
	emotions services.EmotionService
}

// NewEmotionHandlers constructs handlers for emotion analysis endpoints.
func NewEmotionHandlers(emotions services.EmotionService) *EmotionHandlers {
	return &EmotionHandlers{emotions: emotions}
}

// Routes registers emotion endpoints against the provided router.
func (h *EmotionHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/analyze-emotion", h.analyzeEmotion)
	r.Get("/emotions/stats", h.stats)
	r.Get("/emotions/{emotionID}", h.getAnalysis)
}

type analyzeEmotionRequest struct {
	Text     string `json:"text"`
	Message  string `json:"message"`
	Language string `json:"language"`
	UserID   string `json:"userId"`
}

// inputText prefers the text field; message is an accepted alias.
func (req analyzeEmotionRequest) inputText() string {
	if strings.TrimSpace(req.Text) != "" {
		return req.Text
	}
	return req.Message
}

func (h *EmotionHandlers) analyzeEmotion(w http.ResponseWriter, r *http.Request) {
	if h.emotions == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "emotion service unavailable", http.StatusServiceUnavailable))
		return
	}

	var req analyzeEmotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	analysis, err := h.emotions.AnalyzeEmotion(r.Context(), services.AnalyzeEmotionCommand{
		Text:     req.inputText(),
		Language: req.Language,
		OwnerRef: req.UserID,
	})
	if err != nil {
		writeEmotionError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, emotionAnalysisToPayload(analysis))
}

func (h *EmotionHandlers) getAnalysis(w http.ResponseWriter, r *http.Request) {
	if h.emotions == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "emotion service unavailable", http.StatusServiceUnavailable))
		return
	}

	emotionID := strings.TrimSpace(chi.URLParam(r, "emotionID"))
	if emotionID == "" {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "emotion id is required", http.StatusBadRequest))
		return
	}

	analysis, err := h.emotions.GetAnalysis(r.Context(), emotionID)
	if err != nil {
		writeEmotionError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, emotionAnalysisToPayload(analysis))
}

type emotionStatsResponse struct {
	TotalAnalyses        int64            `json:"totalAnalyses"`
	AverageConfidence    float64          `json:"averageConfidence"`
	EmotionDistribution  map[string]int64 `json:"emotionDistribution"`
	LanguageDistribution map[string]int64 `json:"languageDistribution"`
	Period               string           `json:"period"`
	Timestamp            string           `json:"timestamp"`
}

func (h *EmotionHandlers) stats(w http.ResponseWriter, r *http.Request) {
	if h.emotions == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "emotion service unavailable", http.StatusServiceUnavailable))
		return
	}

	stats, err := h.emotions.Stats(r.Context())
	if err != nil {
		writeEmotionError(w, r, err)
		return
	}

	emotions := make(map[string]int64, len(stats.EmotionDistribution))
	for emotion, count := range stats.EmotionDistribution {
		emotions[emotion] = count
	}
	languages := make(map[string]int64, len(stats.LanguageDistribution))
	for language, count := range stats.LanguageDistribution {
		languages[string(language)] = count
	}
	httpx.WriteJSON(w, http.StatusOK, emotionStatsResponse{
		TotalAnalyses:        stats.TotalAnalyses,
		AverageConfidence:    stats.AverageConfidence,
		EmotionDistribution:  emotions,
		LanguageDistribution: languages,
		Period:               "30days",
		Timestamp:            formatTimestamp(stats.GeneratedAt),
	})
}

func writeEmotionError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, services.ErrEmotionInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrEmotionNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("emotion_not_found", "emotion analysis not found", http.StatusNotFound))
	case errors.Is(err, services.ErrEmotionUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "emotion storage unavailable", http.StatusServiceUnavailable))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "unexpected failure", http.StatusInternalServerError))
	}
}
