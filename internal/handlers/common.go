package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	domain "github.com/sakisou/api/internal/domain"
)

const (
	defaultListPageSize = 20
	maxListPageSize     = 100
)

// emotionAnalysisPayload is the wire form of an analysis record.
type emotionAnalysisPayload struct {
	EmotionID   string                  `json:"emotionId"`
	UserID      string                  `json:"userId"`
	InputText   string                  `json:"inputText,omitempty"`
	Emotions    []string                `json:"emotions"`
	Confidence  float64                 `json:"confidence"`
	Flowers     []domain.ResolvedFlower `json:"flowers"`
	Explanation string                  `json:"explanation"`
	Language    string                  `json:"language"`
	CreatedAt   string                  `json:"createdAt"`
}

func emotionAnalysisToPayload(analysis domain.EmotionAnalysis) emotionAnalysisPayload {
	return emotionAnalysisPayload{
		EmotionID:   analysis.ID,
		UserID:      analysis.OwnerRef,
		InputText:   analysis.InputText,
		Emotions:    analysis.DetectedEmotions,
		Confidence:  analysis.Confidence,
		Flowers:     analysis.RecommendedFlowers,
		Explanation: analysis.Explanation,
		Language:    string(analysis.Language),
		CreatedAt:   formatTimestamp(analysis.CreatedAt),
	}
}

// bouquetPayload is the wire form of a bouquet record.
type bouquetPayload struct {
	BouquetID string                  `json:"bouquetId"`
	EmotionID string                  `json:"emotionId"`
	UserID    string                  `json:"userId"`
	Flowers   []domain.ResolvedFlower `json:"flowers"`
	ImageURL  string                  `json:"imageUrl"`
	Prompt    string                  `json:"prompt"`
	Style     string                  `json:"style"`
	IsPublic  bool                    `json:"isPublic"`
	Likes     int64                   `json:"likes"`
	Shares    int64                   `json:"shares"`
	CreatedAt string                  `json:"createdAt"`
	UpdatedAt string                  `json:"updatedAt"`
}

func bouquetToPayload(bouquet domain.Bouquet) bouquetPayload {
	return bouquetPayload{
		BouquetID: bouquet.ID,
		EmotionID: bouquet.EmotionRef,
		UserID:    bouquet.OwnerRef,
		Flowers:   bouquet.Flowers,
		ImageURL:  bouquet.ImageRef,
		Prompt:    bouquet.Prompt,
		Style:     string(bouquet.Style),
		IsPublic:  bouquet.IsPublic,
		Likes:     bouquet.Likes,
		Shares:    bouquet.Shares,
		CreatedAt: formatTimestamp(bouquet.CreatedAt),
		UpdatedAt: formatTimestamp(bouquet.UpdatedAt),
	}
}

func bouquetsToPayloads(bouquets []domain.Bouquet) []bouquetPayload {
	payloads := make([]bouquetPayload, 0, len(bouquets))
	for _, bouquet := range bouquets {
		payloads = append(payloads, bouquetToPayload(bouquet))
	}
	return payloads
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}

// parsePagination reads limit/pageToken query parameters with bounds applied.
func parsePagination(r *http.Request) (domain.Pagination, error) {
	pager := domain.Pagination{
		PageSize:  defaultListPageSize,
		PageToken: strings.TrimSpace(r.URL.Query().Get("pageToken")),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return domain.Pagination{}, errInvalidLimit
		}
		if size > maxListPageSize {
			size = maxListPageSize
		}
		pager.PageSize = size
	}
	return pager, nil
}

var errInvalidLimit = errors.New("limit must be a positive integer")
