package firestore

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	domain "github.com/sakisou/api/internal/domain"
	pfirestore "github.com/sakisou/api/internal/platform/firestore"
	"github.com/sakisou/api/internal/repositories"
)

const emotionsCollection = "emotions"

// EmotionRepository persists emotion analysis records in Firestore.
type EmotionRepository struct {
	provider *pfirestore.Provider
	base     *pfirestore.Collection[domain.EmotionAnalysis]
}

// NewEmotionRepository constructs a Firestore-backed emotion repository.
func NewEmotionRepository(provider *pfirestore.Provider) (*EmotionRepository, error) {
	if provider == nil {
		return nil, errors.New("emotion repository requires firestore provider")
	}
	base := pfirestore.NewCollection[domain.EmotionAnalysis](provider, emotionsCollection)
	return &EmotionRepository{
		provider: provider,
		base:     base,
	}, nil
}

// Insert writes a new analysis record. Records are never overwritten.
func (r *EmotionRepository) Insert(ctx context.Context, analysis domain.EmotionAnalysis) error {
	if r == nil || r.provider == nil {
		return errors.New("emotion repository not initialised")
	}
	if strings.TrimSpace(analysis.ID) == "" {
		return errors.New("emotion repository: analysis id is required")
	}

	ref, err := r.base.Doc(ctx, analysis.ID)
	if err != nil {
		return err
	}
	if _, err := ref.Create(ctx, analysis); err != nil {
		return pfirestore.WrapError("emotions.insert", err)
	}
	return nil
}

// FindByID retrieves a single analysis record.
func (r *EmotionRepository) FindByID(ctx context.Context, analysisID string) (domain.EmotionAnalysis, error) {
	if r == nil || r.provider == nil {
		return domain.EmotionAnalysis{}, errors.New("emotion repository not initialised")
	}
	doc, err := r.base.Get(ctx, strings.TrimSpace(analysisID))
	if err != nil {
		return domain.EmotionAnalysis{}, err
	}
	analysis := doc.Data
	if analysis.ID == "" {
		analysis.ID = doc.ID
	}
	return analysis, nil
}

// ListByOwner returns the owner's analyses ordered by most recent first.
func (r *EmotionRepository) ListByOwner(ctx context.Context, ownerRef string, pager domain.Pagination) (domain.CursorPage[domain.EmotionAnalysis], error) {
	if r == nil || r.provider == nil {
		return domain.CursorPage[domain.EmotionAnalysis]{}, errors.New("emotion repository not initialised")
	}
	owner := strings.TrimSpace(ownerRef)
	if owner == "" {
		return domain.CursorPage[domain.EmotionAnalysis]{}, errors.New("emotion repository: owner ref is required")
	}

	limit := pager.PageSize
	if limit < 0 {
		limit = 0
	}
	fetchLimit := 0
	if limit > 0 {
		fetchLimit = limit + 1
	}

	var tokenTime time.Time
	var tokenID string
	if token := strings.TrimSpace(pager.PageToken); token != "" {
		var err error
		tokenTime, tokenID, err = decodeTimeToken(token)
		if err != nil {
			return domain.CursorPage[domain.EmotionAnalysis]{}, fmt.Errorf("emotions.list: invalid page token: %w", err)
		}
	}

	docs, err := r.base.Query(ctx, func(query firestore.Query) firestore.Query {
		query = query.Where("ownerRef", "==", owner).
			OrderBy("createdAt", firestore.Desc).
			OrderBy(firestore.DocumentID, firestore.Desc)
		if tokenID != "" {
			query = query.StartAfter(tokenTime, tokenID)
		}
		if fetchLimit > 0 {
			query = query.Limit(fetchLimit)
		}
		return query
	})
	if err != nil {
		return domain.CursorPage[domain.EmotionAnalysis]{}, err
	}

	nextToken := ""
	if fetchLimit > 0 && len(docs) == fetchLimit {
		last := docs[len(docs)-1]
		nextToken = encodeTimeToken(last.Data.CreatedAt, last.ID)
		docs = docs[:len(docs)-1]
	}

	items := make([]domain.EmotionAnalysis, 0, len(docs))
	for _, doc := range docs {
		analysis := doc.Data
		if analysis.ID == "" {
			analysis.ID = doc.ID
		}
		items = append(items, analysis)
	}

	return domain.CursorPage[domain.EmotionAnalysis]{
		Items:         items,
		NextPageToken: nextToken,
	}, nil
}

// CollectStats folds the analyses created on or after since into
// emotion and language distributions plus the mean confidence.
func (r *EmotionRepository) CollectStats(ctx context.Context, since time.Time) (domain.EmotionStats, error) {
	if r == nil || r.provider == nil {
		return domain.EmotionStats{}, errors.New("emotion repository not initialised")
	}

	docs, err := r.base.Query(ctx, func(query firestore.Query) firestore.Query {
		return query.Where("createdAt", ">=", since.UTC())
	})
	if err != nil {
		return domain.EmotionStats{}, err
	}

	stats := domain.EmotionStats{
		EmotionDistribution:  make(map[string]int64),
		LanguageDistribution: make(map[domain.Language]int64),
	}
	var totalConfidence float64
	for _, doc := range docs {
		analysis := doc.Data
		stats.TotalAnalyses++
		totalConfidence += analysis.Confidence
		language := analysis.Language
		if language == "" {
			language = domain.LanguageJapanese
		}
		stats.LanguageDistribution[language]++
		for _, emotion := range analysis.DetectedEmotions {
			stats.EmotionDistribution[emotion]++
		}
	}
	if stats.TotalAnalyses > 0 {
		stats.AverageConfidence = totalConfidence / float64(stats.TotalAnalyses)
	}
	return stats, nil
}

func encodeTimeToken(ts time.Time, docID string) string {
	payload := fmt.Sprintf("%s|%s", ts.UTC().Format(time.RFC3339Nano), docID)
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}

func decodeTimeToken(token string) (time.Time, string, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, "", err
	}
	parts := strings.SplitN(string(data), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return time.Time{}, "", errors.New("invalid token format")
	}
	ts, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return time.Time{}, "", err
	}
	return ts, parts[1], nil
}

// Ensure interface compliance.
var _ repositories.EmotionRepository = (*EmotionRepository)(nil)
