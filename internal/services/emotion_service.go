package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/sakisou/api/internal/ai"
	domain "github.com/sakisou/api/internal/domain"
	"github.com/sakisou/api/internal/repositories"
)

var (
	// ErrEmotionInvalidInput indicates the caller supplied invalid analysis parameters.
	ErrEmotionInvalidInput = errors.New("emotion service: invalid input")
	// ErrEmotionNotFound indicates the requested analysis record does not exist.
	ErrEmotionNotFound = errors.New("emotion service: not found")
	// ErrEmotionUnavailable indicates the persistence layer rejected the operation.
	ErrEmotionUnavailable = errors.New("emotion service: unavailable")
)

// emotionStatsWindow bounds the analyses folded into the stats report.
const emotionStatsWindow = 30 * 24 * time.Hour

// EmotionServiceDeps bundles constructor inputs for the emotion service.
type EmotionServiceDeps struct {
	Emotions   repositories.EmotionRepository
	Users      repositories.UserStatsRepository
	Catalog    CatalogService
	Classifier ai.Classifier
	Clock      func() time.Time
	IDFactory  func() string
	Logger     func(context.Context, string, map[string]any)
}

type emotionService struct {
	repo       repositories.EmotionRepository
	users      repositories.UserStatsRepository
	catalog    CatalogService
	classifier ai.Classifier
	clock      func() time.Time
	newID      func() string
	logger     func(context.Context, string, map[string]any)
}

// NewEmotionService constructs the emotion analysis service. A nil
// classifier is accepted and routes every request through the fallback
// classification; a nil user stats repository disables per-user
// counters.
func NewEmotionService(deps EmotionServiceDeps) (EmotionService, error) {
	if deps.Emotions == nil {
		return nil, fmt.Errorf("emotion service: emotion repository is required")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("emotion service: catalog service is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	newID := deps.IDFactory
	if newID == nil {
		newID = func() string { return ulid.Make().String() }
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &emotionService{
		repo:       deps.Emotions,
		users:      deps.Users,
		catalog:    deps.Catalog,
		classifier: deps.Classifier,
		clock:      func() time.Time { return clock().UTC() },
		newID:      newID,
		logger:     logger,
	}, nil
}

func (s *emotionService) AnalyzeEmotion(ctx context.Context, cmd AnalyzeEmotionCommand) (EmotionAnalysis, error) {
	text := strings.TrimSpace(cmd.Text)
	if text == "" {
		return EmotionAnalysis{}, fmt.Errorf("%w: text is required", ErrEmotionInvalidInput)
	}
	if len([]rune(text)) > domain.MaxInputTextLength {
		return EmotionAnalysis{}, fmt.Errorf("%w: text exceeds %d characters", ErrEmotionInvalidInput, domain.MaxInputTextLength)
	}
	language, ok := domain.ParseLanguage(cmd.Language)
	if !ok {
		return EmotionAnalysis{}, fmt.Errorf("%w: unsupported language %q", ErrEmotionInvalidInput, cmd.Language)
	}
	owner := strings.TrimSpace(cmd.OwnerRef)
	if owner == "" {
		owner = domain.AnonymousOwner
	}

	classification := s.classify(ctx, text, language)

	analysis := domain.EmotionAnalysis{
		ID:                 s.newID(),
		OwnerRef:           owner,
		InputText:          text,
		DetectedEmotions:   classification.Emotions,
		Confidence:         classification.Confidence,
		RecommendedFlowers: s.resolveFlowers(ctx, classification, language),
		Explanation:        classification.Explanation,
		Language:           language,
		CreatedAt:          s.clock(),
	}

	// Anonymous analyses are returned but never persisted.
	if owner != domain.AnonymousOwner {
		if err := s.repo.Insert(ctx, analysis); err != nil {
			return EmotionAnalysis{}, fmt.Errorf("%w: store analysis: %v", ErrEmotionUnavailable, err)
		}
		s.countUserAnalysis(ctx, owner)
	}
	return analysis, nil
}

// countUserAnalysis bumps the owner's analysis counter. Counter
// failures are logged and swallowed; the analysis itself already
// succeeded.
func (s *emotionService) countUserAnalysis(ctx context.Context, owner string) {
	if s.users == nil {
		return
	}
	if err := s.users.IncrementAnalyses(ctx, owner); err != nil {
		s.logger(ctx, "emotion.user_counter_failed", map[string]any{
			"owner": owner,
			"error": err.Error(),
		})
	}
}

// Stats reports the emotion and language distributions of the analyses
// created inside the stats window, along with the mean confidence.
func (s *emotionService) Stats(ctx context.Context) (EmotionStats, error) {
	now := s.clock()
	stats, err := s.repo.CollectStats(ctx, now.Add(-emotionStatsWindow))
	if err != nil {
		return EmotionStats{}, fmt.Errorf("%w: collect emotion stats: %v", ErrEmotionUnavailable, err)
	}
	stats.GeneratedAt = now
	return stats, nil
}

// classify calls the configured classifier, falling back to the canned
// classification whenever the model is unreachable or returns an
// unusable payload. Analysis requests never fail on classifier errors.
func (s *emotionService) classify(ctx context.Context, text string, language Language) ai.Classification {
	if s.classifier == nil {
		return ai.FallbackClassification()
	}
	classification, err := s.classifier.Classify(ctx, text, language)
	if err != nil {
		s.logger(ctx, "emotion.classifier_fallback", map[string]any{
			"error": err.Error(),
		})
		return ai.FallbackClassification()
	}
	return classification
}

// resolveFlowers maps classifier suggestions onto catalog entries,
// synthesising an entry when a suggested name is unknown, then pads the
// set from the emotion-to-flower mapping until the recommended count is
// reached. Duplicates are dropped on first-come-first-kept order and the
// set never exceeds the bouquet ceiling.
func (s *emotionService) resolveFlowers(ctx context.Context, classification ai.Classification, language Language) []ResolvedFlower {
	resolved := make([]ResolvedFlower, 0, domain.TargetRecommendedFlowers)
	seen := make(map[string]struct{})

	for _, suggestion := range classification.Flowers {
		if len(resolved) >= domain.MaxBouquetFlowers {
			break
		}
		flower, ok := s.lookupSuggestion(ctx, suggestion)
		if !ok {
			flower = synthesizeFlower(suggestion)
		}
		if _, dup := seen[flower.Key()]; dup {
			continue
		}
		seen[flower.Key()] = struct{}{}
		reason := suggestion.Reason
		if reason == "" {
			reason = fallbackReason(flower, classification.Explanation, language)
		}
		resolved = append(resolved, ResolvedFlower{Flower: flower, Reason: reason})
	}

	for _, emotion := range classification.Emotions {
		if len(resolved) >= domain.TargetRecommendedFlowers {
			break
		}
		for _, flower := range s.catalog.FlowersForEmotion(ctx, emotion) {
			if len(resolved) >= domain.TargetRecommendedFlowers {
				break
			}
			if _, dup := seen[flower.Key()]; dup {
				continue
			}
			seen[flower.Key()] = struct{}{}
			resolved = append(resolved, ResolvedFlower{Flower: flower, Reason: meaningFor(flower, language)})
		}
	}

	// Unknown emotion tags can leave the set short; arbitrary catalog
	// entries fill the remainder.
	if len(resolved) < domain.TargetRecommendedFlowers {
		for _, flower := range s.catalog.SampleRandom(ctx, domain.TargetRecommendedFlowers*2) {
			if len(resolved) >= domain.TargetRecommendedFlowers {
				break
			}
			if _, dup := seen[flower.Key()]; dup {
				continue
			}
			seen[flower.Key()] = struct{}{}
			resolved = append(resolved, ResolvedFlower{Flower: flower, Reason: meaningFor(flower, language)})
		}
	}
	return resolved
}

func (s *emotionService) lookupSuggestion(ctx context.Context, suggestion ai.FlowerSuggestion) (Flower, bool) {
	if flower, ok := s.catalog.FindByName(ctx, suggestion.Name); ok {
		return flower, true
	}
	if flower, ok := s.catalog.FindByName(ctx, suggestion.NameEn); ok {
		return flower, true
	}
	return Flower{}, false
}

// synthesizeFlower builds a provisional catalog entry for a suggestion
// the catalog does not know. The synthetic entry lives only inside the
// analysis record.
func synthesizeFlower(suggestion ai.FlowerSuggestion) Flower {
	name := strings.TrimSpace(suggestion.Name)
	nameEn := strings.TrimSpace(suggestion.NameEn)
	if name == "" {
		name = nameEn
	}
	if nameEn == "" {
		nameEn = name
	}
	return Flower{
		Name:      name,
		NameEn:    nameEn,
		Meaning:   suggestion.Meaning,
		MeaningEn: suggestion.Meaning,
		Colors:    []string{"pink"},
		Season:    domain.SeasonAll,
		Rarity:    domain.RarityCommon,
	}
}

func meaningFor(flower Flower, language Language) string {
	if language == domain.LanguageEnglish && flower.MeaningEn != "" {
		return flower.MeaningEn
	}
	return flower.Meaning
}

// fallbackReason ties a flower without a classifier-supplied reason to the
// overall explanation, so the reason is never empty.
func fallbackReason(flower Flower, explanation string, language Language) string {
	if language == domain.LanguageEnglish {
		name := flower.NameEn
		if name == "" {
			name = flower.Name
		}
		if explanation != "" {
			return fmt.Sprintf("%s %s expresses this feeling.", explanation, name)
		}
		return fmt.Sprintf("%s expresses this feeling.", name)
	}
	if explanation != "" {
		return fmt.Sprintf("%s %sがその想いを表現します。", explanation, flower.Name)
	}
	return fmt.Sprintf("%sがその想いを表現します。", flower.Name)
}

func (s *emotionService) GetAnalysis(ctx context.Context, analysisID string) (EmotionAnalysis, error) {
	analysisID = strings.TrimSpace(analysisID)
	if analysisID == "" {
		return EmotionAnalysis{}, fmt.Errorf("%w: analysis id is required", ErrEmotionInvalidInput)
	}
	analysis, err := s.repo.FindByID(ctx, analysisID)
	if err != nil {
		if isRepositoryNotFound(err) {
			return EmotionAnalysis{}, fmt.Errorf("%w: %s", ErrEmotionNotFound, analysisID)
		}
		return EmotionAnalysis{}, fmt.Errorf("%w: load analysis: %v", ErrEmotionUnavailable, err)
	}
	return analysis, nil
}

func (s *emotionService) ListByOwner(ctx context.Context, ownerRef string, pager Pagination) (domain.CursorPage[EmotionAnalysis], error) {
	ownerRef = strings.TrimSpace(ownerRef)
	if ownerRef == "" || ownerRef == domain.AnonymousOwner {
		return domain.CursorPage[EmotionAnalysis]{}, fmt.Errorf("%w: owner reference is required", ErrEmotionInvalidInput)
	}
	page, err := s.repo.ListByOwner(ctx, ownerRef, pager)
	if err != nil {
		return domain.CursorPage[EmotionAnalysis]{}, fmt.Errorf("%w: list analyses: %v", ErrEmotionUnavailable, err)
	}
	return page, nil
}

func isRepositoryNotFound(err error) bool {
	if err == nil {
		return false
	}
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		return repoErr.IsNotFound()
	}
	return false
}
