package services

import (
	"context"
	"math/rand/v2"
	"strings"

	domain "github.com/sakisou/api/internal/domain"
)

// CatalogServiceDeps bundles constructor inputs for the catalog service.
// Zero values fall back to the built-in flower-language catalog.
type CatalogServiceDeps struct {
	Flowers  []domain.Flower
	Emotions map[string][]string
}

type catalogService struct {
	flowers  []domain.Flower
	byName   map[string]domain.Flower
	emotions map[string][]string
}

// NewCatalogService constructs the catalog service with the supplied dependencies.
func NewCatalogService(deps CatalogServiceDeps) (CatalogService, error) {
	flowers := deps.Flowers
	if len(flowers) == 0 {
		flowers = domain.FlowerCatalog
	}
	emotions := deps.Emotions
	if emotions == nil {
		emotions = domain.EmotionFlowerNames
	}

	byName := make(map[string]domain.Flower, len(flowers)*2)
	for _, flower := range flowers {
		byName[normalizeFlowerName(flower.Name)] = flower
		byName[normalizeFlowerName(flower.NameEn)] = flower
	}

	return &catalogService{
		flowers:  flowers,
		byName:   byName,
		emotions: emotions,
	}, nil
}

func (s *catalogService) ListFlowers(_ context.Context) []Flower {
	out := make([]Flower, len(s.flowers))
	copy(out, s.flowers)
	return out
}

// FindByName matches against both the Japanese and English names, case-insensitively.
func (s *catalogService) FindByName(_ context.Context, name string) (Flower, bool) {
	flower, ok := s.byName[normalizeFlowerName(name)]
	return flower, ok
}

// FilterBySeason returns the flowers blooming in the given season. Asking
// for "all" returns the whole catalog; year-round flowers match every season.
func (s *catalogService) FilterBySeason(ctx context.Context, season Season) []Flower {
	if season == domain.SeasonAll {
		return s.ListFlowers(ctx)
	}
	out := make([]Flower, 0, len(s.flowers))
	for _, flower := range s.flowers {
		if flower.Season == season || flower.Season == domain.SeasonAll {
			out = append(out, flower)
		}
	}
	return out
}

func (s *catalogService) FlowersForEmotion(_ context.Context, emotion string) []Flower {
	names := s.emotions[strings.ToLower(strings.TrimSpace(emotion))]
	out := make([]Flower, 0, len(names))
	for _, name := range names {
		if flower, ok := s.byName[normalizeFlowerName(name)]; ok {
			out = append(out, flower)
		}
	}
	return out
}

func (s *catalogService) SampleRandom(_ context.Context, count int) []Flower {
	if count <= 0 {
		return nil
	}
	if count > len(s.flowers) {
		count = len(s.flowers)
	}
	picked := make([]Flower, len(s.flowers))
	copy(picked, s.flowers)
	rand.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	return picked[:count]
}

func normalizeFlowerName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
