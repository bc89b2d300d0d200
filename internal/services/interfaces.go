package services

import (
	"context"

	domain "github.com/sakisou/api/internal/domain"
)

// Type aliases expose domain models to the services package without reversing dependency direction.
type (
	Pagination         = domain.Pagination
	Flower             = domain.Flower
	ResolvedFlower     = domain.ResolvedFlower
	Season             = domain.Season
	Language           = domain.Language
	BouquetStyle       = domain.BouquetStyle
	BouquetSort        = domain.BouquetSort
	EmotionAnalysis    = domain.EmotionAnalysis
	Bouquet            = domain.Bouquet
	ReactionAction     = domain.ReactionAction
	GalleryStats       = domain.GalleryStats
	EmotionStats       = domain.EmotionStats
	SystemHealthReport = domain.SystemHealthReport
)

// CatalogService answers read-only questions about the fixed flower-language catalog.
type CatalogService interface {
	ListFlowers(ctx context.Context) []Flower
	FindByName(ctx context.Context, name string) (Flower, bool)
	FilterBySeason(ctx context.Context, season Season) []Flower
	FlowersForEmotion(ctx context.Context, emotion string) []Flower
	SampleRandom(ctx context.Context, count int) []Flower
}

// EmotionService runs the classify-resolve-compose pipeline and stores its results.
type EmotionService interface {
	AnalyzeEmotion(ctx context.Context, cmd AnalyzeEmotionCommand) (EmotionAnalysis, error)
	GetAnalysis(ctx context.Context, analysisID string) (EmotionAnalysis, error)
	ListByOwner(ctx context.Context, ownerRef string, pager Pagination) (domain.CursorPage[EmotionAnalysis], error)
	Stats(ctx context.Context) (EmotionStats, error)
}

// BouquetService composes bouquet records, generates imagery, and records reactions.
type BouquetService interface {
	GenerateBouquet(ctx context.Context, cmd GenerateBouquetCommand) (Bouquet, error)
	GetBouquet(ctx context.Context, bouquetID string) (Bouquet, error)
	ListByOwner(ctx context.Context, cmd ListOwnerBouquetsCommand) (domain.CursorPage[Bouquet], error)
	React(ctx context.Context, cmd ReactionCommand) (Bouquet, error)
}

// GalleryService exposes the public bouquet surfaces with owner anonymization.
type GalleryService interface {
	ListPublic(ctx context.Context, cmd PublicGalleryQuery) (domain.CursorPage[Bouquet], error)
	Search(ctx context.Context, cmd GallerySearchQuery) (domain.CursorPage[Bouquet], error)
	Trending(ctx context.Context, cmd TrendingQuery) ([]Bouquet, error)
	Stats(ctx context.Context) (GalleryStats, error)
}

// SystemService aggregates utility endpoints (health checks, build metadata).
type SystemService interface {
	HealthReport(ctx context.Context) (SystemHealthReport, error)
}

// Command and DTO definitions ------------------------------------------------

type AnalyzeEmotionCommand struct {
	Text     string
	Language string
	OwnerRef string
}

// BouquetFlowerInput names one requested flower. Meaning and Reason only
// matter when the catalog does not know the flower.
type BouquetFlowerInput struct {
	Name    string
	NameEn  string
	Meaning string
	Reason  string
}

type GenerateBouquetCommand struct {
	EmotionRef string
	Flowers    []BouquetFlowerInput
	Style      string
	IsPublic   *bool
	OwnerRef   string
}

type ListOwnerBouquetsCommand struct {
	OwnerRef   string
	PublicOnly bool
	Pagination Pagination
}

type ReactionCommand struct {
	BouquetID string
	Action    string
}

type PublicGalleryQuery struct {
	Style      string
	OrderBy    string
	Pagination Pagination
}

type GallerySearchQuery struct {
	FlowerName string
	Style      string
	Pagination Pagination
}

type TrendingQuery struct {
	WindowDays int
	Limit      int
}
