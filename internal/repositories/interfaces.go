package repositories

import (
	"context"
	"time"

	domain "github.com/sakisou/api/internal/domain"
)

// Registry exposes typed repository accessors and lifecycle hooks for dependency injection.
type Registry interface {
	Close(ctx context.Context) error

	Emotions() EmotionRepository
	Bouquets() BouquetRepository
	Users() UserStatsRepository
	Health() HealthRepository
}

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// EmotionRepository persists emotion analysis records. Records are
// immutable once written.
type EmotionRepository interface {
	Insert(ctx context.Context, analysis domain.EmotionAnalysis) error
	FindByID(ctx context.Context, analysisID string) (domain.EmotionAnalysis, error)
	ListByOwner(ctx context.Context, ownerRef string, pager domain.Pagination) (domain.CursorPage[domain.EmotionAnalysis], error)
	// CollectStats aggregates analyses created on or after since into
	// distribution counters.
	CollectStats(ctx context.Context, since time.Time) (domain.EmotionStats, error)
}

// UserStatsRepository tracks per-user activity counters on the user
// profile document.
type UserStatsRepository interface {
	IncrementAnalyses(ctx context.Context, userRef string) error
	IncrementBouquets(ctx context.Context, userRef string) error
}

// BouquetListFilter narrows owner-scoped bouquet listings.
type BouquetListFilter struct {
	Pagination domain.Pagination
	PublicOnly bool
}

// PublicBouquetFilter selects and orders the public gallery listing.
type PublicBouquetFilter struct {
	Pagination domain.Pagination
	Style      *domain.BouquetStyle
	OrderBy    domain.BouquetSort
}

// BouquetRepository persists bouquet records and their engagement counters.
type BouquetRepository interface {
	Insert(ctx context.Context, bouquet domain.Bouquet) error
	FindByID(ctx context.Context, bouquetID string) (domain.Bouquet, error)
	ListByOwner(ctx context.Context, ownerRef string, filter BouquetListFilter) (domain.CursorPage[domain.Bouquet], error)
	ListPublic(ctx context.Context, filter PublicBouquetFilter) (domain.CursorPage[domain.Bouquet], error)
	ListRecentPublic(ctx context.Context, since time.Time, limit int) ([]domain.Bouquet, error)
	// ApplyReaction adjusts the engagement counters with an atomic
	// relative delta and returns the updated record.
	ApplyReaction(ctx context.Context, bouquetID string, action domain.ReactionAction) (domain.Bouquet, error)
	// CollectStats aggregates gallery-wide counters. recentSince bounds
	// the "recent" count.
	CollectStats(ctx context.Context, recentSince time.Time) (domain.GalleryStats, error)
}

// HealthRepository aggregates dependency probes for readiness checks.
type HealthRepository interface {
	Collect(ctx context.Context) (domain.SystemHealthReport, error)
}
