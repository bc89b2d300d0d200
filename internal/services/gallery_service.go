package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	domain "github.com/sakisou/api/internal/domain"
	"github.com/sakisou/api/internal/repositories"
)

var (
	// ErrGalleryInvalidInput indicates the caller supplied invalid gallery parameters.
	ErrGalleryInvalidInput = errors.New("gallery service: invalid input")
	// ErrGalleryUnavailable indicates the persistence layer rejected the operation.
	ErrGalleryUnavailable = errors.New("gallery service: unavailable")
)

const (
	defaultTrendingWindowDays = 7
	defaultTrendingLimit      = 10
	maxTrendingLimit          = 50

	statsRecentWindow = 24 * time.Hour
	maxPopularStyles  = 5
)

// GalleryServiceDeps bundles constructor inputs for the gallery service.
type GalleryServiceDeps struct {
	Bouquets           repositories.BouquetRepository
	Clock              func() time.Time
	TrendingWindowDays int
}

type galleryService struct {
	repo        repositories.BouquetRepository
	clock       func() time.Time
	trendingDay int
}

// NewGalleryService constructs the public gallery service.
func NewGalleryService(deps GalleryServiceDeps) (GalleryService, error) {
	if deps.Bouquets == nil {
		return nil, fmt.Errorf("gallery service: bouquet repository is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	windowDays := deps.TrendingWindowDays
	if windowDays <= 0 {
		windowDays = defaultTrendingWindowDays
	}
	return &galleryService{
		repo:        deps.Bouquets,
		clock:       func() time.Time { return clock().UTC() },
		trendingDay: windowDays,
	}, nil
}

func (s *galleryService) ListPublic(ctx context.Context, cmd PublicGalleryQuery) (domain.CursorPage[Bouquet], error) {
	style, err := parseStyleFilter(cmd.Style)
	if err != nil {
		return domain.CursorPage[Bouquet]{}, err
	}
	orderBy, ok := domain.ParseBouquetSort(cmd.OrderBy)
	if !ok {
		return domain.CursorPage[Bouquet]{}, fmt.Errorf("%w: unsupported orderBy %q", ErrGalleryInvalidInput, cmd.OrderBy)
	}

	page, err := s.repo.ListPublic(ctx, repositories.PublicBouquetFilter{
		Pagination: cmd.Pagination,
		Style:      style,
		OrderBy:    orderBy,
	})
	if err != nil {
		return domain.CursorPage[Bouquet]{}, fmt.Errorf("%w: list public bouquets: %v", ErrGalleryUnavailable, err)
	}
	anonymize(page.Items)
	return page, nil
}

// Search filters the public gallery by style and flower name. The style
// filter runs in the query; flower-name matching happens here, so a
// wider page is fetched to compensate for filtered-out rows.
func (s *galleryService) Search(ctx context.Context, cmd GallerySearchQuery) (domain.CursorPage[Bouquet], error) {
	style, err := parseStyleFilter(cmd.Style)
	if err != nil {
		return domain.CursorPage[Bouquet]{}, err
	}
	needle := strings.ToLower(strings.TrimSpace(cmd.FlowerName))
	if needle == "" && style == nil {
		return domain.CursorPage[Bouquet]{}, fmt.Errorf("%w: a flower name or style filter is required", ErrGalleryInvalidInput)
	}

	pager := cmd.Pagination
	limit := pager.PageSize
	if limit <= 0 {
		limit = 20
	}
	if needle != "" {
		pager.PageSize = limit * 2
	}

	page, err := s.repo.ListPublic(ctx, repositories.PublicBouquetFilter{
		Pagination: pager,
		Style:      style,
		OrderBy:    domain.BouquetSortCreatedAt,
	})
	if err != nil {
		return domain.CursorPage[Bouquet]{}, fmt.Errorf("%w: search public bouquets: %v", ErrGalleryUnavailable, err)
	}

	items := page.Items
	if needle != "" {
		matched := make([]Bouquet, 0, limit)
		for _, bouquet := range items {
			if bouquetMatchesFlower(bouquet, needle) {
				matched = append(matched, bouquet)
			}
			if len(matched) >= limit {
				break
			}
		}
		items = matched
	}
	anonymize(items)
	return domain.CursorPage[Bouquet]{Items: items, NextPageToken: page.NextPageToken}, nil
}

// Trending returns the most engaged public bouquets from the recent
// window, ranked by likes plus shares.
func (s *galleryService) Trending(ctx context.Context, cmd TrendingQuery) ([]Bouquet, error) {
	windowDays := cmd.WindowDays
	if windowDays <= 0 {
		windowDays = s.trendingDay
	}
	limit := cmd.Limit
	if limit <= 0 {
		limit = defaultTrendingLimit
	}
	if limit > maxTrendingLimit {
		limit = maxTrendingLimit
	}

	since := s.clock().AddDate(0, 0, -windowDays)
	bouquets, err := s.repo.ListRecentPublic(ctx, since, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list trending bouquets: %v", ErrGalleryUnavailable, err)
	}

	sort.SliceStable(bouquets, func(i, j int) bool {
		return bouquets[i].EngagementScore() > bouquets[j].EngagementScore()
	})
	if len(bouquets) > limit {
		bouquets = bouquets[:limit]
	}
	anonymize(bouquets)
	return bouquets, nil
}

func parseStyleFilter(raw string) (*domain.BouquetStyle, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	style, ok := domain.ParseBouquetStyle(raw)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported style %q", ErrGalleryInvalidInput, raw)
	}
	return &style, nil
}

func bouquetMatchesFlower(bouquet Bouquet, needle string) bool {
	for _, flower := range bouquet.Flowers {
		if strings.Contains(strings.ToLower(flower.Name), needle) ||
			strings.Contains(strings.ToLower(flower.NameEn), needle) {
			return true
		}
	}
	return false
}

// Stats reports gallery-wide counters with the most used styles first.
func (s *galleryService) Stats(ctx context.Context) (GalleryStats, error) {
	now := s.clock()
	stats, err := s.repo.CollectStats(ctx, now.Add(-statsRecentWindow))
	if err != nil {
		return GalleryStats{}, fmt.Errorf("%w: collect gallery stats: %v", ErrGalleryUnavailable, err)
	}

	sort.SliceStable(stats.PopularStyles, func(i, j int) bool {
		if stats.PopularStyles[i].Count != stats.PopularStyles[j].Count {
			return stats.PopularStyles[i].Count > stats.PopularStyles[j].Count
		}
		return stats.PopularStyles[i].Style < stats.PopularStyles[j].Style
	})
	if len(stats.PopularStyles) > maxPopularStyles {
		stats.PopularStyles = stats.PopularStyles[:maxPopularStyles]
	}
	stats.GeneratedAt = now
	return stats, nil
}

// anonymize hides record owners before public exposure.
func anonymize(bouquets []Bouquet) {
	for i := range bouquets {
		bouquets[i].OwnerRef = domain.AnonymousOwner
	}
}
