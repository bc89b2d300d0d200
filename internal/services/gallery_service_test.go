package services

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/sakisou/api/internal/domain"
	"github.com/sakisou/api/internal/repositories"
)

func newTestGallery(t *testing.T, repo *stubBouquetRepository) GalleryService {
	t.Helper()
	svc, err := NewGalleryService(GalleryServiceDeps{
		Bouquets: repo,
		Clock: func() time.Time {
			return time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
		},
	})
	if err != nil {
		t.Fatalf("new gallery service: %v", err)
	}
	return svc
}

func publicBouquet(id string, likes, shares int64, flowers ...string) domain.Bouquet {
	resolved := make([]domain.ResolvedFlower, 0, len(flowers))
	for _, name := range flowers {
		resolved = append(resolved, domain.ResolvedFlower{Flower: domain.Flower{Name: name, NameEn: name}})
	}
	return domain.Bouquet{
		ID:       id,
		OwnerRef: "user-" + id,
		Flowers:  resolved,
		IsPublic: true,
		Likes:    likes,
		Shares:   shares,
	}
}

func TestListPublicValidatesOrderBy(t *testing.T) {
	svc := newTestGallery(t, &stubBouquetRepository{})

	if _, err := svc.ListPublic(context.Background(), PublicGalleryQuery{OrderBy: "views"}); !errors.Is(err, ErrGalleryInvalidInput) {
		t.Fatalf("expected ErrGalleryInvalidInput, got %v", err)
	}
	if _, err := svc.ListPublic(context.Background(), PublicGalleryQuery{Style: "brutalist"}); !errors.Is(err, ErrGalleryInvalidInput) {
		t.Fatalf("expected ErrGalleryInvalidInput for unknown style, got %v", err)
	}
}

func TestListPublicAnonymizesOwners(t *testing.T) {
	repo := &stubBouquetRepository{publicFn: func(_ context.Context, filter repositories.PublicBouquetFilter) (domain.CursorPage[domain.Bouquet], error) {
		if filter.OrderBy != domain.BouquetSortLikes {
			t.Fatalf("expected likes ordering, got %q", filter.OrderBy)
		}
		return domain.CursorPage[domain.Bouquet]{
			Items:         []domain.Bouquet{publicBouquet("a", 3, 0), publicBouquet("b", 1, 0)},
			NextPageToken: "next",
		}, nil
	}}
	svc := newTestGallery(t, repo)

	page, err := svc.ListPublic(context.Background(), PublicGalleryQuery{OrderBy: "likes"})
	if err != nil {
		t.Fatalf("list public: %v", err)
	}
	if page.NextPageToken != "next" {
		t.Fatalf("expected page token to pass through")
	}
	for _, bouquet := range page.Items {
		if bouquet.OwnerRef != domain.AnonymousOwner {
			t.Fatalf("expected anonymized owner, got %q", bouquet.OwnerRef)
		}
	}
}

func TestSearchFiltersByFlowerName(t *testing.T) {
	repo := &stubBouquetRepository{publicFn: func(_ context.Context, filter repositories.PublicBouquetFilter) (domain.CursorPage[domain.Bouquet], error) {
		return domain.CursorPage[domain.Bouquet]{Items: []domain.Bouquet{
			publicBouquet("a", 0, 0, "バラ"),
			publicBouquet("b", 0, 0, "ひまわり"),
			publicBouquet("c", 0, 0, "ピンクのバラ"),
		}}, nil
	}}
	svc := newTestGallery(t, repo)

	page, err := svc.Search(context.Background(), GallerySearchQuery{
		FlowerName: "バラ",
		Pagination: Pagination{PageSize: 10},
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected substring matches for バラ, got %d", len(page.Items))
	}
	if page.Items[0].ID != "a" || page.Items[1].ID != "c" {
		t.Fatalf("unexpected match order %q, %q", page.Items[0].ID, page.Items[1].ID)
	}

	// The repository page is widened to compensate for in-memory filtering.
	repo.mu.Lock()
	fetched := repo.publicArgs[len(repo.publicArgs)-1].Pagination.PageSize
	repo.mu.Unlock()
	if fetched != 20 {
		t.Fatalf("expected widened fetch of 20, got %d", fetched)
	}
}

func TestSearchRequiresAFilter(t *testing.T) {
	svc := newTestGallery(t, &stubBouquetRepository{})

	if _, err := svc.Search(context.Background(), GallerySearchQuery{}); !errors.Is(err, ErrGalleryInvalidInput) {
		t.Fatalf("expected ErrGalleryInvalidInput, got %v", err)
	}
}

func TestTrendingRanksByEngagement(t *testing.T) {
	var gotSince time.Time
	repo := &stubBouquetRepository{recentFn: func(_ context.Context, since time.Time, limit int) ([]domain.Bouquet, error) {
		gotSince = since
		if limit != 10 {
			t.Fatalf("expected default limit 10, got %d", limit)
		}
		return []domain.Bouquet{
			publicBouquet("quiet", 1, 0),
			publicBouquet("viral", 30, 12),
			publicBouquet("steady", 8, 3),
		}, nil
	}}
	svc := newTestGallery(t, repo)

	bouquets, err := svc.Trending(context.Background(), TrendingQuery{})
	if err != nil {
		t.Fatalf("trending: %v", err)
	}

	wantSince := time.Date(2025, 7, 3, 12, 0, 0, 0, time.UTC)
	if !gotSince.Equal(wantSince) {
		t.Fatalf("expected 7-day window since %v, got %v", wantSince, gotSince)
	}
	if len(bouquets) != 3 {
		t.Fatalf("expected 3 bouquets, got %d", len(bouquets))
	}
	if bouquets[0].ID != "viral" || bouquets[1].ID != "steady" || bouquets[2].ID != "quiet" {
		t.Fatalf("unexpected ranking: %q, %q, %q", bouquets[0].ID, bouquets[1].ID, bouquets[2].ID)
	}
	for _, bouquet := range bouquets {
		if bouquet.OwnerRef != domain.AnonymousOwner {
			t.Fatalf("expected anonymized owner, got %q", bouquet.OwnerRef)
		}
	}
}

func TestStatsRanksPopularStyles(t *testing.T) {
	var gotSince time.Time
	repo := &stubBouquetRepository{statsFn: func(_ context.Context, recentSince time.Time) (domain.GalleryStats, error) {
		gotSince = recentSince
		return domain.GalleryStats{
			TotalBouquets:  12,
			PublicBouquets: 9,
			RecentBouquets: 2,
			PopularStyles: []domain.StyleCount{
				{Style: domain.StyleMinimalist, Count: 2},
				{Style: domain.StyleRealistic, Count: 5},
				{Style: domain.StyleRomantic, Count: 2},
			},
		}, nil
	}}
	svc := newTestGallery(t, repo)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	wantSince := time.Date(2025, 7, 9, 12, 0, 0, 0, time.UTC)
	if !gotSince.Equal(wantSince) {
		t.Fatalf("expected 24h recent window since %v, got %v", wantSince, gotSince)
	}
	if stats.TotalBouquets != 12 || stats.PublicBouquets != 9 || stats.RecentBouquets != 2 {
		t.Fatalf("unexpected counters: %+v", stats)
	}
	if len(stats.PopularStyles) != 3 {
		t.Fatalf("expected 3 styles, got %d", len(stats.PopularStyles))
	}
	if stats.PopularStyles[0].Style != domain.StyleRealistic {
		t.Fatalf("expected realistic first, got %q", stats.PopularStyles[0].Style)
	}
	// Equal counts order by style name for a stable response.
	if stats.PopularStyles[1].Style != domain.StyleMinimalist || stats.PopularStyles[2].Style != domain.StyleRomantic {
		t.Fatalf("unexpected tie order: %+v", stats.PopularStyles)
	}
	if !stats.GeneratedAt.Equal(time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected generated at %v", stats.GeneratedAt)
	}
}

func TestStatsWrapsRepositoryFailure(t *testing.T) {
	repo := &stubBouquetRepository{statsFn: func(context.Context, time.Time) (domain.GalleryStats, error) {
		return domain.GalleryStats{}, errors.New("backend down")
	}}
	svc := newTestGallery(t, repo)

	if _, err := svc.Stats(context.Background()); !errors.Is(err, ErrGalleryUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}
