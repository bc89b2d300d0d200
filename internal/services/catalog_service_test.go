package services

import (
	"context"
	"testing"

	domain "github.com/sakisou/api/internal/domain"
)

func newTestCatalog(t *testing.T) CatalogService {
	t.Helper()
	svc, err := NewCatalogService(CatalogServiceDeps{})
	if err != nil {
		t.Fatalf("new catalog service: %v", err)
	}
	return svc
}

func TestCatalogFindByNameMatchesBothLocales(t *testing.T) {
	svc := newTestCatalog(t)
	ctx := context.Background()

	byJapanese, ok := svc.FindByName(ctx, "かすみ草")
	if !ok {
		t.Fatalf("expected かすみ草 to resolve")
	}
	byEnglish, ok := svc.FindByName(ctx, "baby's breath")
	if !ok {
		t.Fatalf("expected baby's breath to resolve")
	}
	if byJapanese.Key() != byEnglish.Key() {
		t.Fatalf("expected both lookups to return the same flower, got %q and %q", byJapanese.Name, byEnglish.Name)
	}
	if byJapanese.NameEn != "Baby's Breath" {
		t.Fatalf("unexpected english name %q", byJapanese.NameEn)
	}

	if _, ok := svc.FindByName(ctx, "  SUNFLOWER  "); !ok {
		t.Fatalf("expected case-insensitive trimmed lookup to succeed")
	}
	if _, ok := svc.FindByName(ctx, "tulip-of-mars"); ok {
		t.Fatalf("expected unknown name to miss")
	}
}

func TestCatalogFilterBySeasonIncludesAllSeasonFlowers(t *testing.T) {
	svc := newTestCatalog(t)

	winter := svc.FilterBySeason(context.Background(), domain.SeasonWinter)
	if len(winter) == 0 {
		t.Fatalf("expected winter flowers")
	}
	var sawCamellia, sawBabysBreath bool
	for _, flower := range winter {
		if flower.Season != domain.SeasonWinter && flower.Season != domain.SeasonAll {
			t.Fatalf("unexpected season %q for %q", flower.Season, flower.Name)
		}
		switch flower.Name {
		case "椿":
			sawCamellia = true
		case "かすみ草":
			sawBabysBreath = true
		}
	}
	if !sawCamellia {
		t.Fatalf("expected 椿 in the winter listing")
	}
	if !sawBabysBreath {
		t.Fatalf("expected year-round かすみ草 in the winter listing")
	}
}

func TestCatalogFilterBySeasonAllReturnsFullCatalog(t *testing.T) {
	svc := newTestCatalog(t)

	all := svc.FilterBySeason(context.Background(), domain.SeasonAll)
	if len(all) != len(domain.FlowerCatalog) {
		t.Fatalf("expected the full catalog of %d flowers, got %d", len(domain.FlowerCatalog), len(all))
	}
}

func TestCatalogFlowersForEmotion(t *testing.T) {
	svc := newTestCatalog(t)
	ctx := context.Background()

	gratitude := svc.FlowersForEmotion(ctx, " Gratitude ")
	if len(gratitude) != 3 {
		t.Fatalf("expected 3 gratitude flowers, got %d", len(gratitude))
	}
	if gratitude[0].Name != "かすみ草" {
		t.Fatalf("expected かすみ草 first, got %q", gratitude[0].Name)
	}

	if unknown := svc.FlowersForEmotion(ctx, "melancholy-optimism"); len(unknown) != 0 {
		t.Fatalf("expected no flowers for unmapped emotion, got %d", len(unknown))
	}
}

func TestCatalogSampleRandom(t *testing.T) {
	svc := newTestCatalog(t)
	ctx := context.Background()

	sample := svc.SampleRandom(ctx, 5)
	if len(sample) != 5 {
		t.Fatalf("expected 5 flowers, got %d", len(sample))
	}
	seen := make(map[string]struct{}, len(sample))
	for _, flower := range sample {
		if _, dup := seen[flower.Key()]; dup {
			t.Fatalf("duplicate flower %q in sample", flower.Name)
		}
		seen[flower.Key()] = struct{}{}
	}

	if all := svc.SampleRandom(ctx, 100); len(all) != len(domain.FlowerCatalog) {
		t.Fatalf("expected oversized request to clamp to %d, got %d", len(domain.FlowerCatalog), len(all))
	}
	if none := svc.SampleRandom(ctx, 0); none != nil {
		t.Fatalf("expected nil for zero count")
	}
}
