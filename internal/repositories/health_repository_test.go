package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/sakisou/api/internal/domain"
)

func TestDependencyHealthCollectAllHealthy(t *testing.T) {
	now := time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC)
	repo, err := NewDependencyHealthRepository([]DependencyCheck{
		{Name: "firestore", Check: func(context.Context) error { return nil }},
		{Name: "storage", Check: func(context.Context) error { return nil }},
	}, WithDependencyClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("new health repository: %v", err)
	}

	report, err := repo.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if report.Status != domain.HealthStatusOK {
		t.Fatalf("expected ok report, got %s", report.Status)
	}
	if len(report.Checks) != 2 {
		t.Fatalf("expected 2 checks, got %d", len(report.Checks))
	}
	for name, check := range report.Checks {
		if check.Status != domain.HealthStatusOK || check.Detail != "ok" {
			t.Fatalf("check %s: unexpected result %+v", name, check)
		}
		if !check.CheckedAt.Equal(now) {
			t.Fatalf("check %s: expected checkedAt %s, got %s", name, now, check.CheckedAt)
		}
	}
	if !report.GeneratedAt.Equal(now) {
		t.Fatalf("expected generatedAt %s, got %s", now, report.GeneratedAt)
	}
}

func TestDependencyHealthCollectDegradesOnFailure(t *testing.T) {
	probeErr := errors.New("firestore: rpc error")
	repo, err := NewDependencyHealthRepository([]DependencyCheck{
		{Name: "firestore", Check: func(context.Context) error { return probeErr }},
		{Name: "storage", Check: func(context.Context) error { return nil }},
	})
	if err != nil {
		t.Fatalf("new health repository: %v", err)
	}

	report, err := repo.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if report.Status != domain.HealthStatusDegraded {
		t.Fatalf("expected degraded report, got %s", report.Status)
	}
	failed := report.Checks["firestore"]
	if failed.Status != domain.HealthStatusDegraded || failed.Error != probeErr.Error() {
		t.Fatalf("unexpected firestore result %+v", failed)
	}
	if report.Checks["storage"].Status != domain.HealthStatusOK {
		t.Fatalf("healthy check must stay ok, got %+v", report.Checks["storage"])
	}
}

func TestDependencyHealthCollectTimesOutSlowProbe(t *testing.T) {
	repo, err := NewDependencyHealthRepository([]DependencyCheck{
		{
			Name:    "gemini",
			Timeout: 5 * time.Millisecond,
			Check: func(ctx context.Context) error {
				select {
				case <-time.After(100 * time.Millisecond):
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			},
		},
	})
	if err != nil {
		t.Fatalf("new health repository: %v", err)
	}

	report, err := repo.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if report.Status != domain.HealthStatusError {
		t.Fatalf("expected error report, got %s", report.Status)
	}
	timedOut := report.Checks["gemini"]
	if timedOut.Status != domain.HealthStatusError || timedOut.Detail != "timeout" {
		t.Fatalf("unexpected gemini result %+v", timedOut)
	}
}

func TestDependencyHealthRejectsInvalidChecks(t *testing.T) {
	if _, err := NewDependencyHealthRepository(nil); err == nil {
		t.Fatalf("expected error for empty check set")
	}
	if _, err := NewDependencyHealthRepository([]DependencyCheck{{Name: "  "}}); err == nil {
		t.Fatalf("expected error for unnamed check")
	}
	if _, err := NewDependencyHealthRepository([]DependencyCheck{{Name: "firestore"}}); err == nil {
		t.Fatalf("expected error for missing check function")
	}
}
