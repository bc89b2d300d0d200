package services

import (
	"context"
	"testing"
	"time"

	domain "github.com/sakisou/api/internal/domain"
)

type stubHealthRepository struct {
	collectFn func(context.Context) (domain.SystemHealthReport, error)
}

func (s *stubHealthRepository) Collect(ctx context.Context) (domain.SystemHealthReport, error) {
	if s.collectFn != nil {
		return s.collectFn(ctx)
	}
	return domain.SystemHealthReport{}, nil
}

func TestSystemServiceHealthReportBackfillsMetadata(t *testing.T) {
	started := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 7, 1, 6, 0, 0, 0, time.UTC)

	repo := &stubHealthRepository{collectFn: func(context.Context) (domain.SystemHealthReport, error) {
		return domain.SystemHealthReport{
			Status: domain.HealthStatusOK,
			Checks: map[string]domain.SystemHealthCheck{
				"firestore": {Status: domain.HealthStatusOK},
			},
		}, nil
	}}
	svc, err := NewSystemService(SystemServiceDeps{
		HealthRepository: repo,
		Clock:            func() time.Time { return now },
		Build: BuildInfo{
			Version:     "1.4.0",
			CommitSHA:   "abc123",
			Environment: "staging",
			StartedAt:   started,
		},
	})
	if err != nil {
		t.Fatalf("new system service: %v", err)
	}

	report, err := svc.HealthReport(context.Background())
	if err != nil {
		t.Fatalf("health report: %v", err)
	}
	if report.Version != "1.4.0" || report.CommitSHA != "abc123" || report.Environment != "staging" {
		t.Fatalf("expected build metadata to be attached, got %+v", report)
	}
	if report.Uptime != 6*time.Hour {
		t.Fatalf("expected 6h uptime, got %v", report.Uptime)
	}
	if report.GeneratedAt.IsZero() {
		t.Fatalf("expected generatedAt to be backfilled")
	}
	if report.Checks["firestore"].Status != domain.HealthStatusOK {
		t.Fatalf("expected firestore check to survive")
	}
}

func TestSystemServiceDefaultsEmptyReport(t *testing.T) {
	svc, err := NewSystemService(SystemServiceDeps{HealthRepository: &stubHealthRepository{}})
	if err != nil {
		t.Fatalf("new system service: %v", err)
	}

	report, err := svc.HealthReport(context.Background())
	if err != nil {
		t.Fatalf("health report: %v", err)
	}
	if report.Status != domain.HealthStatusOK {
		t.Fatalf("expected default ok status, got %q", report.Status)
	}
	if report.Checks == nil {
		t.Fatalf("expected non-nil checks map")
	}
}
