package memory

import (
	"context"
	"testing"
	"time"

	"verb-quiz-portal/internal/domain"
)

type countingProvider struct {
	calls  int
	report domain.AggregateReport
}

func (p *countingProvider) Report(_ context.Context, week string) (domain.AggregateReport, error) {
	p.calls++
	report := p.report
	report.Week = week
	return report, nil
}

func TestReportCacheCaches(t *testing.T) {
	source := &countingProvider{report: domain.AggregateReport{TotalAttempts: 3}}
	cache := NewReportCache(source, time.Minute)

	report, err := cache.Report(context.Background(), domain.FilterAll)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.TotalAttempts != 3 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if source.calls != 1 {
		t.Fatalf("expected one source call, got %d", source.calls)
	}

	if _, err := cache.Report(context.Background(), domain.FilterAll); err != nil {
		t.Fatalf("report 2: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected cache hit, source calls %d", source.calls)
	}
}

func TestReportCachePerWeekKeys(t *testing.T) {
	source := &countingProvider{}
	cache := NewReportCache(source, time.Minute)

	if _, err := cache.Report(context.Background(), "week1"); err != nil {
		t.Fatalf("report: %v", err)
	}
	if _, err := cache.Report(context.Background(), "week2"); err != nil {
		t.Fatalf("report: %v", err)
	}
	if source.calls != 2 {
		t.Fatalf("expected one source call per week filter, got %d", source.calls)
	}
}

func TestReportCacheExpires(t *testing.T) {
	source := &countingProvider{}
	cache := NewReportCache(source, time.Minute)
	now := time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)
	cache.clock = func() time.Time { return now }

	if _, err := cache.Report(context.Background(), domain.FilterAll); err != nil {
		t.Fatalf("report: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := cache.Report(context.Background(), domain.FilterAll); err != nil {
		t.Fatalf("report: %v", err)
	}
	if source.calls != 2 {
		t.Fatalf("expected recompute after TTL, got %d calls", source.calls)
	}
}
