package redis

import (
	"context"
	"testing"
	"time"

	"verb-quiz-portal/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
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

func TestReportCacheStoresAndServesFromRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mean := 70.0
	source := &countingProvider{report: domain.AggregateReport{
		TotalAttempts: 3,
		AverageScore:  &mean,
		PassingRate:   66.7,
	}}
	cache := NewReportCache(client, source, time.Minute)

	report, err := cache.Report(context.Background(), domain.FilterAll)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.TotalAttempts != 3 || report.PassingRate != 66.7 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if !mr.Exists("dashboard:report:all") {
		t.Fatalf("expected redis key to be set")
	}

	cached, err := cache.Report(context.Background(), domain.FilterAll)
	if err != nil {
		t.Fatalf("cached report: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected redis hit, source calls %d", source.calls)
	}
	if cached.AverageScore == nil || *cached.AverageScore != 70.0 {
		t.Fatalf("report did not survive the JSON round trip: %+v", cached)
	}
}

func TestReportCacheRecomputesAfterExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	source := &countingProvider{}
	cache := NewReportCache(client, source, time.Minute)

	if _, err := cache.Report(context.Background(), "week1"); err != nil {
		t.Fatalf("report: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := cache.Report(context.Background(), "week1"); err != nil {
		t.Fatalf("report: %v", err)
	}
	if source.calls != 2 {
		t.Fatalf("expected recompute after TTL, got %d calls", source.calls)
	}
}
