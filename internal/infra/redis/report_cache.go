package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"verb-quiz-portal/internal/app"
	"verb-quiz-portal/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ReportCache caches dashboard reports in Redis (one JSON value per week
// filter) and falls back to the underlying provider on cache miss.
// Keys are: dashboard:report:{week}. Staleness is bounded by the TTL; a
// multi-instance deployment shares one cache.
type ReportCache struct {
	client *redis.Client
	source app.ReportProvider
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewReportCache(client *redis.Client, source app.ReportProvider, ttl time.Duration) *ReportCache {
	return &ReportCache{
		client: client,
		source: source,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *ReportCache) Report(ctx context.Context, week string) (domain.AggregateReport, error) {
	key := c.key(week)

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var report domain.AggregateReport
		if err := json.Unmarshal(raw, &report); err == nil {
			return report, nil
		}
		// Unreadable cache entry: drop it and recompute.
		_ = c.client.Del(ctx, key).Err()
	}

	result, err, _ := c.sf.Do(week, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
			var report domain.AggregateReport
			if err := json.Unmarshal(raw, &report); err == nil {
				return report, nil
			}
		}

		report, err := c.source.Report(ctx, week)
		if err != nil {
			return domain.AggregateReport{}, err
		}

		if ttl := c.ttlWithJitter(); ttl > 0 {
			if raw, err := json.Marshal(report); err == nil {
				// best-effort: a failed cache write only costs a recompute
				_ = c.client.Set(ctx, key, raw, ttl).Err()
			}
		}
		return report, nil
	})
	if err != nil {
		return domain.AggregateReport{}, err
	}
	return result.(domain.AggregateReport), nil
}

func (c *ReportCache) key(week string) string {
	return "dashboard:report:" + week
}

func (c *ReportCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
