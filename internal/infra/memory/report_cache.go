package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"verb-quiz-portal/internal/app"
	"verb-quiz-portal/internal/domain"
	"golang.org/x/sync/singleflight"
)

// ReportCache caches dashboard reports per week filter with a TTL to avoid
// re-scanning the results log on every dashboard hit. Staleness is bounded
// by the TTL; there is no explicit invalidation on append.
type ReportCache struct {
	source app.ReportProvider
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedReport
}

type cachedReport struct {
	report    domain.AggregateReport
	expiresAt time.Time
}

func NewReportCache(source app.ReportProvider, ttl time.Duration) *ReportCache {
	return &ReportCache{
		source: source,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedReport),
	}
}

func (c *ReportCache) Report(ctx context.Context, week string) (domain.AggregateReport, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[week]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.report, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(week, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[week]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.report, nil
		}
		c.mu.RUnlock()

		report, err := c.source.Report(ctx, week)
		if err != nil {
			return domain.AggregateReport{}, err
		}

		c.mu.Lock()
		c.cache[week] = cachedReport{
			report:    report,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return report, nil
	})
	if err != nil {
		return domain.AggregateReport{}, err
	}
	return result.(domain.AggregateReport), nil
}

func (c *ReportCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
