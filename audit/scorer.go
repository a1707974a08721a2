package audit

import (
	"sync"
	"time"

	c "github.com/patrickmn/go-cache"
)

// rateScorer flags unusually frequent or unusually slow actions for an
// actor over a sliding window. Idle actors are evicted by the cache so the
// actor set never grows unbounded.
type rateScorer struct {
	mu          sync.Mutex
	cache       *c.Cache
	window      time.Duration
	rateLimit   int
	slowLatency time.Duration
}

type actorStats struct {
	times        []time.Time
	totalLatency time.Duration
	count        int
}

var _ Scorer = new(rateScorer)

func NewRateScorer(window time.Duration, rateLimit int, slowLatency time.Duration) *rateScorer {
	return &rateScorer{
		cache:       c.New(2*window, 10*time.Minute),
		window:      window,
		rateLimit:   rateLimit,
		slowLatency: slowLatency,
	}
}

func (rs *rateScorer) Score(event Event) float64 {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	now := event.Timestamp
	if now.IsZero() {
		now = time.Now()
	}
	var stats *actorStats
	if v, found := rs.cache.Get(event.Actor); found {
		stats = v.(*actorStats)
	} else {
		stats = &actorStats{}
	}
	cutoff := now.Add(-rs.window)
	kept := stats.times[:0]
	for _, t := range stats.times {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	stats.times = append(kept, now)
	stats.totalLatency += event.Latency
	stats.count++
	rs.cache.Set(event.Actor, stats, c.DefaultExpiration)

	score := 0.0
	if len(stats.times) > rs.rateLimit {
		score += float64(len(stats.times)-rs.rateLimit) / float64(rs.rateLimit)
	}
	if rs.slowLatency > 0 && event.Latency > rs.slowLatency {
		score += float64(event.Latency) / float64(rs.slowLatency)
	}
	return score
}
