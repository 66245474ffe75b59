package ratelimit

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"marquee/internal/config"
)

// Limiter throttles command handling per chat user. Each user gets an
// independent token bucket sized to the configured window; idle buckets
// expire from the cache so the arena never grows unbounded.
type Limiter struct {
	enabled bool
	limit   rate.Limit
	burst   int
	buckets *gocache.Cache
}

// New builds a per-user limiter from config. A disabled config yields a
// limiter that always allows.
func New(cfg config.RateLimit) *Limiter {
	if !cfg.Enabled {
		return &Limiter{}
	}
	window := time.Duration(cfg.WindowSeconds) * time.Second
	return &Limiter{
		enabled: true,
		limit:   rate.Every(window / time.Duration(cfg.MaxRequests)),
		burst:   cfg.MaxRequests,
		buckets: gocache.New(2*window, window),
	}
}

// Allow reports whether the user may run another command right now.
func (l *Limiter) Allow(userID string) bool {
	if l == nil || !l.enabled {
		return true
	}
	bucket := l.bucket(userID)
	return bucket.Allow()
}

func (l *Limiter) bucket(userID string) *rate.Limiter {
	if cached, ok := l.buckets.Get(userID); ok {
		l.buckets.SetDefault(userID, cached)
		return cached.(*rate.Limiter)
	}
	fresh := rate.NewLimiter(l.limit, l.burst)
	if err := l.buckets.Add(userID, fresh, gocache.DefaultExpiration); err != nil {
		// Lost a creation race; use the winner.
		if cached, ok := l.buckets.Get(userID); ok {
			return cached.(*rate.Limiter)
		}
	}
	return fresh
}
