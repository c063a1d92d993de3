package commands

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// userLimiter keeps one token bucket per member id. Idle buckets are dropped
// once they refill so the map cannot grow without bound.
type userLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int

	lastCleanup time.Time
}

func newUserLimiter(cfg RateLimit) *userLimiter {
	if cfg.Requests <= 0 {
		cfg.Requests = 3
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.Requests
	}

	return &userLimiter{
		limiters:    make(map[string]*rate.Limiter),
		limit:       rate.Limit(float64(cfg.Requests) / cfg.Window.Seconds()),
		burst:       cfg.Burst,
		lastCleanup: time.Now(),
	}
}

func (l *userLimiter) allow(key string) bool {
	if key == "" {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}

	l.maybeCleanup()
	return limiter.Allow()
}

// maybeCleanup removes limiters whose buckets are full again; a full bucket
// means the member has been idle at least one window. Caller holds l.mu.
func (l *userLimiter) maybeCleanup() {
	if time.Since(l.lastCleanup) < 5*time.Minute {
		return
	}
	l.lastCleanup = time.Now()

	for key, limiter := range l.limiters {
		if limiter.Tokens() >= float64(l.burst) {
			delete(l.limiters, key)
		}
	}
}
