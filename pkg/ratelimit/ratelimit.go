package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleTTL is how long an unused key is kept before it is evicted.
const idleTTL = 10 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter is a per-key token bucket allowing maxHits requests per window,
// with bursts up to maxHits.
type Limiter struct {
	mu        sync.Mutex
	limits    map[string]*entry
	every     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func NewLimiter(window time.Duration, maxHits int) *Limiter {
	if maxHits < 1 {
		maxHits = 1
	}
	return &Limiter{
		limits: make(map[string]*entry),
		every:  rate.Every(window / time.Duration(maxHits)),
		burst:  maxHits,
		now:    time.Now,
	}
}

// Allow reports whether a request for key may proceed now
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	e, exists := l.limits[key]
	if !exists {
		e = &entry{limiter: rate.NewLimiter(l.every, l.burst)}
		l.limits[key] = e
	}
	e.lastSeen = now

	return e.limiter.AllowN(now, 1)
}

// Len returns the number of tracked keys
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limits)
}

// sweep drops idle keys at most once per idleTTL. Callers hold l.mu.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < idleTTL {
		return
	}
	l.lastSweep = now

	for key, e := range l.limits {
		if now.Sub(e.lastSeen) > idleTTL {
			delete(l.limits, key)
		}
	}
}
