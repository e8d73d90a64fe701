package httpapi

import (
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type keyedLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// rateLimiter hands out one token bucket per identity. A nil *rateLimiter
// allows everything.
type rateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*keyedLimiter

	stopOnce sync.Once
	stopCh   chan struct{}
}

func newRateLimiter(perMinute int) *rateLimiter {
	if perMinute <= 0 {
		return nil
	}
	rl := &rateLimiter{
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    perMinute,
		limiters: make(map[string]*keyedLimiter),
		stopCh:   make(chan struct{}),
	}
	go rl.cleanupLoop(time.Minute)
	return rl
}

func (rl *rateLimiter) AllowIdentity(id int64) bool {
	if rl == nil {
		return true
	}
	key := strconv.FormatInt(id, 10)
	now := time.Now()

	rl.mu.Lock()
	kl, ok := rl.limiters[key]
	if !ok {
		kl = &keyedLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = kl
	}
	kl.lastAccess = now
	rl.mu.Unlock()

	return kl.limiter.AllowN(now, 1)
}

// RetryAfter is the whole seconds until one token refills.
func (rl *rateLimiter) RetryAfter() int {
	if rl == nil || rl.limit <= 0 {
		return 1
	}
	secs := int(1/float64(rl.limit) + 0.999)
	if secs < 1 {
		secs = 1
	}
	return secs
}

func (rl *rateLimiter) Stop() {
	if rl == nil {
		return
	}
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

func (rl *rateLimiter) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stopCh:
			return
		case now := <-ticker.C:
			rl.sweep(now)
		}
	}
}

func (rl *rateLimiter) sweep(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for k, kl := range rl.limiters {
		if now.Sub(kl.lastAccess) > limiterIdleTTL {
			delete(rl.limiters, k)
		}
	}
}

func (rl *rateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}
