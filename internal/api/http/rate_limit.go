package http

import (
	"context"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	apperrors "github.com/qslabs/sms-service/pkg/util/errorutil"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterIdleTTL         = time.Hour
)

// LoginRateLimiter throttles requests per client IP with a token bucket.
type LoginRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rps      rate.Limit
	burst    int
	now      func() time.Time
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewLoginRateLimiter builds a limiter allowing rps requests per second with
// the given burst per client address.
func NewLoginRateLimiter(rps float64, burst int) *LoginRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &LoginRateLimiter{
		limiters: make(map[string]*limiterEntry),
		rps:      rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

// Start evicts idle limiters until ctx is cancelled.
func (l *LoginRateLimiter) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(limiterCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.evictIdle()
			}
		}
	}()
}

// Handler rejects requests over the limit with 429 and a Retry-After header.
func (l *LoginRateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limiter := l.limiter(c.IP())
		now := l.now()
		if limiter.AllowN(now, 1) {
			return c.Next()
		}
		reservation := limiter.ReserveN(now, 1)
		delay := reservation.DelayFrom(now)
		reservation.CancelAt(now)

		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(delay.Seconds()))))
		return apperrors.NewTooManyRequests("too many login attempts")
	}
}

func (l *LoginRateLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastAccess = l.now()
	return entry.limiter
}

func (l *LoginRateLimiter) evictIdle() {
	threshold := l.now().Add(-limiterIdleTTL)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, entry := range l.limiters {
		if entry.lastAccess.Before(threshold) {
			delete(l.limiters, key)
		}
	}
}

func (l *LoginRateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
