package auth

import (
	"context"
	"sync"
	"time"

	"github.com/qslabs/sms-service/internal/domain"
)

type memoryEntry struct {
	session   domain.Session
	expiresAt time.Time
}

// MemoryTokenCache is a process-local TokenCache for tests and single-node
// development runs without Redis.
type MemoryTokenCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryTokenCache returns an empty cache using the wall clock.
func NewMemoryTokenCache() *MemoryTokenCache {
	return NewMemoryTokenCacheWithClock(time.Now)
}

// NewMemoryTokenCacheWithClock lets tests control expiry.
func NewMemoryTokenCacheWithClock(now func() time.Time) *MemoryTokenCache {
	return &MemoryTokenCache{entries: make(map[string]memoryEntry), now: now}
}

func (c *MemoryTokenCache) Put(ctx context.Context, token string, session domain.Session, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return unavailable(err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[token] = memoryEntry{session: session, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *MemoryTokenCache) Get(ctx context.Context, token string) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, unavailable(err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[token]
	if !ok {
		return domain.Session{}, ErrCacheMiss
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, token)
		return domain.Session{}, ErrCacheMiss
	}
	return entry.session, nil
}

func (c *MemoryTokenCache) Delete(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return unavailable(err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, token)
	return nil
}

func (c *MemoryTokenCache) RevokeUser(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return unavailable(err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for token, entry := range c.entries {
		if entry.session.UserID == userID {
			delete(c.entries, token)
		}
	}
	return nil
}

// Len counts live entries.
func (c *MemoryTokenCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	n := 0
	for _, entry := range c.entries {
		if now.Before(entry.expiresAt) {
			n++
		}
	}
	return n
}
