package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qslabs/sms-service/internal/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testSession(userID string, role domain.Role) domain.Session {
	return domain.Session{Identity: domain.Identity{UserID: userID, Username: "u-" + userID, Role: role}}
}

func TestMemoryTokenCachePutGetDelete(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryTokenCache()

	require.NoError(t, cache.Put(ctx, "tok", testSession("1", domain.RoleAdmin), time.Minute))

	got, err := cache.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, got.Role)
	assert.Equal(t, "1", got.UserID)

	require.NoError(t, cache.Delete(ctx, "tok"))
	_, err = cache.Get(ctx, "tok")
	assert.ErrorIs(t, err, ErrCacheMiss)

	// idempotent
	require.NoError(t, cache.Delete(ctx, "tok"))
}

func TestMemoryTokenCacheExpiry(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	cache := NewMemoryTokenCacheWithClock(clock.Now)

	require.NoError(t, cache.Put(ctx, "tok", testSession("1", domain.RoleStudent), time.Hour))

	clock.Advance(59 * time.Minute)
	_, err := cache.Get(ctx, "tok")
	require.NoError(t, err)

	clock.Advance(time.Minute)
	_, err = cache.Get(ctx, "tok")
	assert.ErrorIs(t, err, ErrCacheMiss)

	// once expired, stays expired even if the clock goes backwards
	clock.Advance(-30 * time.Minute)
	_, err = cache.Get(ctx, "tok")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Equal(t, 0, cache.Len())
}

func TestMemoryTokenCacheRevokeUser(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryTokenCache()

	require.NoError(t, cache.Put(ctx, "a1", testSession("a", domain.RoleTeacher), time.Minute))
	require.NoError(t, cache.Put(ctx, "a2", testSession("a", domain.RoleTeacher), time.Minute))
	require.NoError(t, cache.Put(ctx, "b1", testSession("b", domain.RoleTeacher), time.Minute))

	require.NoError(t, cache.RevokeUser(ctx, "a"))

	_, err := cache.Get(ctx, "a1")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = cache.Get(ctx, "a2")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = cache.Get(ctx, "b1")
	assert.NoError(t, err)
}

func TestMemoryTokenCacheCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cache := NewMemoryTokenCache()
	_, err := cache.Get(ctx, "tok")
	assert.ErrorIs(t, err, ErrCacheUnavailable)
}

func TestMemoryTokenCacheConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryTokenCache()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token := string(rune('A' + i%26))
			_ = cache.Put(ctx, token, testSession("x", domain.RoleParent), time.Minute)
			_, _ = cache.Get(ctx, token)
			_ = cache.Delete(ctx, token)
		}(i)
	}
	wg.Wait()
}

func TestRedisTokenCacheUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	cache := NewRedisTokenCache(client, "test")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := cache.Get(ctx, "tok")
	assert.ErrorIs(t, err, ErrCacheUnavailable)

	err = cache.Put(ctx, "tok", testSession("1", domain.RoleAdmin), time.Minute)
	assert.ErrorIs(t, err, ErrCacheUnavailable)

	err = cache.RevokeUser(ctx, "1")
	assert.ErrorIs(t, err, ErrCacheUnavailable)
}

func newMiniredisCache(t *testing.T) (*RedisTokenCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisTokenCache(client, "test"), mr
}

func TestRedisTokenCachePutGetDelete(t *testing.T) {
	ctx := context.Background()
	cache, mr := newMiniredisCache(t)

	session := testSession("u1", domain.RoleTeacher)
	require.NoError(t, cache.Put(ctx, "tok", session, time.Minute))

	got, err := cache.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, session.UserID, got.UserID)
	assert.Equal(t, session.Role, got.Role)
	assert.True(t, got.IssuedAt.Equal(session.IssuedAt))

	members, err := mr.Members("test:user:u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"tok"}, members)

	require.NoError(t, cache.Delete(ctx, "tok"))
	require.NoError(t, cache.Delete(ctx, "tok"))

	_, err = cache.Get(ctx, "tok")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.False(t, mr.Exists("test:token:tok"))
}

func TestRedisTokenCacheExpiry(t *testing.T) {
	ctx := context.Background()
	cache, mr := newMiniredisCache(t)

	require.NoError(t, cache.Put(ctx, "tok", testSession("u1", domain.RoleStudent), time.Minute))

	mr.FastForward(59 * time.Second)
	_, err := cache.Get(ctx, "tok")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)
	_, err = cache.Get(ctx, "tok")
	assert.ErrorIs(t, err, ErrCacheMiss)

	// Reads after expiry never bring the entry back.
	_, err = cache.Get(ctx, "tok")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisTokenCacheRevokeUser(t *testing.T) {
	ctx := context.Background()
	cache, mr := newMiniredisCache(t)

	require.NoError(t, cache.Put(ctx, "a", testSession("u1", domain.RoleAdmin), time.Minute))
	require.NoError(t, cache.Put(ctx, "b", testSession("u1", domain.RoleAdmin), time.Minute))
	require.NoError(t, cache.Put(ctx, "c", testSession("u2", domain.RoleAdmin), time.Minute))

	require.NoError(t, cache.RevokeUser(ctx, "u1"))

	for _, token := range []string{"a", "b"} {
		_, err := cache.Get(ctx, token)
		assert.ErrorIs(t, err, ErrCacheMiss, token)
	}
	_, err := cache.Get(ctx, "c")
	assert.NoError(t, err)
	assert.False(t, mr.Exists("test:user:u1"))

	// Revoking a user with no sessions is a no-op.
	assert.NoError(t, cache.RevokeUser(ctx, "u1"))
	assert.NoError(t, cache.RevokeUser(ctx, "nobody"))
}

func TestRedisTokenCacheRevokeKeepsUnreadMembers(t *testing.T) {
	ctx := context.Background()
	cache, mr := newMiniredisCache(t)

	require.NoError(t, cache.Put(ctx, "old", testSession("u1", domain.RoleAdmin), time.Minute))
	require.NoError(t, cache.RevokeUser(ctx, "u1"))

	// A token indexed after revocation read the set must remain revocable.
	require.NoError(t, cache.Put(ctx, "new", testSession("u1", domain.RoleAdmin), time.Minute))
	members, err := mr.Members("test:user:u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, members)

	require.NoError(t, cache.RevokeUser(ctx, "u1"))
	_, err = cache.Get(ctx, "new")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisTokenCachePrunesExpiredIndexMembers(t *testing.T) {
	ctx := context.Background()
	cache, mr := newMiniredisCache(t)

	require.NoError(t, cache.Put(ctx, "short", testSession("u1", domain.RoleStudent), time.Second))
	require.NoError(t, cache.Put(ctx, "long", testSession("u1", domain.RoleStudent), time.Hour))

	// Expire the short token without letting the index itself lapse.
	mr.FastForward(2 * time.Second)
	require.NoError(t, cache.Put(ctx, "fresh", testSession("u1", domain.RoleStudent), time.Hour))

	members, err := mr.Members("test:user:u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"long", "fresh"}, members)
}

func TestRedisTokenCacheKeys(t *testing.T) {
	cache := NewRedisTokenCache(nil, "")
	assert.Equal(t, "sms:token:abc", cache.tokenKey("abc"))
	assert.Equal(t, "sms:user:42", cache.userKey("42"))
}

func TestNewOpaqueToken(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token, err := NewOpaqueToken()
		require.NoError(t, err)
		assert.Len(t, token, 43)
		_, dup := seen[token]
		assert.False(t, dup)
		seen[token] = struct{}{}
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correctpw", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "correctpw", hash)
	assert.NoError(t, ComparePassword(hash, "correctpw"))
	assert.Error(t, ComparePassword(hash, "wrongpw"))
}
