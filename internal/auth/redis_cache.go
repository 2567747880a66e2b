package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/qslabs/sms-service/internal/domain"
)

// RedisTokenCache stores sessions as JSON under "<prefix>:token:<token>" and
// keeps a per-user index set "<prefix>:user:<id>" for revocation.
type RedisTokenCache struct {
	client redis.Cmdable
	prefix string
}

// NewRedisTokenCache builds a cache over an existing client.
func NewRedisTokenCache(client redis.Cmdable, prefix string) *RedisTokenCache {
	if prefix == "" {
		prefix = "sms"
	}
	return &RedisTokenCache{client: client, prefix: prefix}
}

func (c *RedisTokenCache) tokenKey(token string) string {
	return c.prefix + ":token:" + token
}

func (c *RedisTokenCache) userKey(userID string) string {
	return c.prefix + ":user:" + userID
}

// Put stores the session with a TTL enforced by Redis.
func (c *RedisTokenCache) Put(ctx context.Context, token string, session domain.Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	userKey := c.userKey(session.UserID)
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, c.tokenKey(token), payload, ttl)
		pipe.SAdd(ctx, userKey, token)
		pipe.Expire(ctx, userKey, ttl)
		return nil
	})
	if err != nil {
		return unavailable(err)
	}
	return c.pruneIndex(ctx, userKey)
}

// pruneIndex drops index members whose token key has expired or been deleted.
// Members are only added in the same transaction that sets the token key, so
// a missing key always means the token is gone.
func (c *RedisTokenCache) pruneIndex(ctx context.Context, userKey string) error {
	tokens, err := c.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return unavailable(err)
	}
	if len(tokens) == 0 {
		return nil
	}

	exists := make([]*redis.IntCmd, len(tokens))
	_, err = c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, token := range tokens {
			exists[i] = pipe.Exists(ctx, c.tokenKey(token))
		}
		return nil
	})
	if err != nil {
		return unavailable(err)
	}

	stale := make([]interface{}, 0)
	for i, cmd := range exists {
		if cmd.Val() == 0 {
			stale = append(stale, tokens[i])
		}
	}
	if len(stale) == 0 {
		return nil
	}
	if err := c.client.SRem(ctx, userKey, stale...).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

// Get resolves a token. Expired and deleted tokens report ErrCacheMiss.
func (c *RedisTokenCache) Get(ctx context.Context, token string) (domain.Session, error) {
	raw, err := c.client.Get(ctx, c.tokenKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Session{}, ErrCacheMiss
		}
		return domain.Session{}, unavailable(err)
	}

	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		// An unreadable entry is never trusted as an identity.
		return domain.Session{}, ErrCacheMiss
	}
	return session, nil
}

// Delete removes a token. Deleting an unknown token is not an error.
func (c *RedisTokenCache) Delete(ctx context.Context, token string) error {
	session, err := c.Get(ctx, token)
	if err != nil && !errors.Is(err, ErrCacheMiss) {
		return err
	}

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, c.tokenKey(token))
		if session.UserID != "" {
			pipe.SRem(ctx, c.userKey(session.UserID), token)
		}
		return nil
	})
	if err != nil {
		return unavailable(err)
	}
	return nil
}

// RevokeUser deletes every token indexed for the user. Only the members read
// are removed from the index, so a token added concurrently stays revocable.
func (c *RedisTokenCache) RevokeUser(ctx context.Context, userID string) error {
	userKey := c.userKey(userID)
	tokens, err := c.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return unavailable(err)
	}
	if len(tokens) == 0 {
		return nil
	}

	keys := make([]string, 0, len(tokens))
	members := make([]interface{}, 0, len(tokens))
	for _, token := range tokens {
		keys = append(keys, c.tokenKey(token))
		members = append(members, token)
	}

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		pipe.SRem(ctx, userKey, members...)
		return nil
	})
	if err != nil {
		return unavailable(err)
	}
	return nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
}
