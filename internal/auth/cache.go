package auth

import (
	"context"
	"errors"
	"time"

	"github.com/qslabs/sms-service/internal/domain"
)

var (
	// ErrCacheMiss means the token is unknown, expired or deleted.
	ErrCacheMiss = errors.New("token not found")
	// ErrCacheUnavailable means the cache could not answer in time.
	ErrCacheUnavailable = errors.New("token cache unavailable")
)

// TokenCache is the only shared state behind authentication. Entries expire
// on their own once ttl elapses.
type TokenCache interface {
	Put(ctx context.Context, token string, session domain.Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (domain.Session, error)
	Delete(ctx context.Context, token string) error
}

// SessionRevoker drops every live token issued to a user.
type SessionRevoker interface {
	RevokeUser(ctx context.Context, userID string) error
}
