package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/qslabs/sms-service/internal/config"
	"github.com/qslabs/sms-service/internal/domain"
	apperrors "github.com/qslabs/sms-service/pkg/util/errorutil"
)

// CredentialStore looks up stored credentials by username. A missing user is
// reported as pgx.ErrNoRows.
type CredentialStore interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// AuthenticatorOptions tunes token issuance.
type AuthenticatorOptions struct {
	TTL        time.Duration
	Policy     config.SessionPolicy
	BcryptCost int
	NewToken   TokenGenerator
	Now        func() time.Time
}

// Authenticator verifies credentials and issues opaque tokens into the cache.
type Authenticator struct {
	store     CredentialStore
	cache     TokenCache
	ttl       time.Duration
	policy    config.SessionPolicy
	newToken  TokenGenerator
	now       func() time.Time
	dummyHash string
}

// NewAuthenticator wires an authenticator. The single-session policy needs a
// cache that can revoke by user.
func NewAuthenticator(store CredentialStore, cache TokenCache, opts AuthenticatorOptions) (*Authenticator, error) {
	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}
	if opts.Policy == "" {
		opts.Policy = config.SessionPolicyMulti
	}
	if opts.NewToken == nil {
		opts.NewToken = NewOpaqueToken
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Policy == config.SessionPolicySingle {
		if _, ok := cache.(SessionRevoker); !ok {
			return nil, errors.New("single session policy requires a cache that supports revocation")
		}
	}

	// Unknown usernames are compared against this hash so both failure paths cost the same.
	dummy, err := HashPassword("unused-placeholder-password", opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &Authenticator{
		store:     store,
		cache:     cache,
		ttl:       opts.TTL,
		policy:    opts.Policy,
		newToken:  opts.NewToken,
		now:       opts.Now,
		dummyHash: dummy,
	}, nil
}

// Login checks the password and stores a fresh token for the user.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*domain.IssuedToken, error) {
	user, err := a.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			_ = ComparePassword(a.dummyHash, password)
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, apperrors.MapError(err)
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}
	if !user.Role.Valid() {
		return nil, apperrors.NewInternalError(fmt.Errorf("user %s has invalid role %q", user.ID, user.Role))
	}

	token, err := a.newToken()
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if a.policy == config.SessionPolicySingle {
		if err := a.cache.(SessionRevoker).RevokeUser(ctx, user.ID); err != nil {
			return nil, apperrors.NewCacheUnavailable(err)
		}
	}

	issuedAt := a.now()
	identity := domain.Identity{UserID: user.ID, Username: user.Username, Role: user.Role}
	if err := a.cache.Put(ctx, token, domain.Session{Identity: identity, IssuedAt: issuedAt}, a.ttl); err != nil {
		return nil, apperrors.NewCacheUnavailable(err)
	}

	return &domain.IssuedToken{
		Token:     token,
		Identity:  identity,
		ExpiresAt: issuedAt.Add(a.ttl),
	}, nil
}

// Logout forgets the token. Unknown tokens are ignored.
func (a *Authenticator) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := a.cache.Delete(ctx, token); err != nil {
		return apperrors.NewCacheUnavailable(err)
	}
	return nil
}

// RevokeUser drops all sessions of a user when the cache supports it.
func (a *Authenticator) RevokeUser(ctx context.Context, userID string) error {
	revoker, ok := a.cache.(SessionRevoker)
	if !ok {
		return nil
	}
	if err := revoker.RevokeUser(ctx, userID); err != nil {
		return apperrors.NewCacheUnavailable(err)
	}
	return nil
}
