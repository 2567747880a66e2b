package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/qslabs/sms-service/internal/domain"
	"github.com/qslabs/sms-service/internal/observability"
)

const (
	identityKey     = "auth_identity"
	cacheFailureKey = "auth_cache_failure"
	tokenKey        = "auth_token"
)

type identityCtxKey struct{}

// IdentityFilter resolves the token header into a request-scoped identity. It
// never rejects a request; the gate on each route decides.
type IdentityFilter struct {
	cache   TokenCache
	header  string
	timeout time.Duration
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewIdentityFilter constructs the filter.
func NewIdentityFilter(cache TokenCache, header string, timeout time.Duration, logger *zap.Logger, metrics *observability.Metrics) *IdentityFilter {
	if header == "" {
		header = "X-Auth-Token"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityFilter{cache: cache, header: header, timeout: timeout, logger: logger, metrics: metrics}
}

// Header is the request header the filter reads the token from.
func (f *IdentityFilter) Header() string {
	return f.header
}

// Handle attaches the caller identity when the token resolves.
func (f *IdentityFilter) Handle(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Get(f.header))
	if token == "" {
		f.metrics.RecordTokenLookup("absent")
		return c.Next()
	}
	c.Locals(tokenKey, token)

	ctx := c.UserContext()
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	session, err := f.cache.Get(ctx, token)
	switch {
	case err == nil:
	case errors.Is(err, ErrCacheMiss):
		f.metrics.RecordTokenLookup("miss")
		return c.Next()
	default:
		f.metrics.RecordTokenLookup("error")
		f.logger.Warn("token cache lookup failed", zap.Error(err))
		c.Locals(cacheFailureKey, true)
		return c.Next()
	}

	if !session.Role.Valid() || session.UserID == "" {
		f.metrics.RecordTokenLookup("miss")
		return c.Next()
	}

	f.metrics.RecordTokenLookup("hit")
	identity := session.Identity
	c.Locals(identityKey, &identity)
	c.SetUserContext(WithIdentity(c.UserContext(), identity))
	return c.Next()
}

// IdentityFromContext returns the identity attached by the filter.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	identity, ok := c.Locals(identityKey).(*domain.Identity)
	return identity, ok && identity != nil
}

// TokenFromContext returns the raw token presented on this request.
func TokenFromContext(c *fiber.Ctx) string {
	token, _ := c.Locals(tokenKey).(string)
	return token
}

// CacheFailed reports whether the token on this request could not be resolved
// because the cache was unreachable.
func CacheFailed(c *fiber.Ctx) bool {
	failed, _ := c.Locals(cacheFailureKey).(bool)
	return failed
}

// WithIdentity stores an identity in a context for code below the HTTP layer.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, identity)
}

// IdentityFrom reads the identity stored by WithIdentity.
func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(domain.Identity)
	return identity, ok
}
