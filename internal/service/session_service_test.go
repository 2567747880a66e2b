package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/qslabs/sms-service/internal/auth"
	"github.com/qslabs/sms-service/internal/config"
	"github.com/qslabs/sms-service/internal/domain"
	"github.com/qslabs/sms-service/internal/events"
	"github.com/qslabs/sms-service/internal/observability"
	apperrors "github.com/qslabs/sms-service/pkg/util/errorutil"
)

type sessionFixture struct {
	users      *UserService
	sessions   *SessionService
	cache      *auth.MemoryTokenCache
	dispatcher *recordingDispatcher
}

func newSessionFixture(t *testing.T) sessionFixture {
	t.Helper()
	repo := newFakeUserRepo()
	dispatcher := newRecordingDispatcher()
	cache := auth.NewMemoryTokenCache()
	authenticator, err := auth.NewAuthenticator(repo, cache, auth.AuthenticatorOptions{BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)

	users := NewUserService(config.AuthConfig{BcryptCost: bcrypt.MinCost}, repo, authenticator, dispatcher)
	NewAuditService(dispatcher, zap.NewNop()).RegisterHandlers()

	return sessionFixture{
		users:      users,
		sessions:   NewSessionService(authenticator, dispatcher, observability.NewMetrics(), zap.NewNop()),
		cache:      cache,
		dispatcher: dispatcher,
	}
}

func TestSessionLoginAndLogoutEvents(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	user, err := f.users.Register(ctx, nil, RegisterInput{Username: "gina", Password: "pw"})
	require.NoError(t, err)

	issued, err := f.sessions.Login(ctx, "gina", "pw", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, issued.Identity.UserID)
	assert.Equal(t, domain.RoleStudent, issued.Identity.Role)
	assert.Equal(t, events.EventUserLoggedIn, f.dispatcher.last().Type)

	require.NoError(t, f.sessions.Logout(ctx, issued.Token, &issued.Identity))
	assert.Equal(t, events.EventUserLoggedOut, f.dispatcher.last().Type)
	assert.Equal(t, user.ID, f.dispatcher.last().UserID)

	_, err = f.cache.Get(ctx, issued.Token)
	assert.ErrorIs(t, err, auth.ErrCacheMiss)
}

func TestSessionLoginFailurePublishesAttempt(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	_, err := f.users.Register(ctx, nil, RegisterInput{Username: "hank", Password: "pw"})
	require.NoError(t, err)

	_, err = f.sessions.Login(ctx, "hank", "wrong", "10.0.0.2")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidCredentials, codeOf(err))

	last := f.dispatcher.last()
	assert.Equal(t, events.EventLoginFailed, last.Type)
	assert.Equal(t, events.LoginFailedPayload{Username: "hank", ClientIP: "10.0.0.2"}, last.Payload)
	assert.Equal(t, 0, f.cache.Len())
}

func TestDeletingUserRevokesSessions(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	user, err := f.users.Register(ctx, nil, RegisterInput{Username: "iris", Password: "pw"})
	require.NoError(t, err)
	first, err := f.sessions.Login(ctx, "iris", "pw", "")
	require.NoError(t, err)
	second, err := f.sessions.Login(ctx, "iris", "pw", "")
	require.NoError(t, err)

	require.NoError(t, f.users.Delete(ctx, nil, user.ID))

	for _, tok := range []string{first.Token, second.Token} {
		_, err := f.cache.Get(ctx, tok)
		assert.ErrorIs(t, err, auth.ErrCacheMiss)
	}
}

func TestRoleChangeKeepsIssuedSnapshot(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	user, err := f.users.Register(ctx, nil, RegisterInput{Username: "jack", Password: "pw"})
	require.NoError(t, err)
	issued, err := f.sessions.Login(ctx, "jack", "pw", "")
	require.NoError(t, err)

	_, err = f.users.UpdateRole(ctx, nil, user.ID, domain.RoleTeacher)
	require.NoError(t, err)

	session, err := f.cache.Get(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, session.Role)

	fresh, err := f.sessions.Login(ctx, "jack", "pw", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTeacher, fresh.Identity.Role)
}
