package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qslabs/sms-service/internal/auth"
	"github.com/qslabs/sms-service/internal/domain"
	"github.com/qslabs/sms-service/internal/events"
	"github.com/qslabs/sms-service/internal/observability"
	apperrors "github.com/qslabs/sms-service/pkg/util/errorutil"
)

// SessionService fronts the authenticator with events and metrics.
type SessionService struct {
	authenticator *auth.Authenticator
	dispatcher    events.Dispatcher
	metrics       *observability.Metrics
	logger        *zap.Logger
}

// NewSessionService constructs the service.
func NewSessionService(authenticator *auth.Authenticator, dispatcher events.Dispatcher, metrics *observability.Metrics, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{authenticator: authenticator, dispatcher: dispatcher, metrics: metrics, logger: logger}
}

// Login authenticates and issues a token.
func (s *SessionService) Login(ctx context.Context, username, password, clientIP string) (*domain.IssuedToken, error) {
	issued, err := s.authenticator.Login(ctx, username, password)
	if err != nil {
		de := apperrors.ToDomainError(err)
		if de.Code == apperrors.CodeInvalidCredentials {
			s.metrics.RecordLogin("invalid_credentials")
			s.publish(ctx, events.Event{
				Type:    events.EventLoginFailed,
				Payload: events.LoginFailedPayload{Username: username, ClientIP: clientIP},
			})
		} else {
			s.metrics.RecordLogin("error")
			s.logger.Error("login failed", zap.String("code", de.Code), zap.Error(err))
		}
		return nil, err
	}

	s.metrics.RecordLogin("success")
	identity := issued.Identity
	s.publish(ctx, events.Event{Type: events.EventUserLoggedIn, UserID: identity.UserID, Actor: &identity})
	return issued, nil
}

// Logout deletes the token. Repeating it is harmless.
func (s *SessionService) Logout(ctx context.Context, token string, actor *domain.Identity) error {
	if err := s.authenticator.Logout(ctx, token); err != nil {
		return err
	}
	event := events.Event{Type: events.EventUserLoggedOut, Actor: actor}
	if actor != nil {
		event.UserID = actor.UserID
	}
	s.publish(ctx, event)
	return nil
}

func (s *SessionService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}
