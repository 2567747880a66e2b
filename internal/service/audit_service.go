package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/qslabs/sms-service/internal/events"
)

// AuditService writes account and session events to the log.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, t := range []events.EventType{
		events.EventUserRegistered,
		events.EventUserLoggedIn,
		events.EventUserLoggedOut,
		events.EventLoginFailed,
		events.EventUserRoleChanged,
		events.EventUserDeleted,
	} {
		a.dispatcher.Subscribe(t, a.record)
	}
}

func (a *AuditService) record(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event", string(event.Type)),
		zap.Time("at", event.Timestamp),
	}
	if event.UserID != "" {
		fields = append(fields, zap.String("user_id", event.UserID))
	}
	if event.Actor != nil {
		fields = append(fields,
			zap.String("actor_id", event.Actor.UserID),
			zap.String("actor_role", string(event.Actor.Role)))
	}
	if event.Payload != nil {
		fields = append(fields, zap.Any("payload", event.Payload))
	}

	if event.Type == events.EventLoginFailed {
		a.logger.Warn("audit", fields...)
		return nil
	}
	a.logger.Info("audit", fields...)
	return nil
}
