package events

import (
	"time"

	"github.com/qslabs/sms-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered  EventType = "user_registered"
	EventUserLoggedIn    EventType = "user_logged_in"
	EventUserLoggedOut   EventType = "user_logged_out"
	EventLoginFailed     EventType = "login_failed"
	EventUserRoleChanged EventType = "user_role_changed"
	EventUserDeleted     EventType = "user_deleted"
)

// Event represents an account or session change emitted by services.
type Event struct {
	ID        string           `json:"id"`
	Type      EventType        `json:"type"`
	UserID    string           `json:"user_id,omitempty"`
	Actor     *domain.Identity `json:"actor,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Payload   any              `json:"payload,omitempty"`
}

// LoginFailedPayload carries the attempted username and client address.
type LoginFailedPayload struct {
	Username string `json:"username"`
	ClientIP string `json:"client_ip"`
}

// RoleChangedPayload records a role transition.
type RoleChangedPayload struct {
	OldRole domain.Role `json:"old_role"`
	NewRole domain.Role `json:"new_role"`
}
