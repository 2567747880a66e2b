package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/qslabs/sms-service/internal/auth"
	"github.com/qslabs/sms-service/internal/config"
	"github.com/qslabs/sms-service/internal/domain"
	"github.com/qslabs/sms-service/internal/events"
	"github.com/qslabs/sms-service/internal/repository"
	apperrors "github.com/qslabs/sms-service/pkg/util/errorutil"
)

// RegisterInput carries a new account request.
type RegisterInput struct {
	Username string
	Email    *string
	Password string
	Role     *domain.Role
}

// UserService manages login accounts.
type UserService struct {
	users      repository.UserRepository
	revoker    auth.SessionRevoker
	dispatcher events.Dispatcher
	bcryptCost int
	now        func() time.Time
}

// NewUserService builds the service. The revoker drops the live sessions of
// deleted accounts.
func NewUserService(cfg config.AuthConfig, users repository.UserRepository, revoker auth.SessionRevoker, dispatcher events.Dispatcher) *UserService {
	return &UserService{
		users:      users,
		revoker:    revoker,
		dispatcher: dispatcher,
		bcryptCost: cfg.BcryptCost,
		now:        time.Now,
	}
}

// Register creates an account. Only an admin actor may hand out ADMIN or
// TEACHER; everyone else gets STUDENT unless they ask for PARENT.
func (s *UserService) Register(ctx context.Context, actor *domain.Identity, input RegisterInput) (*domain.User, error) {
	role, err := registrationRole(actor, input.Role)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewConflict("username already taken", map[string]any{"username": username})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Username:     username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("username already taken", map[string]any{"username": username})
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, actor, nil)
	return user, nil
}

func registrationRole(actor *domain.Identity, requested *domain.Role) (domain.Role, error) {
	if requested == nil {
		return domain.RoleStudent, nil
	}
	if !requested.Valid() {
		return "", apperrors.NewValidationError("unknown role", map[string]any{"role": string(*requested)})
	}
	if !requested.RequiresAdmin() {
		return *requested, nil
	}
	if actor == nil || actor.Role != domain.RoleAdmin {
		return "", apperrors.NewForbidden("only an admin may assign this role")
	}
	return *requested, nil
}

// EnsureAdmin creates the bootstrap admin when no account has that username.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string, email *string) (bool, error) {
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return false, nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return false, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return false, err
	}
	user := &domain.User{Username: username, Email: email, PasswordHash: hash, Role: domain.RoleAdmin}
	if err := s.users.Create(ctx, user); err != nil {
		return false, err
	}
	s.publish(ctx, events.EventUserRegistered, user.ID, nil, nil)
	return true, nil
}

// Get returns one user.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user", id)
	}
	return user, nil
}

// List returns a page of users and the total count.
func (s *UserService) List(ctx context.Context, page repository.Page) ([]domain.User, int64, error) {
	users, err := s.users.List(ctx, page)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return users, total, nil
}

// UpdateUsername renames an account. Outstanding tokens keep the old name
// until they expire.
func (s *UserService) UpdateUsername(ctx context.Context, id, username string) (*domain.User, error) {
	return s.mutate(ctx, id, func(u *domain.User) error {
		u.Username = strings.TrimSpace(username)
		return nil
	})
}

// UpdateEmail changes the contact address.
func (s *UserService) UpdateEmail(ctx context.Context, id string, email *string) (*domain.User, error) {
	return s.mutate(ctx, id, func(u *domain.User) error {
		u.Email = email
		return nil
	})
}

// UpdatePassword stores a new bcrypt hash.
func (s *UserService) UpdatePassword(ctx context.Context, id, password string) (*domain.User, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return s.mutate(ctx, id, func(u *domain.User) error {
		u.PasswordHash = hash
		return nil
	})
}

// UpdateRole changes the role. Tokens issued earlier keep their snapshot role.
func (s *UserService) UpdateRole(ctx context.Context, actor *domain.Identity, id string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": string(role)})
	}
	var old domain.Role
	user, err := s.mutate(ctx, id, func(u *domain.User) error {
		old = u.Role
		u.Role = role
		return nil
	})
	if err != nil {
		return nil, err
	}
	if old != role {
		s.publish(ctx, events.EventUserRoleChanged, id, actor, events.RoleChangedPayload{OldRole: old, NewRole: role})
	}
	return user, nil
}

// Delete removes the account and revokes its live sessions. A revocation
// failure is reported as CACHE_UNAVAILABLE. Revocation runs before the delete,
// so a retry still clears the sessions when the account is already gone.
func (s *UserService) Delete(ctx context.Context, actor *domain.Identity, id string) error {
	if err := s.revoke(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return notFoundOr(err, "user", id)
	}
	// Catch sessions issued between the first revocation and the delete.
	if err := s.revoke(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.EventUserDeleted, id, actor, nil)
	return nil
}

func (s *UserService) revoke(ctx context.Context, id string) error {
	if s.revoker == nil {
		return nil
	}
	if err := s.revoker.RevokeUser(ctx, id); err != nil {
		return apperrors.NewCacheUnavailable(err)
	}
	return nil
}

func (s *UserService) mutate(ctx context.Context, id string, apply func(*domain.User) error) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user", id)
	}
	if err := apply(user); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("username already taken", map[string]any{"username": user.Username})
		}
		return nil, notFoundOr(err, "user", id)
	}
	return user, nil
}

func (s *UserService) publish(ctx context.Context, eventType events.EventType, userID string, actor *domain.Identity, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Actor:     actor,
		Timestamp: s.now(),
		Payload:   payload,
	})
}

func notFoundOr(err error, resource, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return apperrors.MapError(err)
}
