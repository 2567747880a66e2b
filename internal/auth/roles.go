package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/qslabs/sms-service/internal/domain"
	"github.com/qslabs/sms-service/internal/observability"
	apperrors "github.com/qslabs/sms-service/pkg/util/errorutil"
)

// Access declares who may call an endpoint. The zero value is invalid so a
// route cannot be registered without a decision.
type Access struct {
	declared bool
	public   bool
	roles    map[domain.Role]struct{}
}

// Public allows anonymous callers.
func Public() Access {
	return Access{declared: true, public: true}
}

// Allow restricts an endpoint to the given roles.
func Allow(roles ...domain.Role) Access {
	set := make(map[domain.Role]struct{}, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return Access{declared: true, roles: set}
}

// Authenticated allows any known role.
func Authenticated() Access {
	return Allow(domain.Roles...)
}

// Validate rejects undeclared access and unknown or empty role sets.
func (a Access) Validate() error {
	if !a.declared {
		return errors.New("access not declared")
	}
	if a.public {
		return nil
	}
	if len(a.roles) == 0 {
		return errors.New("empty role set; use Public() for anonymous endpoints")
	}
	for role := range a.roles {
		if !role.Valid() {
			return fmt.Errorf("unknown role %q", role)
		}
	}
	return nil
}

// IsPublic reports whether anonymous callers pass.
func (a Access) IsPublic() bool {
	return a.public
}

// Permits reports whether the role may pass.
func (a Access) Permits(role domain.Role) bool {
	if a.public {
		return true
	}
	_, ok := a.roles[role]
	return ok
}

func (a Access) String() string {
	if a.public {
		return "public"
	}
	labels := make([]string, 0, len(a.roles))
	for _, role := range domain.Roles {
		if _, ok := a.roles[role]; ok {
			labels = append(labels, string(role))
		}
	}
	return strings.Join(labels, ",")
}

// Require enforces access on the resolved route. No identity yields 401, or
// 503 when the token cache could not be reached; a wrong role yields 403.
func Require(access Access, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if access.IsPublic() {
			return c.Next()
		}
		route := c.Route().Path

		identity, ok := IdentityFromContext(c)
		if !ok {
			if CacheFailed(c) {
				metrics.RecordGateDecision(route, "", "unavailable")
				return apperrors.NewCacheUnavailable(ErrCacheUnavailable)
			}
			metrics.RecordGateDecision(route, "", "unauthenticated")
			return apperrors.NewUnauthorized("authentication required")
		}
		if !access.Permits(identity.Role) {
			metrics.RecordGateDecision(route, string(identity.Role), "forbidden")
			return apperrors.NewForbidden("insufficient role")
		}
		metrics.RecordGateDecision(route, string(identity.Role), "allowed")
		return c.Next()
	}
}

// RequireSelfOrAdmin lets admins act on anyone and others only on their own user id.
func RequireSelfOrAdmin(c *fiber.Ctx, userID string) (*domain.Identity, error) {
	identity, ok := IdentityFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if identity.Role != domain.RoleAdmin && identity.UserID != userID {
		return nil, apperrors.NewForbidden("may only modify own account")
	}
	return identity, nil
}
