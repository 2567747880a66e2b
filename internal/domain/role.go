package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of labels that gate endpoint access.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
	RoleParent  Role = "PARENT"
)

// Roles lists every known role.
var Roles = []Role{RoleAdmin, RoleTeacher, RoleStudent, RoleParent}

// ParseRole validates a free-text label. Matching is case-insensitive and a
// leading "ROLE_" is tolerated.
func ParseRole(label string) (Role, error) {
	normalized := strings.ToUpper(strings.TrimSpace(label))
	normalized = strings.TrimPrefix(normalized, "ROLE_")
	role := Role(normalized)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", label)
	}
	return role, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent, RoleParent:
		return true
	}
	return false
}

// RequiresAdmin reports whether only an admin may grant r to an account.
func (r Role) RequiresAdmin() bool {
	return r == RoleAdmin || r == RoleTeacher
}

func (r Role) String() string {
	return string(r)
}
