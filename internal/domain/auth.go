package domain

import "time"

// Identity is the authenticated caller attached to a single request.
type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Session is what the token cache holds for an issued token. Role is a
// snapshot taken at login.
type Session struct {
	Identity
	IssuedAt time.Time `json:"issued_at"`
}

// IssuedToken is returned to a caller after a successful login.
type IssuedToken struct {
	Token     string
	Identity  Identity
	ExpiresAt time.Time
}
