package dto

import (
	"time"

	"github.com/qslabs/sms-service/internal/domain"
)

// RegisterRequest payload for POST /api/users/signin.
type RegisterRequest struct {
	Username string  `json:"username" validate:"required,notblank,min=3,max=64"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password string  `json:"password" validate:"required,min=6,max=72"`
	Role     *string `json:"role" validate:"omitempty,role"`
}

// LoginRequest payload for POST /api/users/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

// LogoutRequest optionally carries the token in the body instead of the header.
type LogoutRequest struct {
	Token string `json:"token"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token     string      `json:"token"`
	UserID    string      `json:"user_id"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// UpdateUsernameRequest renames an account.
type UpdateUsernameRequest struct {
	UserID   string `json:"user_id" validate:"required,uuid_any"`
	Username string `json:"username" validate:"required,notblank,min=3,max=64"`
}

// UpdateEmailRequest changes or clears the contact email.
type UpdateEmailRequest struct {
	UserID string  `json:"user_id" validate:"required,uuid_any"`
	Email  *string `json:"email" validate:"omitempty,email,max=255"`
}

// UpdatePasswordRequest sets a new password.
type UpdatePasswordRequest struct {
	UserID   string `json:"user_id" validate:"required,uuid_any"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// UpdateRoleRequest changes an account role.
type UpdateRoleRequest struct {
	UserID string `json:"user_id" validate:"required,uuid_any"`
	Role   string `json:"role" validate:"required,role"`
}

// DeleteUserRequest identifies the account to remove.
type DeleteUserRequest struct {
	UserID string `json:"user_id" validate:"required,uuid_any"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Email     *string     `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// IdentityResponse describes the caller behind the current token.
type IdentityResponse struct {
	UserID   string      `json:"user_id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// Pagination metadata for list endpoints.
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total,omitempty"`
}
