package domain

import "time"

// User is a stored credential: the subject that can log in and the role it acts with.
type User struct {
	ID           string
	Username     string
	Email        *string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
