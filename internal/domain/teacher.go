package domain

import "time"

// TeacherStatus represents employment states for teaching staff.
type TeacherStatus string

const (
	TeacherStatusActive   TeacherStatus = "ACTIVE"
	TeacherStatusInactive TeacherStatus = "INACTIVE"
)

// Teacher models a member of the teaching staff.
type Teacher struct {
	ID          string
	UserID      *string
	Name        string
	Phone       string
	DateOfBirth *time.Time
	Gender      string
	Address     string
	JoiningDate *time.Time
	Status      TeacherStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
