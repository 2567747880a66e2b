package domain

import "time"

// CourseAssignment links an account to a course as teacher or student.
type CourseAssignment struct {
	ID        string
	CourseID  string
	UserID    string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
