package domain

import "time"

// AttendanceStatus marks whether an attendee was present on a given day.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
)

// Valid reports whether s is a known status.
func (s AttendanceStatus) Valid() bool {
	return s == AttendancePresent || s == AttendanceAbsent
}

// Attendance records one attendee in one course on one day.
type Attendance struct {
	ID        string
	UserID    string
	Role      Role
	CourseID  string
	Date      time.Time
	Status    AttendanceStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AttendanceSummary aggregates attendance per attendee, role and course.
type AttendanceSummary struct {
	UserID       string
	Role         Role
	CourseID     string
	TotalCount   int64
	PresentCount int64
	AbsentCount  int64
	Percentage   float64
}
