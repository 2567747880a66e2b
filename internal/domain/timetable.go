package domain

import "time"

// TimetableEntry schedules one class session. StartTime and EndTime are
// wall-clock "HH:MM" values on Date.
type TimetableEntry struct {
	ID        string
	Date      time.Time
	StartTime string
	EndTime   string
	TeacherID string
	CourseID  string
	Classroom string
	CreatedAt time.Time
	UpdatedAt time.Time
}
