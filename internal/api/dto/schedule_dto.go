package dto

import (
	"time"

	"github.com/qslabs/sms-service/internal/domain"
)

// TimetableRequest payload for scheduling a class.
type TimetableRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
	TeacherID string `json:"teacher_id" validate:"required,uuid_any"`
	CourseID  string `json:"course_id" validate:"required,uuid_any"`
	Classroom string `json:"classroom" validate:"max=50"`
}

// TimetableResponse is the public view of a scheduled class.
type TimetableResponse struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	TeacherID string    `json:"teacher_id"`
	CourseID  string    `json:"course_id"`
	Classroom string    `json:"classroom"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CourseAssignmentRequest payload for linking an account to a course.
type CourseAssignmentRequest struct {
	CourseID string `json:"course_id" validate:"required,uuid_any"`
	UserID   string `json:"user_id" validate:"required,uuid_any"`
	Role     string `json:"role" validate:"required,role"`
}

// CourseAssignmentResponse is the public view of a course assignment.
type CourseAssignmentResponse struct {
	ID        string      `json:"id"`
	CourseID  string      `json:"course_id"`
	UserID    string      `json:"user_id"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
