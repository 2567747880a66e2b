package dto

import (
	"time"

	"github.com/qslabs/sms-service/internal/domain"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// StudentRequest payload for creating or replacing a student.
type StudentRequest struct {
	UserID        *string `json:"user_id" validate:"omitempty,uuid_any"`
	FirstName     string  `json:"first_name" validate:"required,notblank,max=100"`
	LastName      string  `json:"last_name" validate:"required,notblank,max=100"`
	DateOfBirth   string  `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender        string  `json:"gender" validate:"max=20"`
	Address       string  `json:"address" validate:"max=255"`
	ContactNumber string  `json:"contact_number" validate:"max=30"`
	Nationality   string  `json:"nationality" validate:"max=60"`
}

// StudentResponse is the public view of a student.
type StudentResponse struct {
	ID            string    `json:"id"`
	UserID        *string   `json:"user_id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	DateOfBirth   *string   `json:"date_of_birth"`
	Gender        string    `json:"gender"`
	Address       string    `json:"address"`
	ContactNumber string    `json:"contact_number"`
	Nationality   string    `json:"nationality"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TeacherRequest payload for creating or replacing a teacher.
type TeacherRequest struct {
	UserID      *string `json:"user_id" validate:"omitempty,uuid_any"`
	Name        string  `json:"name" validate:"required,notblank,max=150"`
	Phone       string  `json:"phone" validate:"max=30"`
	DateOfBirth string  `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender      string  `json:"gender" validate:"max=20"`
	Address     string  `json:"address" validate:"max=255"`
	JoiningDate string  `json:"joining_date" validate:"omitempty,datetime=2006-01-02"`
	Status      string  `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

// TeacherResponse is the public view of a teacher.
type TeacherResponse struct {
	ID          string               `json:"id"`
	UserID      *string              `json:"user_id"`
	Name        string               `json:"name"`
	Phone       string               `json:"phone"`
	DateOfBirth *string              `json:"date_of_birth"`
	Gender      string               `json:"gender"`
	Address     string               `json:"address"`
	JoiningDate *string              `json:"joining_date"`
	Status      domain.TeacherStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// CourseRequest payload for creating or replacing a course.
type CourseRequest struct {
	Code        string `json:"code" validate:"required,notblank,max=20"`
	Name        string `json:"name" validate:"required,notblank,max=150"`
	Credits     int    `json:"credits" validate:"gte=0"`
	Duration    int    `json:"duration" validate:"gte=0"`
	Description string `json:"description" validate:"max=2000"`
}

// CourseResponse is the public view of a course.
type CourseResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Credits     int       `json:"credits"`
	Duration    int       `json:"duration"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AttendanceRequest payload for recording attendance.
type AttendanceRequest struct {
	UserID   string `json:"user_id" validate:"required,uuid_any"`
	Role     string `json:"role" validate:"required,role"`
	CourseID string `json:"course_id" validate:"required,uuid_any"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Status   string `json:"status" validate:"required,oneof=PRESENT ABSENT"`
}

// AttendanceResponse is the public view of an attendance record.
type AttendanceResponse struct {
	ID        string                  `json:"id"`
	UserID    string                  `json:"user_id"`
	Role      domain.Role             `json:"role"`
	CourseID  string                  `json:"course_id"`
	Date      string                  `json:"date"`
	Status    domain.AttendanceStatus `json:"status"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// AttendanceSummaryQuery is bound from GET /api/attendance/summary.
type AttendanceSummaryQuery struct {
	From     string `query:"from" validate:"required,datetime=2006-01-02"`
	To       string `query:"to" validate:"required,datetime=2006-01-02"`
	CourseID string `query:"courseId" validate:"omitempty,uuid_any"`
	Role     string `query:"role" validate:"omitempty,role"`
}

// AttendanceSummaryResponse is one aggregated row.
type AttendanceSummaryResponse struct {
	UserID       string      `json:"user_id"`
	Role         domain.Role `json:"role"`
	CourseID     string      `json:"course_id"`
	TotalCount   int64       `json:"total_count"`
	PresentCount int64       `json:"present_count"`
	AbsentCount  int64       `json:"absent_count"`
	Percentage   float64     `json:"percentage"`
}
