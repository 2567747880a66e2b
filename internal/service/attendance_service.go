package service

import (
	"context"
	"math"
	"time"

	"github.com/qslabs/sms-service/internal/domain"
	"github.com/qslabs/sms-service/internal/repository"
	apperrors "github.com/qslabs/sms-service/pkg/util/errorutil"
)

// AttendanceInput holds the writable attendance fields.
type AttendanceInput struct {
	UserID   string
	Role     domain.Role
	CourseID string
	Date     time.Time
	Status   domain.AttendanceStatus
}

func (in AttendanceInput) validate() error {
	details := map[string]any{}
	if !in.Role.Valid() {
		details["role"] = string(in.Role)
	}
	if !in.Status.Valid() {
		details["status"] = string(in.Status)
	}
	if in.Date.IsZero() {
		details["date"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid attendance record", details)
	}
	return nil
}

func (in AttendanceInput) applyTo(a *domain.Attendance) {
	a.UserID = in.UserID
	a.Role = in.Role
	a.CourseID = in.CourseID
	a.Date = truncateDay(in.Date)
	a.Status = in.Status
}

// SummaryQuery scopes an attendance summary. From and To are inclusive days.
type SummaryQuery struct {
	From     time.Time
	To       time.Time
	CourseID *string
	Role     *domain.Role
}

// AttendanceService records and aggregates attendance.
type AttendanceService struct {
	attendance repository.AttendanceRepository
}

// NewAttendanceService constructs the service.
func NewAttendanceService(attendance repository.AttendanceRepository) *AttendanceService {
	return &AttendanceService{attendance: attendance}
}

func (s *AttendanceService) Create(ctx context.Context, input AttendanceInput) (*domain.Attendance, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	record := &domain.Attendance{}
	input.applyTo(record)
	if err := s.attendance.Create(ctx, record); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, duplicateAttendance(input)
		}
		return nil, apperrors.MapError(err)
	}
	return record, nil
}

func (s *AttendanceService) Get(ctx context.Context, id string) (*domain.Attendance, error) {
	record, err := s.attendance.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "attendance", id)
	}
	return record, nil
}

func (s *AttendanceService) Update(ctx context.Context, id string, input AttendanceInput) (*domain.Attendance, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	record, err := s.attendance.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "attendance", id)
	}
	input.applyTo(record)
	if err := s.attendance.Update(ctx, record); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, duplicateAttendance(input)
		}
		return nil, notFoundOr(err, "attendance", id)
	}
	return record, nil
}

func (s *AttendanceService) Delete(ctx context.Context, id string) error {
	if err := s.attendance.Delete(ctx, id); err != nil {
		return notFoundOr(err, "attendance", id)
	}
	return nil
}

// List returns records matching filter, newest day first.
func (s *AttendanceService) List(ctx context.Context, filter repository.AttendanceFilter) ([]domain.Attendance, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, apperrors.NewValidationError("date range end precedes start", nil)
	}
	records, err := s.attendance.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

// ListByUser is List scoped to one attendee.
func (s *AttendanceService) ListByUser(ctx context.Context, userID string, from, to *time.Time, page repository.Page) ([]domain.Attendance, error) {
	return s.List(ctx, repository.AttendanceFilter{UserID: &userID, From: from, To: to, Limit: page.Limit, Offset: page.Offset})
}

// ListByCourse is List scoped to one course.
func (s *AttendanceService) ListByCourse(ctx context.Context, courseID string, page repository.Page) ([]domain.Attendance, error) {
	return s.List(ctx, repository.AttendanceFilter{CourseID: &courseID, Limit: page.Limit, Offset: page.Offset})
}

// Summary groups records by attendee, role and course.
func (s *AttendanceService) Summary(ctx context.Context, query SummaryQuery) ([]domain.AttendanceSummary, error) {
	if query.From.IsZero() || query.To.IsZero() {
		return nil, apperrors.NewValidationError("summary needs both from and to", nil)
	}
	if query.To.Before(query.From) {
		return nil, apperrors.NewValidationError("date range end precedes start", nil)
	}
	if query.Role != nil && !query.Role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": string(*query.Role)})
	}
	rows, err := s.attendance.Summary(ctx, repository.SummaryFilter{
		From:     truncateDay(query.From),
		To:       truncateDay(query.To),
		CourseID: query.CourseID,
		Role:     query.Role,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	out := make([]domain.AttendanceSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, summarize(row))
	}
	return out, nil
}

func summarize(row repository.SummaryRow) domain.AttendanceSummary {
	summary := domain.AttendanceSummary{
		UserID:       row.UserID,
		Role:         row.Role,
		CourseID:     row.CourseID,
		TotalCount:   row.TotalCount,
		PresentCount: row.PresentCount,
		AbsentCount:  row.TotalCount - row.PresentCount,
	}
	if row.TotalCount > 0 {
		pct := float64(row.PresentCount) / float64(row.TotalCount) * 100
		summary.Percentage = math.Round(pct*100) / 100
	}
	return summary
}

func duplicateAttendance(input AttendanceInput) error {
	return apperrors.NewConflict("attendance already recorded for this day", map[string]any{
		"user_id":   input.UserID,
		"course_id": input.CourseID,
		"date":      input.Date.Format(time.DateOnly),
	})
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
