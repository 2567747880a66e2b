package service

import (
	"context"
	"time"

	"github.com/qslabs/sms-service/internal/domain"
	"github.com/qslabs/sms-service/internal/repository"
	apperrors "github.com/qslabs/sms-service/pkg/util/errorutil"
)

// ClockLayout is the wall-clock format of timetable start and end times.
const ClockLayout = "15:04"

// TimetableInput holds the writable timetable fields.
type TimetableInput struct {
	Date      time.Time
	StartTime string
	EndTime   string
	TeacherID string
	CourseID  string
	Classroom string
}

func (in TimetableInput) validate() error {
	details := map[string]any{}
	if in.Date.IsZero() {
		details["date"] = "required"
	}
	start, err := time.Parse(ClockLayout, in.StartTime)
	if err != nil {
		details["start_time"] = in.StartTime
	}
	end, err := time.Parse(ClockLayout, in.EndTime)
	if err != nil {
		details["end_time"] = in.EndTime
	}
	if len(details) == 0 && !end.After(start) {
		details["end_time"] = "must be after start_time"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid timetable entry", details)
	}
	return nil
}

func (in TimetableInput) applyTo(e *domain.TimetableEntry) {
	e.Date = truncateDay(in.Date)
	e.StartTime = in.StartTime
	e.EndTime = in.EndTime
	e.TeacherID = in.TeacherID
	e.CourseID = in.CourseID
	e.Classroom = in.Classroom
}

// TimetableService manages the class schedule.
type TimetableService struct {
	entries repository.TimetableRepository
	now     func() time.Time
}

// NewTimetableService constructs the service.
func NewTimetableService(entries repository.TimetableRepository) *TimetableService {
	return &TimetableService{entries: entries, now: time.Now}
}

func (s *TimetableService) Create(ctx context.Context, input TimetableInput) (*domain.TimetableEntry, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	entry := &domain.TimetableEntry{}
	input.applyTo(entry)
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, apperrors.MapError(err)
	}
	return entry, nil
}

func (s *TimetableService) Get(ctx context.Context, id string) (*domain.TimetableEntry, error) {
	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "timetable", id)
	}
	return entry, nil
}

func (s *TimetableService) List(ctx context.Context, page repository.Page) ([]domain.TimetableEntry, error) {
	entries, err := s.entries.List(ctx, page)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func (s *TimetableService) Update(ctx context.Context, id string, input TimetableInput) (*domain.TimetableEntry, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "timetable", id)
	}
	input.applyTo(entry)
	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, notFoundOr(err, "timetable", id)
	}
	return entry, nil
}

func (s *TimetableService) Delete(ctx context.Context, id string) error {
	if err := s.entries.Delete(ctx, id); err != nil {
		return notFoundOr(err, "timetable", id)
	}
	return nil
}

// CountToday returns how many classes are scheduled for the current UTC day.
func (s *TimetableService) CountToday(ctx context.Context) (int64, error) {
	n, err := s.entries.CountOn(ctx, truncateDay(s.now()))
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return n, nil
}
