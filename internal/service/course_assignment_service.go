package service

import (
	"context"

	"github.com/qslabs/sms-service/internal/domain"
	"github.com/qslabs/sms-service/internal/repository"
	apperrors "github.com/qslabs/sms-service/pkg/util/errorutil"
)

// CourseAssignmentInput holds the writable assignment fields.
type CourseAssignmentInput struct {
	CourseID string
	UserID   string
	Role     domain.Role
}

func (in CourseAssignmentInput) validate() error {
	if in.Role != domain.RoleTeacher && in.Role != domain.RoleStudent {
		return apperrors.NewValidationError("courses are assigned to teachers or students",
			map[string]any{"role": string(in.Role)})
	}
	return nil
}

func (in CourseAssignmentInput) applyTo(a *domain.CourseAssignment) {
	a.CourseID = in.CourseID
	a.UserID = in.UserID
	a.Role = in.Role
}

// CourseAssignmentService links accounts to the courses they teach or take.
type CourseAssignmentService struct {
	assignments repository.CourseAssignmentRepository
}

// NewCourseAssignmentService constructs the service.
func NewCourseAssignmentService(assignments repository.CourseAssignmentRepository) *CourseAssignmentService {
	return &CourseAssignmentService{assignments: assignments}
}

func (s *CourseAssignmentService) Create(ctx context.Context, input CourseAssignmentInput) (*domain.CourseAssignment, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	assignment := &domain.CourseAssignment{}
	input.applyTo(assignment)
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, duplicateAssignment(err, input)
	}
	return assignment, nil
}

func (s *CourseAssignmentService) Get(ctx context.Context, id string) (*domain.CourseAssignment, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "course assignment", id)
	}
	return assignment, nil
}

func (s *CourseAssignmentService) List(ctx context.Context, page repository.Page) ([]domain.CourseAssignment, error) {
	assignments, err := s.assignments.List(ctx, page)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return assignments, nil
}

func (s *CourseAssignmentService) ListByUser(ctx context.Context, userID string) ([]domain.CourseAssignment, error) {
	assignments, err := s.assignments.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return assignments, nil
}

func (s *CourseAssignmentService) ListByCourse(ctx context.Context, courseID string) ([]domain.CourseAssignment, error) {
	assignments, err := s.assignments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return assignments, nil
}

func (s *CourseAssignmentService) Update(ctx context.Context, id string, input CourseAssignmentInput) (*domain.CourseAssignment, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "course assignment", id)
	}
	input.applyTo(assignment)
	if err := s.assignments.Update(ctx, assignment); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, duplicateAssignment(err, input)
		}
		return nil, notFoundOr(err, "course assignment", id)
	}
	return assignment, nil
}

func (s *CourseAssignmentService) Delete(ctx context.Context, id string) error {
	if err := s.assignments.Delete(ctx, id); err != nil {
		return notFoundOr(err, "course assignment", id)
	}
	return nil
}

func duplicateAssignment(err error, input CourseAssignmentInput) error {
	if apperrors.IsUniqueViolation(err) {
		return apperrors.NewConflict("user is already assigned to this course",
			map[string]any{"course_id": input.CourseID, "user_id": input.UserID})
	}
	return apperrors.MapError(err)
}
