package service

import (
	"context"
	"time"

	"github.com/qslabs/sms-service/internal/domain"
	"github.com/qslabs/sms-service/internal/repository"
	apperrors "github.com/qslabs/sms-service/pkg/util/errorutil"
)

// StudentInput holds the writable student fields.
type StudentInput struct {
	UserID        *string
	FirstName     string
	LastName      string
	DateOfBirth   *time.Time
	Gender        string
	Address       string
	ContactNumber string
	Nationality   string
}

func (in StudentInput) applyTo(s *domain.Student) {
	s.UserID = in.UserID
	s.FirstName = in.FirstName
	s.LastName = in.LastName
	s.DateOfBirth = in.DateOfBirth
	s.Gender = in.Gender
	s.Address = in.Address
	s.ContactNumber = in.ContactNumber
	s.Nationality = in.Nationality
}

// StudentService manages student records.
type StudentService struct {
	students repository.StudentRepository
}

// NewStudentService constructs the service.
func NewStudentService(students repository.StudentRepository) *StudentService {
	return &StudentService{students: students}
}

func (s *StudentService) Create(ctx context.Context, input StudentInput) (*domain.Student, error) {
	student := &domain.Student{}
	input.applyTo(student)
	if err := s.students.Create(ctx, student); err != nil {
		return nil, apperrors.MapError(err)
	}
	return student, nil
}

func (s *StudentService) Get(ctx context.Context, id string) (*domain.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "student", id)
	}
	return student, nil
}

func (s *StudentService) List(ctx context.Context, page repository.Page) ([]domain.Student, error) {
	students, err := s.students.List(ctx, page)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return students, nil
}

// Update overwrites every writable field of an existing student. A student
// caller may only edit the record linked to their own account.
func (s *StudentService) Update(ctx context.Context, actor *domain.Identity, id string, input StudentInput) (*domain.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "student", id)
	}
	if actor != nil && actor.Role == domain.RoleStudent {
		if student.UserID == nil || *student.UserID != actor.UserID {
			return nil, apperrors.NewForbidden("students may only edit their own record")
		}
		input.UserID = student.UserID
	}
	input.applyTo(student)
	if err := s.students.Update(ctx, student); err != nil {
		return nil, notFoundOr(err, "student", id)
	}
	return student, nil
}

func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.students.Delete(ctx, id); err != nil {
		return notFoundOr(err, "student", id)
	}
	return nil
}

func (s *StudentService) Count(ctx context.Context) (int64, error) {
	n, err := s.students.Count(ctx)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return n, nil
}
