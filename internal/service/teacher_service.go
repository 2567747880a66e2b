package service

import (
	"context"
	"time"

	"github.com/qslabs/sms-service/internal/domain"
	"github.com/qslabs/sms-service/internal/repository"
	apperrors "github.com/qslabs/sms-service/pkg/util/errorutil"
)

// TeacherInput holds the writable teacher fields.
type TeacherInput struct {
	UserID      *string
	Name        string
	Phone       string
	DateOfBirth *time.Time
	Gender      string
	Address     string
	JoiningDate *time.Time
	Status      domain.TeacherStatus
}

func (in TeacherInput) applyTo(t *domain.Teacher) {
	t.UserID = in.UserID
	t.Name = in.Name
	t.Phone = in.Phone
	t.DateOfBirth = in.DateOfBirth
	t.Gender = in.Gender
	t.Address = in.Address
	t.JoiningDate = in.JoiningDate
	t.Status = in.Status
	if t.Status == "" {
		t.Status = domain.TeacherStatusActive
	}
}

// TeacherService manages teaching staff records.
type TeacherService struct {
	teachers repository.TeacherRepository
}

// NewTeacherService constructs the service.
func NewTeacherService(teachers repository.TeacherRepository) *TeacherService {
	return &TeacherService{teachers: teachers}
}

func (s *TeacherService) Create(ctx context.Context, input TeacherInput) (*domain.Teacher, error) {
	teacher := &domain.Teacher{}
	input.applyTo(teacher)
	if err := s.teachers.Create(ctx, teacher); err != nil {
		return nil, apperrors.MapError(err)
	}
	return teacher, nil
}

func (s *TeacherService) Get(ctx context.Context, id string) (*domain.Teacher, error) {
	teacher, err := s.teachers.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "teacher", id)
	}
	return teacher, nil
}

// GetByUser finds the teacher record linked to a login account.
func (s *TeacherService) GetByUser(ctx context.Context, userID string) (*domain.Teacher, error) {
	teacher, err := s.teachers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "teacher", userID)
	}
	return teacher, nil
}

func (s *TeacherService) List(ctx context.Context, page repository.Page) ([]domain.Teacher, error) {
	teachers, err := s.teachers.List(ctx, page)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return teachers, nil
}

// Update overwrites every writable field. A teacher caller may only edit the
// record linked to their own account.
func (s *TeacherService) Update(ctx context.Context, actor *domain.Identity, id string, input TeacherInput) (*domain.Teacher, error) {
	teacher, err := s.teachers.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "teacher", id)
	}
	if actor != nil && actor.Role == domain.RoleTeacher {
		if teacher.UserID == nil || *teacher.UserID != actor.UserID {
			return nil, apperrors.NewForbidden("teachers may only edit their own record")
		}
		// the link to the account is not theirs to change
		input.UserID = teacher.UserID
	}
	input.applyTo(teacher)
	if err := s.teachers.Update(ctx, teacher); err != nil {
		return nil, notFoundOr(err, "teacher", id)
	}
	return teacher, nil
}

func (s *TeacherService) Delete(ctx context.Context, id string) error {
	if err := s.teachers.Delete(ctx, id); err != nil {
		return notFoundOr(err, "teacher", id)
	}
	return nil
}
