package service

import (
	"context"

	"github.com/qslabs/sms-service/internal/domain"
	"github.com/qslabs/sms-service/internal/repository"
	apperrors "github.com/qslabs/sms-service/pkg/util/errorutil"
)

// CourseInput holds the writable course fields.
type CourseInput struct {
	Code        string
	Name        string
	Credits     int
	Duration    int
	Description string
}

func (in CourseInput) applyTo(c *domain.Course) {
	c.Code = in.Code
	c.Name = in.Name
	c.Credits = in.Credits
	c.Duration = in.Duration
	c.Description = in.Description
}

// CourseService manages the course catalogue.
type CourseService struct {
	courses repository.CourseRepository
}

// NewCourseService constructs the service.
func NewCourseService(courses repository.CourseRepository) *CourseService {
	return &CourseService{courses: courses}
}

func (s *CourseService) Create(ctx context.Context, input CourseInput) (*domain.Course, error) {
	course := &domain.Course{}
	input.applyTo(course)
	if err := s.courses.Create(ctx, course); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("course code already exists", map[string]any{"code": input.Code})
		}
		return nil, apperrors.MapError(err)
	}
	return course, nil
}

func (s *CourseService) Get(ctx context.Context, id string) (*domain.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "course", id)
	}
	return course, nil
}

func (s *CourseService) List(ctx context.Context, page repository.Page) ([]domain.Course, error) {
	courses, err := s.courses.List(ctx, page)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return courses, nil
}

func (s *CourseService) Update(ctx context.Context, id string, input CourseInput) (*domain.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "course", id)
	}
	input.applyTo(course)
	if err := s.courses.Update(ctx, course); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("course code already exists", map[string]any{"code": input.Code})
		}
		return nil, notFoundOr(err, "course", id)
	}
	return course, nil
}

func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		return notFoundOr(err, "course", id)
	}
	return nil
}

func (s *CourseService) Count(ctx context.Context) (int64, error) {
	n, err := s.courses.Count(ctx)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return n, nil
}
