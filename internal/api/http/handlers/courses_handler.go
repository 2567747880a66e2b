package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/qslabs/sms-service/internal/api/dto"
	"github.com/qslabs/sms-service/internal/domain"
	"github.com/qslabs/sms-service/internal/service"
)

// CoursesHandler serves /api/courses.
type CoursesHandler struct {
	service *service.CourseService
}

// NewCoursesHandler constructs handler.
func NewCoursesHandler(courseService *service.CourseService) *CoursesHandler {
	return &CoursesHandler{service: courseService}
}

// List GET /api/courses.
func (h *CoursesHandler) List(c *fiber.Ctx) error {
	page, meta := parsePage(c)
	courses, err := h.service.List(c.UserContext(), page)
	if err != nil {
		return err
	}
	items := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		items = append(items, courseResponse(&courses[i]))
	}
	return c.JSON(fiber.Map{"data": items, "pagination": meta})
}

// Get GET /api/courses/:id.
func (h *CoursesHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	course, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": courseResponse(course)})
}

// Create POST /api/courses.
func (h *CoursesHandler) Create(c *fiber.Ctx) error {
	var req dto.CourseRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	course, err := h.service.Create(c.UserContext(), courseInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": courseResponse(course)})
}

// Update PUT /api/courses/:id.
func (h *CoursesHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req dto.CourseRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	course, err := h.service.Update(c.UserContext(), id, courseInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": courseResponse(course)})
}

// Delete DELETE /api/courses/:id.
func (h *CoursesHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Count GET /api/courses/count.
func (h *CoursesHandler) Count(c *fiber.Ctx) error {
	n, err := h.service.Count(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"count": n}})
}

func courseInput(req dto.CourseRequest) service.CourseInput {
	return service.CourseInput{
		Code:        req.Code,
		Name:        req.Name,
		Credits:     req.Credits,
		Duration:    req.Duration,
		Description: req.Description,
	}
}

func courseResponse(course *domain.Course) dto.CourseResponse {
	return dto.CourseResponse{
		ID:          course.ID,
		Code:        course.Code,
		Name:        course.Name,
		Credits:     course.Credits,
		Duration:    course.Duration,
		Description: course.Description,
		CreatedAt:   course.CreatedAt,
		UpdatedAt:   course.UpdatedAt,
	}
}
