package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/qslabs/sms-service/internal/api/dto"
	"github.com/qslabs/sms-service/internal/domain"
	"github.com/qslabs/sms-service/internal/service"
)

// CourseAssignmentsHandler serves /api/courseassign.
type CourseAssignmentsHandler struct {
	service *service.CourseAssignmentService
}

// NewCourseAssignmentsHandler constructs handler.
func NewCourseAssignmentsHandler(assignmentService *service.CourseAssignmentService) *CourseAssignmentsHandler {
	return &CourseAssignmentsHandler{service: assignmentService}
}

// List GET /api/courseassign.
func (h *CourseAssignmentsHandler) List(c *fiber.Ctx) error {
	page, meta := parsePage(c)
	assignments, err := h.service.List(c.UserContext(), page)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": courseAssignmentResponses(assignments), "pagination": meta})
}

// Get GET /api/courseassign/:id.
func (h *CourseAssignmentsHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	assignment, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": courseAssignmentResponse(assignment)})
}

// ListByUser GET /api/courseassign/user/:id.
func (h *CourseAssignmentsHandler) ListByUser(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	assignments, err := h.service.ListByUser(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": courseAssignmentResponses(assignments)})
}

// ListByCourse GET /api/courseassign/course/:id.
func (h *CourseAssignmentsHandler) ListByCourse(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	assignments, err := h.service.ListByCourse(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": courseAssignmentResponses(assignments)})
}

// Create POST /api/courseassign.
func (h *CourseAssignmentsHandler) Create(c *fiber.Ctx) error {
	input, err := bindCourseAssignment(c)
	if err != nil {
		return err
	}
	assignment, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": courseAssignmentResponse(assignment)})
}

// Update PUT /api/courseassign/:id.
func (h *CourseAssignmentsHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	input, err := bindCourseAssignment(c)
	if err != nil {
		return err
	}
	assignment, err := h.service.Update(c.UserContext(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": courseAssignmentResponse(assignment)})
}

// Delete DELETE /api/courseassign/:id.
func (h *CourseAssignmentsHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func bindCourseAssignment(c *fiber.Ctx) (service.CourseAssignmentInput, error) {
	var req dto.CourseAssignmentRequest
	if err := bind(c, &req); err != nil {
		return service.CourseAssignmentInput{}, err
	}
	role, _ := domain.ParseRole(req.Role)
	return service.CourseAssignmentInput{CourseID: req.CourseID, UserID: req.UserID, Role: role}, nil
}

func courseAssignmentResponses(assignments []domain.CourseAssignment) []dto.CourseAssignmentResponse {
	items := make([]dto.CourseAssignmentResponse, 0, len(assignments))
	for i := range assignments {
		items = append(items, courseAssignmentResponse(&assignments[i]))
	}
	return items
}

func courseAssignmentResponse(a *domain.CourseAssignment) dto.CourseAssignmentResponse {
	return dto.CourseAssignmentResponse{
		ID:        a.ID,
		CourseID:  a.CourseID,
		UserID:    a.UserID,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
