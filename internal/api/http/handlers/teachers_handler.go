package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/qslabs/sms-service/internal/api/dto"
	"github.com/qslabs/sms-service/internal/api/validation"
	"github.com/qslabs/sms-service/internal/auth"
	"github.com/qslabs/sms-service/internal/domain"
	"github.com/qslabs/sms-service/internal/service"
)

// TeachersHandler serves /api/teachers.
type TeachersHandler struct {
	service *service.TeacherService
}

// NewTeachersHandler constructs handler.
func NewTeachersHandler(teacherService *service.TeacherService) *TeachersHandler {
	return &TeachersHandler{service: teacherService}
}

// List GET /api/teachers.
func (h *TeachersHandler) List(c *fiber.Ctx) error {
	page, meta := parsePage(c)
	teachers, err := h.service.List(c.UserContext(), page)
	if err != nil {
		return err
	}
	items := make([]dto.TeacherResponse, 0, len(teachers))
	for i := range teachers {
		items = append(items, teacherResponse(&teachers[i]))
	}
	return c.JSON(fiber.Map{"data": items, "pagination": meta})
}

// Get GET /api/teachers/:id.
func (h *TeachersHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	teacher, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": teacherResponse(teacher)})
}

// GetByUser GET /api/teachers/user/:id.
func (h *TeachersHandler) GetByUser(c *fiber.Ctx) error {
	userID := c.Params("id")
	if err := validation.ID("id", userID); err != nil {
		return err
	}
	teacher, err := h.service.GetByUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": teacherResponse(teacher)})
}

// Create POST /api/teachers.
func (h *TeachersHandler) Create(c *fiber.Ctx) error {
	var req dto.TeacherRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	teacher, err := h.service.Create(c.UserContext(), teacherInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": teacherResponse(teacher)})
}

// Update PUT /api/teachers/:id.
func (h *TeachersHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req dto.TeacherRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	actor, _ := auth.IdentityFromContext(c)
	teacher, err := h.service.Update(c.UserContext(), actor, id, teacherInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": teacherResponse(teacher)})
}

// Delete DELETE /api/teachers/:id.
func (h *TeachersHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func teacherInput(req dto.TeacherRequest) service.TeacherInput {
	return service.TeacherInput{
		UserID:      req.UserID,
		Name:        req.Name,
		Phone:       req.Phone,
		DateOfBirth: parseDate(req.DateOfBirth),
		Gender:      req.Gender,
		Address:     req.Address,
		JoiningDate: parseDate(req.JoiningDate),
		Status:      domain.TeacherStatus(req.Status),
	}
}

func teacherResponse(t *domain.Teacher) dto.TeacherResponse {
	return dto.TeacherResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Name:        t.Name,
		Phone:       t.Phone,
		DateOfBirth: formatDate(t.DateOfBirth),
		Gender:      t.Gender,
		Address:     t.Address,
		JoiningDate: formatDate(t.JoiningDate),
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
