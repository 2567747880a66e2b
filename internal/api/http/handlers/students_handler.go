package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/qslabs/sms-service/internal/api/dto"
	"github.com/qslabs/sms-service/internal/auth"
	"github.com/qslabs/sms-service/internal/domain"
	"github.com/qslabs/sms-service/internal/service"
)

// StudentsHandler serves /api/students.
type StudentsHandler struct {
	service *service.StudentService
}

// NewStudentsHandler constructs handler.
func NewStudentsHandler(studentService *service.StudentService) *StudentsHandler {
	return &StudentsHandler{service: studentService}
}

// List GET /api/students.
func (h *StudentsHandler) List(c *fiber.Ctx) error {
	page, meta := parsePage(c)
	students, err := h.service.List(c.UserContext(), page)
	if err != nil {
		return err
	}
	items := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		items = append(items, studentResponse(&students[i]))
	}
	return c.JSON(fiber.Map{"data": items, "pagination": meta})
}

// Get GET /api/students/:id.
func (h *StudentsHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	student, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": studentResponse(student)})
}

// Create POST /api/students.
func (h *StudentsHandler) Create(c *fiber.Ctx) error {
	var req dto.StudentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	student, err := h.service.Create(c.UserContext(), studentInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": studentResponse(student)})
}

// Update PUT /api/students/:id.
func (h *StudentsHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req dto.StudentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	actor, _ := auth.IdentityFromContext(c)
	student, err := h.service.Update(c.UserContext(), actor, id, studentInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": studentResponse(student)})
}

// Delete DELETE /api/students/:id.
func (h *StudentsHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Count GET /api/students/count.
func (h *StudentsHandler) Count(c *fiber.Ctx) error {
	n, err := h.service.Count(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"count": n}})
}

func studentInput(req dto.StudentRequest) service.StudentInput {
	return service.StudentInput{
		UserID:        req.UserID,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		DateOfBirth:   parseDate(req.DateOfBirth),
		Gender:        req.Gender,
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
		Nationality:   req.Nationality,
	}
}

func studentResponse(s *domain.Student) dto.StudentResponse {
	return dto.StudentResponse{
		ID:            s.ID,
		UserID:        s.UserID,
		FirstName:     s.FirstName,
		LastName:      s.LastName,
		DateOfBirth:   formatDate(s.DateOfBirth),
		Gender:        s.Gender,
		Address:       s.Address,
		ContactNumber: s.ContactNumber,
		Nationality:   s.Nationality,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
