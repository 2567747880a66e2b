package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/qslabs/sms-service/internal/api/dto"
	"github.com/qslabs/sms-service/internal/domain"
	"github.com/qslabs/sms-service/internal/service"
)

// TimetableHandler serves /api/timetable.
type TimetableHandler struct {
	service *service.TimetableService
}

// NewTimetableHandler constructs handler.
func NewTimetableHandler(timetableService *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: timetableService}
}

// List GET /api/timetable.
func (h *TimetableHandler) List(c *fiber.Ctx) error {
	page, meta := parsePage(c)
	entries, err := h.service.List(c.UserContext(), page)
	if err != nil {
		return err
	}
	items := make([]dto.TimetableResponse, 0, len(entries))
	for i := range entries {
		items = append(items, timetableResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items, "pagination": meta})
}

// Get GET /api/timetable/:id.
func (h *TimetableHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	entry, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": timetableResponse(entry)})
}

// CountToday GET /api/timetable/today/count.
func (h *TimetableHandler) CountToday(c *fiber.Ctx) error {
	n, err := h.service.CountToday(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"count": n}})
}

// Create POST /api/timetable.
func (h *TimetableHandler) Create(c *fiber.Ctx) error {
	input, err := bindTimetable(c)
	if err != nil {
		return err
	}
	entry, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": timetableResponse(entry)})
}

// Update PUT /api/timetable/:id.
func (h *TimetableHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	input, err := bindTimetable(c)
	if err != nil {
		return err
	}
	entry, err := h.service.Update(c.UserContext(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": timetableResponse(entry)})
}

// Delete DELETE /api/timetable/:id.
func (h *TimetableHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func bindTimetable(c *fiber.Ctx) (service.TimetableInput, error) {
	var req dto.TimetableRequest
	if err := bind(c, &req); err != nil {
		return service.TimetableInput{}, err
	}
	date, _ := time.Parse(dto.DateLayout, req.Date)
	return service.TimetableInput{
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		TeacherID: req.TeacherID,
		CourseID:  req.CourseID,
		Classroom: req.Classroom,
	}, nil
}

func timetableResponse(e *domain.TimetableEntry) dto.TimetableResponse {
	return dto.TimetableResponse{
		ID:        e.ID,
		Date:      e.Date.Format(dto.DateLayout),
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		TeacherID: e.TeacherID,
		CourseID:  e.CourseID,
		Classroom: e.Classroom,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
