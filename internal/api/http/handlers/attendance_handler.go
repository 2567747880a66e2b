package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/qslabs/sms-service/internal/api/dto"
	"github.com/qslabs/sms-service/internal/api/validation"
	"github.com/qslabs/sms-service/internal/domain"
	"github.com/qslabs/sms-service/internal/repository"
	"github.com/qslabs/sms-service/internal/service"
	apperrors "github.com/qslabs/sms-service/pkg/util/errorutil"
)

// AttendanceHandler serves /api/attendance.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler constructs handler.
func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: attendanceService}
}

// Create POST /api/attendance.
func (h *AttendanceHandler) Create(c *fiber.Ctx) error {
	input, err := bindAttendance(c)
	if err != nil {
		return err
	}
	record, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": attendanceResponse(record)})
}

// List GET /api/attendance with optional user_id, course_id, role, from and to filters.
func (h *AttendanceHandler) List(c *fiber.Ctx) error {
	page, meta := parsePage(c)
	filter := repository.AttendanceFilter{Limit: page.Limit, Offset: page.Offset}

	if v := c.Query("user_id"); v != "" {
		if err := validation.ID("user_id", v); err != nil {
			return err
		}
		filter.UserID = &v
	}
	if v := c.Query("course_id"); v != "" {
		if err := validation.ID("course_id", v); err != nil {
			return err
		}
		filter.CourseID = &v
	}
	if v := c.Query("role"); v != "" {
		role, err := domain.ParseRole(v)
		if err != nil {
			return apperrors.NewValidationError("unknown role", map[string]any{"role": v})
		}
		filter.Role = &role
	}
	var err error
	if filter.From, err = queryDate(c, "from"); err != nil {
		return err
	}
	if filter.To, err = queryDate(c, "to"); err != nil {
		return err
	}

	records, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": attendanceResponses(records), "pagination": meta})
}

// Get GET /api/attendance/:id.
func (h *AttendanceHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	record, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": attendanceResponse(record)})
}

// ListByUser GET /api/attendance/student/:id.
func (h *AttendanceHandler) ListByUser(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	page, meta := parsePage(c)
	records, err := h.service.ListByUser(c.UserContext(), id, nil, nil, page)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": attendanceResponses(records), "pagination": meta})
}

// ListByUserInRange GET /api/attendance/studentwithdate/:id?from=&to=.
func (h *AttendanceHandler) ListByUserInRange(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	from, err := queryDate(c, "from")
	if err != nil {
		return err
	}
	to, err := queryDate(c, "to")
	if err != nil {
		return err
	}
	page, meta := parsePage(c)
	records, err := h.service.ListByUser(c.UserContext(), id, from, to, page)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": attendanceResponses(records), "pagination": meta})
}

// ListByCourse GET /api/attendance/course/:id.
func (h *AttendanceHandler) ListByCourse(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	page, meta := parsePage(c)
	records, err := h.service.ListByCourse(c.UserContext(), id, page)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": attendanceResponses(records), "pagination": meta})
}

// Update PUT /api/attendance/:id.
func (h *AttendanceHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	input, err := bindAttendance(c)
	if err != nil {
		return err
	}
	record, err := h.service.Update(c.UserContext(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": attendanceResponse(record)})
}

// Delete DELETE /api/attendance/:id.
func (h *AttendanceHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Summary GET /api/attendance/summary?from=&to=&courseId=&role=.
func (h *AttendanceHandler) Summary(c *fiber.Ctx) error {
	var q dto.AttendanceSummaryQuery
	if err := c.QueryParser(&q); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	if err := validation.Struct(q); err != nil {
		return err
	}

	query := service.SummaryQuery{}
	query.From, _ = time.Parse(dto.DateLayout, q.From)
	query.To, _ = time.Parse(dto.DateLayout, q.To)
	if q.CourseID != "" {
		query.CourseID = &q.CourseID
	}
	if q.Role != "" {
		role, _ := domain.ParseRole(q.Role)
		query.Role = &role
	}

	summaries, err := h.service.Summary(c.UserContext(), query)
	if err != nil {
		return err
	}
	items := make([]dto.AttendanceSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, dto.AttendanceSummaryResponse{
			UserID:       s.UserID,
			Role:         s.Role,
			CourseID:     s.CourseID,
			TotalCount:   s.TotalCount,
			PresentCount: s.PresentCount,
			AbsentCount:  s.AbsentCount,
			Percentage:   s.Percentage,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func bindAttendance(c *fiber.Ctx) (service.AttendanceInput, error) {
	var req dto.AttendanceRequest
	if err := bind(c, &req); err != nil {
		return service.AttendanceInput{}, err
	}
	role, _ := domain.ParseRole(req.Role)
	date, _ := time.Parse(dto.DateLayout, req.Date)
	return service.AttendanceInput{
		UserID:   req.UserID,
		Role:     role,
		CourseID: req.CourseID,
		Date:     date,
		Status:   domain.AttendanceStatus(req.Status),
	}, nil
}

func attendanceResponses(records []domain.Attendance) []dto.AttendanceResponse {
	items := make([]dto.AttendanceResponse, 0, len(records))
	for i := range records {
		items = append(items, attendanceResponse(&records[i]))
	}
	return items
}

func attendanceResponse(a *domain.Attendance) dto.AttendanceResponse {
	return dto.AttendanceResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		Role:      a.Role,
		CourseID:  a.CourseID,
		Date:      a.Date.Format(dto.DateLayout),
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
