package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/qslabs/sms-service/internal/api/dto"
	"github.com/qslabs/sms-service/internal/api/validation"
	"github.com/qslabs/sms-service/internal/repository"
	apperrors "github.com/qslabs/sms-service/pkg/util/errorutil"
)

const (
	maxPageSize = 100
	// keeps (page-1)*size far below any int limit
	maxPage = 1 << 20
)

// bind parses the JSON body into req and validates it.
func bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return validation.Struct(req)
}

// pathID returns the :id param after checking it is a UUID.
func pathID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if err := validation.ID("id", id); err != nil {
		return "", err
	}
	return id, nil
}

func parsePage(c *fiber.Ctx) (repository.Page, dto.Pagination) {
	page := parseInt(c.Query("page"), 1)
	size := parseInt(c.Query("page_size"), 20)
	if size > maxPageSize {
		size = maxPageSize
	}
	if page > maxPage {
		page = maxPage
	}
	return repository.Page{Limit: size, Offset: (page - 1) * size}, dto.Pagination{Page: page, PageSize: size}
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

// parseDate reads an optional calendar date; validation has already checked the layout.
func parseDate(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(dto.DateLayout, val)
	if err != nil {
		return nil
	}
	return &t
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dto.DateLayout)
	return &s
}

// queryDate parses an optional date query parameter.
func queryDate(c *fiber.Ctx, key string) (*time.Time, error) {
	val := c.Query(key)
	if val == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, val)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid date", map[string]any{key: "must be a date formatted as " + dto.DateLayout})
	}
	return &t, nil
}
