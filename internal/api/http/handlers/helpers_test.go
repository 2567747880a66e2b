package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qslabs/sms-service/internal/api/dto"
	"github.com/qslabs/sms-service/internal/repository"
)

func TestParsePage(t *testing.T) {
	cases := []struct {
		name  string
		query string
		page  repository.Page
		meta  dto.Pagination
	}{
		{name: "defaults", query: "", page: repository.Page{Limit: 20, Offset: 0}, meta: dto.Pagination{Page: 1, PageSize: 20}},
		{name: "third page", query: "?page=3&page_size=10", page: repository.Page{Limit: 10, Offset: 20}, meta: dto.Pagination{Page: 3, PageSize: 10}},
		{name: "size capped", query: "?page=2&page_size=500", page: repository.Page{Limit: 100, Offset: 100}, meta: dto.Pagination{Page: 2, PageSize: 100}},
		{name: "garbage falls back", query: "?page=-4&page_size=abc", page: repository.Page{Limit: 20, Offset: 0}, meta: dto.Pagination{Page: 1, PageSize: 20}},
		{
			name:  "huge page does not overflow",
			query: "?page=922337203685477581&page_size=20",
			page:  repository.Page{Limit: 20, Offset: (maxPage - 1) * 20},
			meta:  dto.Pagination{Page: maxPage, PageSize: 20},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			var gotPage repository.Page
			var gotMeta dto.Pagination
			app.Get("/", func(c *fiber.Ctx) error {
				gotPage, gotMeta = parsePage(c)
				return c.SendStatus(fiber.StatusNoContent)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/"+tc.query, nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
			assert.Equal(t, tc.page, gotPage)
			assert.Equal(t, tc.meta, gotMeta)
			assert.GreaterOrEqual(t, gotPage.Offset, 0)
		})
	}
}
