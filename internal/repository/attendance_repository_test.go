package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/qslabs/sms-service/internal/domain"
)

func TestBuildAttendanceListQuery(t *testing.T) {
	user := "u1"
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	query, args := buildAttendanceListQuery(AttendanceFilter{UserID: &user, From: &from, To: &to, Limit: 10, Offset: 20})

	assert.Contains(t, query, "WHERE user_id=$1 AND date >= $2 AND date <= $3")
	assert.True(t, strings.HasSuffix(query, "LIMIT 10 OFFSET 20"))
	assert.Equal(t, []any{user, from, to}, args)
}

func TestBuildAttendanceListQueryDefaults(t *testing.T) {
	query, args := buildAttendanceListQuery(AttendanceFilter{Offset: -5})

	assert.NotContains(t, query, "WHERE")
	assert.True(t, strings.HasSuffix(query, "LIMIT 50 OFFSET 0"))
	assert.Empty(t, args)
}

func TestBuildSummaryQuery(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	course := "c1"
	role := domain.RoleStudent

	query, args := buildSummaryQuery(SummaryFilter{From: from, To: to, CourseID: &course, Role: &role})

	assert.Contains(t, query, "date BETWEEN $1 AND $2 AND course_id=$3 AND role=$4")
	assert.Contains(t, query, "GROUP BY user_id, role, course_id")
	assert.Contains(t, query, "FILTER (WHERE status = 'PRESENT')")
	assert.Equal(t, []any{from, to, course, role}, args)

	query, args = buildSummaryQuery(SummaryFilter{From: from, To: to})
	assert.NotContains(t, query, "course_id=$")
	assert.Len(t, args, 2)
}

func TestPageBounds(t *testing.T) {
	p := Page{Limit: 0, Offset: -16}
	assert.Equal(t, defaultPageLimit, p.limit())
	assert.Equal(t, 0, p.offset())

	p = Page{Limit: 25, Offset: 75}
	assert.Equal(t, 25, p.limit())
	assert.Equal(t, 75, p.offset())
}
