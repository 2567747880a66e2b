package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qslabs/sms-service/internal/domain"
	"github.com/qslabs/sms-service/internal/repository"
	apperrors "github.com/qslabs/sms-service/pkg/util/errorutil"
)

func newAttendanceService() (*AttendanceService, *fakeAttendanceRepo) {
	repo := &fakeAttendanceRepo{records: map[string]domain.Attendance{}}
	return NewAttendanceService(repo), repo
}

func TestAttendanceCreateNormalizesDay(t *testing.T) {
	svc, _ := newAttendanceService()
	ctx := context.Background()
	when := time.Date(2025, 3, 4, 15, 30, 0, 0, time.UTC)

	record, err := svc.Create(ctx, AttendanceInput{
		UserID: "u1", Role: domain.RoleStudent, CourseID: "c1", Date: when, Status: domain.AttendancePresent,
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), record.Date)

	_, err = svc.Create(ctx, AttendanceInput{
		UserID: "u1", Role: domain.RoleStudent, CourseID: "c1", Date: when.Add(time.Hour), Status: domain.AttendanceAbsent,
	})
	assert.Equal(t, apperrors.CodeConflict, codeOf(err))
}

func TestAttendanceValidation(t *testing.T) {
	svc, _ := newAttendanceService()

	_, err := svc.Create(context.Background(), AttendanceInput{
		UserID: "u1", Role: domain.Role("GUEST"), CourseID: "c1", Status: domain.AttendanceStatus("LATE"),
	})
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidation, de.Code)
	assert.Contains(t, de.Details, "role")
	assert.Contains(t, de.Details, "status")
	assert.Contains(t, de.Details, "date")
}

func TestAttendanceUpdateAndDelete(t *testing.T) {
	svc, _ := newAttendanceService()
	ctx := context.Background()
	day := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	input := AttendanceInput{UserID: "u1", Role: domain.RoleStudent, CourseID: "c1", Date: day, Status: domain.AttendanceAbsent}

	record, err := svc.Create(ctx, input)
	require.NoError(t, err)

	input.Status = domain.AttendancePresent
	updated, err := svc.Update(ctx, record.ID, input)
	require.NoError(t, err)
	assert.Equal(t, domain.AttendancePresent, updated.Status)

	require.NoError(t, svc.Delete(ctx, record.ID))
	_, err = svc.Get(ctx, record.ID)
	assert.Equal(t, apperrors.CodeNotFound, codeOf(err))
	_, err = svc.Update(ctx, record.ID, input)
	assert.Equal(t, apperrors.CodeNotFound, codeOf(err))
}

func TestAttendanceListScopes(t *testing.T) {
	svc, repo := newAttendanceService()
	ctx := context.Background()
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	_, err := svc.ListByUser(ctx, "u1", &from, &to, repository.Page{Limit: 5})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.UserID)
	assert.Equal(t, "u1", *repo.lastFilter.UserID)
	assert.Equal(t, 5, repo.lastFilter.Limit)

	_, err = svc.ListByCourse(ctx, "c9", repository.Page{})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.CourseID)
	assert.Nil(t, repo.lastFilter.UserID)

	_, err = svc.ListByUser(ctx, "u1", &to, &from, repository.Page{})
	assert.Equal(t, apperrors.CodeValidation, codeOf(err))
}

func TestAttendanceSummary(t *testing.T) {
	svc, repo := newAttendanceService()
	repo.rows = []repository.SummaryRow{
		{UserID: "u1", Role: domain.RoleStudent, CourseID: "c1", TotalCount: 3, PresentCount: 2},
		{UserID: "u2", Role: domain.RoleTeacher, CourseID: "c1", TotalCount: 4, PresentCount: 4},
		{UserID: "u3", Role: domain.RoleStudent, CourseID: "c1", TotalCount: 0, PresentCount: 0},
	}
	from := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	summaries, err := svc.Summary(context.Background(), SummaryQuery{From: from, To: to})
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	assert.EqualValues(t, 1, summaries[0].AbsentCount)
	assert.Equal(t, 66.67, summaries[0].Percentage)
	assert.EqualValues(t, 0, summaries[1].AbsentCount)
	assert.Equal(t, 100.0, summaries[1].Percentage)
	assert.Equal(t, 0.0, summaries[2].Percentage)

	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), repo.lastSummary.From)
}

func TestAttendanceSummaryRejectsBadRange(t *testing.T) {
	svc, _ := newAttendanceService()
	ctx := context.Background()
	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Summary(ctx, SummaryQuery{From: from})
	assert.Equal(t, apperrors.CodeValidation, codeOf(err))

	_, err = svc.Summary(ctx, SummaryQuery{From: from, To: from.AddDate(0, 0, -1)})
	assert.Equal(t, apperrors.CodeValidation, codeOf(err))

	bad := domain.Role("NOBODY")
	_, err = svc.Summary(ctx, SummaryQuery{From: from, To: from, Role: &bad})
	assert.Equal(t, apperrors.CodeValidation, codeOf(err))
}
