package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/qslabs/sms-service/pkg/util/errorutil"
)

type sample struct {
	Name  string  `json:"name" validate:"required,notblank,max=8"`
	Email *string `json:"email" validate:"omitempty,email"`
	Role  string  `json:"role" validate:"omitempty,role"`
	Owner string  `json:"owner_id" validate:"omitempty,uuid_any"`
	Day   string  `json:"day" validate:"omitempty,datetime=2006-01-02"`
}

func TestStructValid(t *testing.T) {
	email := "a@b.test"
	assert.NoError(t, Struct(sample{Name: "ok", Email: &email, Role: "role_teacher", Owner: "0b8a3c1e-8f63-4a55-9f5c-0c4f6f0b7f1a", Day: "2025-02-01"}))
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	email := "nope"
	err := Struct(sample{Name: "   ", Email: &email, Role: "JANITOR", Owner: "42", Day: "01/02/2025"})
	require.Error(t, err)

	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidation, de.Code)
	assert.Equal(t, "is required", de.Details["name"])
	assert.Equal(t, "must be a valid email address", de.Details["email"])
	assert.Contains(t, de.Details["role"], "ADMIN")
	assert.Equal(t, "must be a valid UUID", de.Details["owner_id"])
	assert.Contains(t, de.Details, "day")
}

func TestID(t *testing.T) {
	assert.NoError(t, ID("id", "0b8a3c1e-8f63-4a55-9f5c-0c4f6f0b7f1a"))
	err := ID("id", "1 OR 1=1")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.ToDomainError(err).Code)
}
