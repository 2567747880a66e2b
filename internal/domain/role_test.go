package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"ADMIN", RoleAdmin},
		{"admin", RoleAdmin},
		{" Teacher ", RoleTeacher},
		{"ROLE_STUDENT", RoleStudent},
		{"role_parent", RoleParent},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRoleRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "ADMINS", "ROLE_", "superuser"} {
		_, err := ParseRole(in)
		assert.Error(t, err, in)
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range Roles {
		assert.True(t, r.Valid())
	}
	assert.False(t, Role("admin").Valid())
}

func TestAttendanceStatusValid(t *testing.T) {
	assert.True(t, AttendancePresent.Valid())
	assert.True(t, AttendanceAbsent.Valid())
	assert.False(t, AttendanceStatus("LATE").Valid())
}
