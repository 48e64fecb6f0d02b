package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole("teacher")
	require.NoError(t, err)
	assert.Equal(t, RoleTeacher, r)

	r, err = ParseRole("3")
	require.NoError(t, err)
	assert.Equal(t, RoleAdminStudent, r)

	_, err = ParseRole("janitor")
	assert.Error(t, err)
}

func TestAdminCodes(t *testing.T) {
	assert.Equal(t, 1, int(RoleAdminAcademy))
	assert.Equal(t, 3, int(RoleAdminStudent))
	assert.True(t, RoleAdminAcademy.IsAdmin())
	assert.False(t, RoleStudent.IsAdmin())
	assert.False(t, Role(7).Valid())
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := NewContext(context.Background(), Identity{Username: "hoangdd", Role: RoleStudent})
	id, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "hoangdd/STUDENT", id.String())
}
