// Package identity describes who is calling: a username bound to one of the
// platform roles.
package identity

import (
	"context"
	"fmt"
	"strings"
)

// Role is one of the platform roles. The numeric values are part of the
// public contract: admin profiles report them as-is.
type Role int

const (
	RoleAdminAcademy Role = 1
	RoleTeacher      Role = 2
	RoleAdminStudent Role = 3
	RoleStudent      Role = 4
)

// Roles lists every valid role.
var Roles = []Role{RoleAdminAcademy, RoleTeacher, RoleAdminStudent, RoleStudent}

var roleNames = map[Role]string{
	RoleAdminAcademy: "ADMIN_ACADEMY",
	RoleTeacher:      "TEACHER",
	RoleAdminStudent: "ADMIN_STUDENT",
	RoleStudent:      "STUDENT",
}

func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// IsAdmin reports whether r is one of the two administrative roles.
func (r Role) IsAdmin() bool {
	return r == RoleAdminAcademy || r == RoleAdminStudent
}

// ParseRole accepts either the role name (case-insensitive) or its numeric code.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	for r, n := range roleNames {
		if strings.EqualFold(n, s) || fmt.Sprint(int(r)) == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// Identity is the authenticated caller of a single request.
type Identity struct {
	Username string
	Role     Role
}

func (id Identity) String() string {
	return id.Username + "/" + id.Role.String()
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying id.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext extracts the identity stored by NewContext.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
