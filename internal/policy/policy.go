// Package policy holds the static table of which roles may run which
// academy operation.
package policy

import (
	"github.com/ntquang22298/study-chain/internal/apperr"
	"github.com/ntquang22298/study-chain/internal/identity"
)

// Operation names an academy operation.
type Operation string

const (
	ReadProfile      Operation = "read_profile"
	UpdateProfile    Operation = "update_profile"
	ListSubjects     Operation = "list_subjects"
	CreateScore      Operation = "create_score"
	ListCertificates Operation = "list_certificates"
	SubjectRoster    Operation = "subject_roster"
	ChangePassword   Operation = "change_password"
	RegisterCourse   Operation = "register_course"
	ListMyCourses    Operation = "list_my_courses"
	ListCourses      Operation = "list_courses"
	GetCourse        Operation = "get_course"
	GetSubject       Operation = "get_subject"
)

type roleSet map[identity.Role]struct{}

func allow(roles ...identity.Role) roleSet {
	s := make(roleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

var everyone = allow(identity.Roles...)

var table = map[Operation]roleSet{
	ReadProfile:      everyone,
	UpdateProfile:    everyone,
	ListSubjects:     everyone,
	ChangePassword:   everyone,
	ListCourses:      everyone,
	GetCourse:        everyone,
	GetSubject:       everyone,
	CreateScore:      allow(identity.RoleTeacher),
	SubjectRoster:    allow(identity.RoleTeacher),
	ListCertificates: allow(identity.RoleStudent),
	RegisterCourse:   allow(identity.RoleStudent),
	ListMyCourses:    allow(identity.RoleStudent),
}

// Permits reports whether role may perform op. Unknown operations are denied.
func Permits(role identity.Role, op Operation) bool {
	roles, ok := table[op]
	if !ok {
		return false
	}
	_, ok = roles[role]
	return ok
}

// Check returns a PermissionDenied failure carrying msg when role may not perform op.
func Check(role identity.Role, op Operation, msg string) error {
	if Permits(role, op) {
		return nil
	}
	return apperr.New(apperr.PermissionDenied, msg)
}

// Operations lists every operation in the table.
func Operations() []Operation {
	ops := make([]Operation, 0, len(table))
	for op := range table {
		ops = append(ops, op)
	}
	return ops
}
