package academy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntquang22298/study-chain/internal/academy"
	"github.com/ntquang22298/study-chain/internal/apperr"
	"github.com/ntquang22298/study-chain/internal/changes"
	"github.com/ntquang22298/study-chain/internal/identity"
	"github.com/ntquang22298/study-chain/internal/ledger"
	"github.com/ntquang22298/study-chain/internal/ledger/ledgertest"
	"github.com/ntquang22298/study-chain/internal/records"
)

func studentRecord() records.StudentRecord {
	return records.StudentRecord{
		Username: "hoangdd",
		Fullname: "Trinh Van Tan",
		Info: records.UserInfo{
			Sex:         "Male",
			PhoneNumber: "+84 973241005",
			Email:       "abc@gmail.com",
			Address:     "KG",
			Birthday:    "ABC",
			Country:     "VN",
		},
		Courses: records.StringList{"c1"},
	}
}

func ptr(s string) *string { return &s }

func TestReadProfileOfStudent(t *testing.T) {
	gw := ledgertest.New().On(records.FnGetUser, ledger.Ok(studentRecord()))

	p, err := newService(gw).ReadProfile(context.Background(), student)
	require.NoError(t, err)

	assert.Equal(t, student, p.Identity)
	assert.Equal(t, "Trinh Van Tan", p.Fullname)
	assert.Equal(t, "abc@gmail.com", p.Info.Email)
	assert.Equal(t, []string{"c1"}, p.Courses)
	assert.Nil(t, p.Subjects)

	require.Len(t, gw.Queries(), 1)
	assert.Equal(t, []string{"hoangdd"}, gw.Queries()[0].Args)
	assert.Equal(t, "hoangdd", gw.Queries()[0].Username)
}

func TestReadProfileOfTeacherWithoutSubjects(t *testing.T) {
	gw := ledgertest.New().On(records.FnGetUser,
		ledger.Ok(`{"Username":"gv01","Fullname":"Nguyen Van A","Info":{},"Subjects":null}`))

	p, err := newService(gw).ReadProfile(context.Background(), teacher)
	require.NoError(t, err)
	assert.Equal(t, []string{}, p.Subjects)
	assert.Nil(t, p.Courses)
}

func TestReadProfileOfAdminSkipsQuery(t *testing.T) {
	gw := ledgertest.New()

	p, err := newService(gw).ReadProfile(context.Background(), adminAcademy)
	require.NoError(t, err)
	assert.Equal(t, adminAcademy, p.Identity)
	assert.Equal(t, 1, gw.Connects())
	assert.Empty(t, gw.Calls())
	assert.Zero(t, gw.OpenSessions())
}

func TestReadProfileFailures(t *testing.T) {
	tests := []struct {
		name string
		env  ledger.Envelope
		kind apperr.Kind
		msg  string
	}{
		{"verbatim reason", ledger.Fail("Error"), apperr.LedgerQueryFailed, "Error"},
		{"empty array reason", ledger.Envelope{Msg: ledger.Message("[]")}, apperr.LedgerQueryFailed, academy.MsgQueryFailed},
		{"no reason", ledger.Envelope{}, apperr.LedgerQueryFailed, academy.MsgQueryFailed},
		{"garbage record", ledger.Ok("not json"), apperr.MalformedLedgerData, ledger.MsgMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := ledgertest.New().On(records.FnGetUser, tt.env)
			_, err := newService(gw).ReadProfile(context.Background(), student)
			requireFailure(t, err, tt.kind, tt.msg)
			assert.Zero(t, gw.OpenSessions())
		})
	}
}

func TestUpdateProfileWithoutChanges(t *testing.T) {
	gw := ledgertest.New().On(records.FnGetUser, ledger.Ok(studentRecord()))

	_, err := newService(gw).UpdateProfile(context.Background(), student, changes.ProfileUpdate{
		Fullname:    ptr("Trinh Van Tan"),
		PhoneNumber: &changes.PhoneNumber{Value: "+84 973241005", Country: "VN"},
		Email:       ptr(" abc@gmail.com "),
	})

	requireFailure(t, err, apperr.NoChanges, academy.MsgNoChanges)
	assert.Equal(t, 500, apperr.NoChanges.Status())
	assert.Empty(t, gw.Invokes())
}

func TestUpdateProfileWritesOnlyChangedFields(t *testing.T) {
	gw := ledgertest.New().
		On(records.FnGetUser, ledger.Ok(studentRecord())).
		On(records.FnUpdateUser, ledger.Envelope{Success: true})

	msg, err := newService(gw).UpdateProfile(context.Background(), student, changes.ProfileUpdate{
		Fullname: ptr("Trinh Van Tan"),
		Email:    ptr("new@gmail.com"),
		Address:  ptr("HN"),
	})
	require.NoError(t, err)
	assert.Equal(t, academy.MsgUpdated, msg)

	invokes := gw.Invokes()
	require.Len(t, invokes, 1)
	assert.Equal(t, records.FnUpdateUser, invokes[0].Function)
	require.Len(t, invokes[0].Args, 2)
	assert.Equal(t, "hoangdd", invokes[0].Args[0])
	assert.JSONEq(t, `{"Address":"HN","Email":"new@gmail.com"}`, invokes[0].Args[1])
}

func TestUpdateProfileKeepsLedgerMessage(t *testing.T) {
	gw := ledgertest.New().
		On(records.FnGetUser, ledger.Ok(studentRecord())).
		On(records.FnUpdateUser, ledger.Ok("Updated user hoangdd"))

	msg, err := newService(gw).UpdateProfile(context.Background(), student, changes.ProfileUpdate{Sex: ptr("Female")})
	require.NoError(t, err)
	assert.Equal(t, "Updated user hoangdd", msg)
}

func TestUpdateProfileFailures(t *testing.T) {
	t.Run("read fails", func(t *testing.T) {
		gw := ledgertest.New().On(records.FnGetUser, ledger.Fail("Error"))
		_, err := newService(gw).UpdateProfile(context.Background(), student, changes.ProfileUpdate{Sex: ptr("Female")})
		requireFailure(t, err, apperr.LedgerQueryFailed, "Error")
		assert.Empty(t, gw.Invokes())
	})

	t.Run("invoke fails without reason", func(t *testing.T) {
		gw := ledgertest.New().On(records.FnGetUser, ledger.Ok(studentRecord()))
		_, err := newService(gw).UpdateProfile(context.Background(), student, changes.ProfileUpdate{Sex: ptr("Female")})
		requireFailure(t, err, apperr.LedgerQueryFailed, academy.MsgInvokeFailed)
		assert.Len(t, gw.Invokes(), 1)
	})

	t.Run("invoke fails with reason", func(t *testing.T) {
		gw := ledgertest.New().
			On(records.FnGetUser, ledger.Ok(studentRecord())).
			On(records.FnUpdateUser, ledger.Fail("endorsement failure"))
		_, err := newService(gw).UpdateProfile(context.Background(), student, changes.ProfileUpdate{Sex: ptr("Female")})
		requireFailure(t, err, apperr.LedgerQueryFailed, "endorsement failure")
	})
}

func TestListSubjects(t *testing.T) {
	subjects := []records.SubjectRecord{{SubjectID: "s1", Name: "Blockchain", TeacherUsername: "gv01"}}

	t.Run("student", func(t *testing.T) {
		gw := ledgertest.New().On(records.FnGetSubjectsByStudent, ledger.Ok(subjects))
		got, err := newService(gw).ListSubjects(context.Background(), student)
		require.NoError(t, err)
		assert.Equal(t, subjects, got.Subjects)
		assert.Empty(t, got.Note)
		assert.Equal(t, []string{"hoangdd"}, gw.Queries()[0].Args)
	})

	t.Run("teacher with a single subject object", func(t *testing.T) {
		gw := ledgertest.New().On(records.FnGetSubjectsByTeacher, ledger.Ok(subjects[0]))
		got, err := newService(gw).ListSubjects(context.Background(), teacher)
		require.NoError(t, err)
		assert.Equal(t, subjects, got.Subjects)
	})

	t.Run("teacher without subjects", func(t *testing.T) {
		gw := ledgertest.New().On(records.FnGetSubjectsByTeacher, ledger.Envelope{Success: true})
		got, err := newService(gw).ListSubjects(context.Background(), teacher)
		require.NoError(t, err)
		assert.Equal(t, []records.SubjectRecord{}, got.Subjects)
	})

	t.Run("administrators never connect", func(t *testing.T) {
		gw := ledgertest.New()
		for _, id := range []identity.Identity{adminAcademy, adminStudent} {
			got, err := newService(gw).ListSubjects(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, academy.MsgNoSubjects, got.Note)
			assert.Nil(t, got.Subjects)
		}
		assert.Zero(t, gw.Connects())
	})

	t.Run("failure", func(t *testing.T) {
		gw := ledgertest.New().On(records.FnGetSubjectsByStudent, ledger.Fail("Error"))
		_, err := newService(gw).ListSubjects(context.Background(), student)
		requireFailure(t, err, apperr.LedgerQueryFailed, "Error")
	})
}

func TestGetSubject(t *testing.T) {
	gw := ledgertest.New().On(records.FnGetSubject,
		ledger.Ok(`{"SubjectID":"s1","Name":"Blockchain","TeacherUsername":"gv01","Students":"hoangdd"}`))

	got, err := newService(gw).GetSubject(context.Background(), student, " s1 ")
	require.NoError(t, err)
	assert.Equal(t, "Blockchain", got.Name)
	assert.True(t, got.Enrolled("hoangdd"))
	assert.Equal(t, []string{"s1"}, gw.Queries()[0].Args)

	_, err = newService(gw).GetSubject(context.Background(), student, "")
	requireFailure(t, err, apperr.InvalidInput, academy.MsgSubjectRequired)
}
