package records

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListAcceptsBareString(t *testing.T) {
	var s StudentRecord
	require.NoError(t, json.Unmarshal([]byte(`{"Username":"hoangdd","Courses":"Blockchain101"}`), &s))
	assert.Equal(t, StringList{"Blockchain101"}, s.Courses)
	assert.True(t, s.HasCourse("Blockchain101"))
	assert.False(t, s.HasCourse("123456"))
}

func TestStringListForms(t *testing.T) {
	cases := map[string]StringList{
		`null`:      nil,
		`""`:        nil,
		`[]`:        {},
		`["a","b"]`: {"a", "b"},
		`"123456"`:  {"123456"},
	}
	for in, want := range cases {
		var l StringList
		require.NoError(t, json.Unmarshal([]byte(in), &l), in)
		assert.Equal(t, want, l, in)
	}

	var l StringList
	assert.Error(t, json.Unmarshal([]byte(`42`), &l))
}

func TestListAcceptsSingleObject(t *testing.T) {
	var subjects List[SubjectRecord]
	require.NoError(t, json.Unmarshal([]byte(`{"SubjectID":"1","Name":"Blockchain"}`), &subjects))
	require.Len(t, subjects, 1)
	assert.Equal(t, "Blockchain", subjects[0].Name)

	require.NoError(t, json.Unmarshal([]byte(`[{"SubjectID":"1"},{"SubjectID":"2"}]`), &subjects))
	assert.Len(t, subjects, 2)

	require.NoError(t, json.Unmarshal([]byte(`null`), &subjects))
	assert.Empty(t, subjects)
}

func TestFieldNamesAreCaseInsensitive(t *testing.T) {
	var students List[StudentSummary]
	require.NoError(t, json.Unmarshal([]byte(`[{"username":"tantrinh","fullname":"Tan Trinh"}]`), &students))
	require.Len(t, students, 1)
	assert.Equal(t, "tantrinh", students[0].Username)

	var scores List[ScoreRecord]
	require.NoError(t, json.Unmarshal([]byte(`[{"studentUsername":"tantrinh","scoreValue":9.5}]`), &scores))
	assert.Equal(t, 9.5, scores[0].ScoreValue)
}

func TestSubjectEnrolled(t *testing.T) {
	s := SubjectRecord{TeacherUsername: "gv01", Students: StringList{"sv01", "sv02"}}
	assert.True(t, s.Enrolled("sv02"))
	assert.False(t, s.Enrolled("sv03"))
}
