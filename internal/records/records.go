// Package records defines the shapes of the academic records kept on the
// ledger and the chaincode functions that read and write them.
package records

// Chaincode functions exposed by the academy contract.
const (
	FnGetUser              = "GetUser"
	FnUpdateUser           = "UpdateUser"
	FnGetSubjectsByStudent = "GetSubjectsByStudent"
	FnGetSubjectsByTeacher = "GetSubjectsByTeacher"
	FnCreateScore          = "CreateScore"
	FnGetMyCerts           = "GetMyCerts"
	FnGetStudentsBySubject = "GetStudentsBySubject"
	FnGetScoresBySubject   = "GetScoresBySubject"
	FnRegisterCourse       = "RegisterCourse"
	FnGetSubject           = "GetSubject"
	FnGetAllCourses        = "GetAllCourses"
	FnGetCourse            = "GetCourse"
	FnGetCoursesOfStudent  = "GetCoursesOfStudent"
)

// UserInfo is the free-form profile part of a student or teacher.
type UserInfo struct {
	Avatar      string `json:"Avatar"`
	Sex         string `json:"Sex"`
	PhoneNumber string `json:"PhoneNumber"`
	Email       string `json:"Email"`
	Address     string `json:"Address"`
	Birthday    string `json:"Birthday"`
	Country     string `json:"Country"`
}

// StudentRecord is what GetUser returns for a student.
type StudentRecord struct {
	Username string     `json:"Username"`
	Fullname string     `json:"Fullname"`
	Info     UserInfo   `json:"Info"`
	Courses  StringList `json:"Courses"`
}

// HasCourse reports whether the student is already enrolled in courseID.
func (s StudentRecord) HasCourse(courseID string) bool {
	return s.Courses.Contains(courseID)
}

// TeacherRecord is what GetUser returns for a teacher.
type TeacherRecord struct {
	Username string     `json:"Username"`
	Fullname string     `json:"Fullname"`
	Info     UserInfo   `json:"Info"`
	Subjects StringList `json:"Subjects"`
}

// UserRecord is the union of both GetUser shapes. It is decoded when the
// caller does not yet care which of the two it got.
type UserRecord struct {
	Username string     `json:"Username"`
	Fullname string     `json:"Fullname"`
	Info     UserInfo   `json:"Info"`
	Courses  StringList `json:"Courses,omitempty"`
	Subjects StringList `json:"Subjects,omitempty"`
}

type SubjectRecord struct {
	SubjectID       string     `json:"SubjectID"`
	Name            string     `json:"Name"`
	TeacherUsername string     `json:"TeacherUsername"`
	Students        StringList `json:"Students"`
}

// Enrolled reports whether username is on the subject's student list.
func (s SubjectRecord) Enrolled(username string) bool {
	return s.Students.Contains(username)
}

type ScoreRecord struct {
	SubjectID       string  `json:"SubjectID"`
	StudentUsername string  `json:"StudentUsername"`
	ScoreValue      float64 `json:"ScoreValue"`
}

type CertificateRecord struct {
	CertificateID   string `json:"CertificateID"`
	SubjectID       string `json:"SubjectID"`
	StudentUsername string `json:"StudentUsername"`
	IssueDate       string `json:"IssueDate"`
}

type CourseRecord struct {
	CourseID         string     `json:"CourseID"`
	CourseCode       string     `json:"CourseCode"`
	CourseName       string     `json:"CourseName"`
	ShortDescription string     `json:"ShortDescription"`
	Description      string     `json:"Description"`
	Subjects         StringList `json:"Subjects"`
	Students         StringList `json:"Students"`
}

// StudentSummary is one row of GetStudentsBySubject.
type StudentSummary struct {
	Username string `json:"Username"`
	Fullname string `json:"Fullname"`
}
