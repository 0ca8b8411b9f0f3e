package models

// CourseType enumerates the kinds of courses universities offer.
type CourseType string

const (
	CourseTypeDegree      CourseType = "degree"
	CourseTypeDiploma     CourseType = "diploma"
	CourseTypeCertificate CourseType = "certificate"
)

// Valid reports whether the course type is a known value.
func (t CourseType) Valid() bool {
	switch t {
	case CourseTypeDegree, CourseTypeDiploma, CourseTypeCertificate:
		return true
	}
	return false
}

// Course belongs to a university and owns its enrollments and content tree.
type Course struct {
	ID            string      `db:"id" json:"id"`
	Name          string      `db:"name" json:"name"`
	DurationWeeks *int        `db:"duration_weeks" json:"duration_weeks,omitempty"`
	Type          *CourseType `db:"type" json:"type,omitempty"`
	UniversityID  string      `db:"university_id" json:"university_id"`
}

// CourseDetail enriches Course with its university name.
type CourseDetail struct {
	Course
	UniversityName string `db:"university_name" json:"university_name"`
}

// ExploreCourse is a catalog row annotated with the caller's enrollment state.
type ExploreCourse struct {
	CourseDetail
	Enrolled bool `json:"enrolled"`
}
