package models

import "time"

// PlatformStats are the entity counts shown on the analyst dashboard.
type PlatformStats struct {
	Students    int `db:"students" json:"students"`
	Instructors int `db:"instructors" json:"instructors"`
	Courses     int `db:"courses" json:"courses"`
	Enrollments int `db:"enrollments" json:"enrollments"`
}

// AdminStats extends the platform counts with the admin-only ones.
type AdminStats struct {
	Users        int `db:"users" json:"users"`
	Students     int `db:"students" json:"students"`
	Instructors  int `db:"instructors" json:"instructors"`
	Admins       int `db:"admins" json:"admins"`
	Analysts     int `db:"analysts" json:"analysts"`
	Universities int `db:"universities" json:"universities"`
	Courses      int `db:"courses" json:"courses"`
	Enrollments  int `db:"enrollments" json:"enrollments"`
}

// CoursePerformance is one row of the per-course aggregate list. Courses
// with zero enrollments still appear with a zero count and null average.
type CoursePerformance struct {
	CourseID       string   `db:"course_id" json:"course_id"`
	CourseName     string   `db:"course_name" json:"course_name"`
	UniversityName string   `db:"university_name" json:"university_name"`
	Enrollments    int      `db:"enrollments" json:"enrollments"`
	AvgMarks       *float64 `db:"avg_marks" json:"avg_marks"`
}

// CourseSummary is the single-course aggregate view.
type CourseSummary struct {
	CoursePerformance
	MinMarks *float64 `db:"min_marks" json:"min_marks"`
	MaxMarks *float64 `db:"max_marks" json:"max_marks"`
}

// MarksBucket is one point of a course's marks distribution.
type MarksBucket struct {
	Marks    float64 `db:"marks" json:"marks"`
	Students int     `db:"students" json:"students"`
}

// CourseAnalysis combines the summary with the marks distribution.
type CourseAnalysis struct {
	Summary      CourseSummary `json:"summary"`
	Distribution []MarksBucket `json:"distribution"`
}

// InstructorPerformance aggregates taught courses and graded students.
type InstructorPerformance struct {
	InstructorID string   `db:"instructor_id" json:"instructor_id"`
	FirstName    string   `db:"first_name" json:"first_name"`
	LastName     *string  `db:"last_name" json:"last_name,omitempty"`
	Courses      int      `db:"courses" json:"courses"`
	Students     int      `db:"students" json:"students"`
	AvgMarks     *float64 `db:"avg_marks" json:"avg_marks"`
}

// StudentPerformance is a per-student average across all enrollments.
type StudentPerformance struct {
	StudentID string   `db:"student_id" json:"student_id"`
	FirstName string   `db:"first_name" json:"first_name"`
	LastName  *string  `db:"last_name" json:"last_name,omitempty"`
	AvgMarks  *float64 `db:"avg_marks" json:"avg_marks"`
}

// StudentCourseMark is one (student, course) mark row.
type StudentCourseMark struct {
	StudentID  string   `db:"student_id" json:"student_id"`
	CourseName string   `db:"course_name" json:"course_name"`
	Marks      *float64 `db:"marks" json:"marks"`
}

// StudentAnalysis bundles the averages with the per-course breakdown.
type StudentAnalysis struct {
	Students    []StudentPerformance `json:"students"`
	CourseMarks []StudentCourseMark  `json:"course_marks"`
}

// UniversityPerformance aggregates a university's courses and students.
type UniversityPerformance struct {
	UniversityID   string   `db:"university_id" json:"university_id"`
	UniversityName string   `db:"university_name" json:"university_name"`
	TotalCourses   int      `db:"total_courses" json:"total_courses"`
	TotalStudents  int      `db:"total_students" json:"total_students"`
	AvgMarks       *float64 `db:"avg_marks" json:"avg_marks"`
}

// UniversityCourse is a course-level row of the university report.
type UniversityCourse struct {
	UniversityID  string     `db:"university_id" json:"university_id"`
	CourseID      string     `db:"course_id" json:"course_id"`
	CourseName    string     `db:"course_name" json:"course_name"`
	DurationWeeks *int       `db:"duration_weeks" json:"duration_weeks,omitempty"`
	Students      int        `db:"students" json:"students"`
	AvgMarks      *float64   `db:"avg_marks" json:"avg_marks"`
	DueBy         *time.Time `db:"due_by" json:"due_by,omitempty"`
}

// CourseInstructorName links an instructor's name to a course.
type CourseInstructorName struct {
	CourseID  string  `db:"course_id" json:"course_id"`
	FirstName string  `db:"first_name" json:"first_name"`
	LastName  *string `db:"last_name" json:"last_name,omitempty"`
}

// UniversityAnalysis is the full university report payload.
type UniversityAnalysis struct {
	Universities []UniversityPerformance `json:"universities"`
	Courses      []UniversityCourse      `json:"courses"`
	Instructors  []CourseInstructorName  `json:"instructors"`
}
