package models

import "time"

// Enrollment is the join record authorizing a student's access to a course
// and carrying grading state. At most one row exists per (student, course).
type Enrollment struct {
	ID             string     `db:"id" json:"id"`
	StudentID      string     `db:"student_id" json:"student_id"`
	CourseID       string     `db:"course_id" json:"course_id"`
	EnrollmentDate time.Time  `db:"enrollment_date" json:"enrollment_date"`
	DueBy          *time.Time `db:"due_by" json:"due_by,omitempty"`
	Marks          *float64   `db:"marks" json:"marks,omitempty"`
	LetterGrade    *string    `db:"letter_grade" json:"letter_grade,omitempty"`
}

// EnrollmentDetail enriches Enrollment with student and course info.
type EnrollmentDetail struct {
	Enrollment
	StudentUsername string  `db:"student_username" json:"student_username"`
	StudentName     string  `db:"student_name" json:"student_name"`
	StudentLastName *string `db:"student_last_name" json:"student_last_name,omitempty"`
	CourseName      string  `db:"course_name" json:"course_name"`
}

// EnrolledCourse is a student-facing row joining the enrollment with course
// and university context.
type EnrolledCourse struct {
	CourseID       string      `db:"course_id" json:"course_id"`
	CourseName     string      `db:"course_name" json:"course_name"`
	DurationWeeks  *int        `db:"duration_weeks" json:"duration_weeks,omitempty"`
	CourseType     *CourseType `db:"course_type" json:"course_type,omitempty"`
	UniversityName string      `db:"university_name" json:"university_name"`
	EnrollmentDate time.Time   `db:"enrollment_date" json:"enrollment_date"`
	DueBy          *time.Time  `db:"due_by" json:"due_by,omitempty"`
	Marks          *float64    `db:"marks" json:"marks,omitempty"`
	LetterGrade    *string     `db:"letter_grade" json:"letter_grade,omitempty"`
}

// GradeReport is the student grades view plus the computed GPA.
type GradeReport struct {
	Courses []EnrolledCourse `json:"courses"`
	GPA     float64          `json:"gpa"`
}
