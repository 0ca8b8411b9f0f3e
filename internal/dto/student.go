package dto

import "github.com/eduhub-labs/eduhub-api/internal/models"

// StudentDashboard combines the student's profile with their enrolled
// courses.
type StudentDashboard struct {
	Profile models.Profile          `json:"profile"`
	Courses []models.EnrolledCourse `json:"courses"`
}

// StudentCourseView is the enrolled student's view of a course: catalog
// info, assigned instructors, the ordered content tree and the student's
// own enrollment record with grades.
type StudentCourseView struct {
	Course      models.CourseDetail `json:"course"`
	Instructors []models.UserInfo   `json:"instructors"`
	Modules     []models.ModuleNode `json:"modules"`
	Enrollment  models.Enrollment   `json:"enrollment"`
}
