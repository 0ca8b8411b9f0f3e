package dto

import "github.com/eduhub-labs/eduhub-api/internal/models"

// InstructorCourseView is the instructor's working view of a course: the
// course record, its ordered content tree and the enrollment roster.
type InstructorCourseView struct {
	Course  models.CourseDetail       `json:"course"`
	Modules []models.ModuleNode       `json:"modules"`
	Roster  []models.EnrollmentDetail `json:"roster"`
}
