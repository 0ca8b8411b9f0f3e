package dto

// CreateUniversityRequest is the admin payload for creating a university.
type CreateUniversityRequest struct {
	Name    string  `json:"name" validate:"required,max=200"`
	City    *string `json:"city,omitempty"`
	Country *string `json:"country,omitempty"`
	Type    *string `json:"type,omitempty"`
}

// CreateCourseRequest is the admin payload for creating a course.
type CreateCourseRequest struct {
	Name          string  `json:"name" validate:"required,max=200"`
	DurationWeeks *int    `json:"duration_weeks,omitempty" validate:"omitempty,gt=0"`
	Type          *string `json:"type,omitempty"`
	UniversityID  string  `json:"university_id" validate:"required"`
}

// AssignInstructorRequest assigns an instructor to a course.
type AssignInstructorRequest struct {
	InstructorID string `json:"instructor_id" validate:"required"`
}

// CreateEnrollmentRequest is the admin payload for enrolling a student.
type CreateEnrollmentRequest struct {
	StudentID string   `json:"student_id" validate:"required"`
	CourseID  string   `json:"course_id" validate:"required"`
	DueBy     *string  `json:"due_by,omitempty"`
	Marks     *float64 `json:"marks,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// DeregistrationDecisionRequest resolves a pending deregistration request.
type DeregistrationDecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
}
