package models

import "time"

// DeregistrationStatus is the lifecycle of a deregistration request.
type DeregistrationStatus string

const (
	DeregistrationPending  DeregistrationStatus = "pending"
	DeregistrationApproved DeregistrationStatus = "approved"
	DeregistrationRejected DeregistrationStatus = "rejected"
)

// Valid reports whether the status is a known value.
func (s DeregistrationStatus) Valid() bool {
	switch s {
	case DeregistrationPending, DeregistrationApproved, DeregistrationRejected:
		return true
	}
	return false
}

// DeregistrationRequest is an instructor-submitted proposal that an admin
// remove a student's enrollment. At most one pending request exists per
// (student, course); repeat submissions update the pending row in place.
type DeregistrationRequest struct {
	ID           string               `db:"id" json:"id"`
	StudentID    string               `db:"student_id" json:"student_id"`
	CourseID     string               `db:"course_id" json:"course_id"`
	InstructorID string               `db:"instructor_id" json:"instructor_id"`
	Reason       string               `db:"reason" json:"reason"`
	Status       DeregistrationStatus `db:"status" json:"status"`
	CreatedAt    time.Time            `db:"created_at" json:"created_at"`
	DecidedAt    *time.Time           `db:"decided_at" json:"decided_at,omitempty"`
}

// DeregistrationDetail enriches a request with student, course and
// instructor names for the admin review list.
type DeregistrationDetail struct {
	DeregistrationRequest
	StudentName    string `db:"student_name" json:"student_name"`
	CourseName     string `db:"course_name" json:"course_name"`
	InstructorName string `db:"instructor_name" json:"instructor_name"`
}
