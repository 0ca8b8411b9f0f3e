package dto

// UpdateGradeRequest sets or clears a student's course grade. A nil field
// clears the stored value, so marks and letter grade are independently
// erasable.
type UpdateGradeRequest struct {
	Marks       *float64 `json:"marks,omitempty" validate:"omitempty,gte=0,lte=100"`
	LetterGrade *string  `json:"letter_grade,omitempty" validate:"omitempty,max=5"`
}

// DeregistrationRequestPayload is the instructor's request to remove a
// student from a course.
type DeregistrationRequestPayload struct {
	Reason string `json:"reason" validate:"required,max=500"`
}
