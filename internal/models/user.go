package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleAnalyst    UserRole = "analyst"
	RoleStudent    UserRole = "student"
	RoleInstructor UserRole = "instructor"
)

// Valid reports whether the role is one of the four known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleAnalyst, RoleStudent, RoleInstructor:
		return true
	}
	return false
}

// User represents an application user stored in the users table.
// The role is immutable after creation and selects which profile
// table carries the role-specific attributes.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     *string   `db:"last_name" json:"last_name,omitempty"`
	Role         UserRole  `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// StudentProfile carries the student-specific attributes.
type StudentProfile struct {
	UserID     string  `db:"user_id" json:"-"`
	Age        *int    `db:"age" json:"age,omitempty"`
	SkillLevel string  `db:"skill_level" json:"skill_level"`
	Country    *string `db:"country" json:"country,omitempty"`
}

// InstructorProfile carries the instructor-specific attributes.
type InstructorProfile struct {
	UserID      string  `db:"user_id" json:"-"`
	PhoneNumber *string `db:"phone_number" json:"phone_number,omitempty"`
	Bio         *string `db:"bio" json:"bio,omitempty"`
}

// Student is a user joined with its student profile.
type Student struct {
	User
	Age        *int    `db:"age" json:"age,omitempty"`
	SkillLevel string  `db:"skill_level" json:"skill_level"`
	Country    *string `db:"country" json:"country,omitempty"`
}

// Instructor is a user joined with its instructor profile.
type Instructor struct {
	User
	PhoneNumber *string `db:"phone_number" json:"phone_number,omitempty"`
	Bio         *string `db:"bio" json:"bio,omitempty"`
}

// Profile is the tagged-union view of a user returned by profile endpoints:
// the common record plus at most one role-specific section.
type Profile struct {
	User
	Student    *StudentProfile    `json:"student,omitempty"`
	Instructor *InstructorProfile `json:"instructor,omitempty"`
}
