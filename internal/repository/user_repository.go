package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/eduhub-labs/eduhub-api/internal/models"
)

// UserRepository handles persistence of users and their role profiles.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs the repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, password_hash, first_name, last_name, role, created_at`

// FindByEmail returns the user with the given email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername returns the user with the given username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID returns the user with the given ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create persists a user together with its role profile in one transaction.
// Only students and instructors carry a profile row.
func (r *UserRepository) Create(ctx context.Context, user *models.User, student *models.StudentProfile, instructor *models.InstructorProfile) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create user: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertUser = `INSERT INTO users (id, username, email, password_hash, first_name, last_name, role, created_at)
        VALUES (:id, :username, :email, :password_hash, :first_name, :last_name, :role, :created_at)`
	if _, err = tx.NamedExecContext(ctx, insertUser, user); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	switch user.Role {
	case models.RoleStudent:
		if student == nil {
			student = &models.StudentProfile{SkillLevel: "Beginner"}
		}
		student.UserID = user.ID
		const insertStudent = `INSERT INTO student_profiles (user_id, age, skill_level, country)
            VALUES (:user_id, :age, :skill_level, :country)`
		if _, err = tx.NamedExecContext(ctx, insertStudent, student); err != nil {
			return fmt.Errorf("insert student profile: %w", err)
		}
	case models.RoleInstructor:
		if instructor == nil {
			instructor = &models.InstructorProfile{}
		}
		instructor.UserID = user.ID
		const insertInstructor = `INSERT INTO instructor_profiles (user_id, phone_number, bio)
            VALUES (:user_id, :phone_number, :bio)`
		if _, err = tx.NamedExecContext(ctx, insertInstructor, instructor); err != nil {
			return fmt.Errorf("insert instructor profile: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create user: %w", err)
	}
	return nil
}

// Delete removes a user restricted to the expected role. The role profile
// and any enrollments go with it via FK cascade. Returns sql.ErrNoRows when
// no matching row exists.
func (r *UserRepository) Delete(ctx context.Context, id string, role models.UserRole) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1 AND role = $2`, id, role)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListStudents returns all students joined with their profiles.
func (r *UserRepository) ListStudents(ctx context.Context) ([]models.Student, error) {
	const query = `SELECT u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name, u.role, u.created_at,
        sp.age, sp.skill_level, sp.country
        FROM users u
        JOIN student_profiles sp ON sp.user_id = u.id
        ORDER BY u.username`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// ListInstructors returns all instructors joined with their profiles.
func (r *UserRepository) ListInstructors(ctx context.Context) ([]models.Instructor, error) {
	const query = `SELECT u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name, u.role, u.created_at,
        ip.phone_number, ip.bio
        FROM users u
        JOIN instructor_profiles ip ON ip.user_id = u.id
        ORDER BY u.username`
	var instructors []models.Instructor
	if err := r.db.SelectContext(ctx, &instructors, query); err != nil {
		return nil, fmt.Errorf("list instructors: %w", err)
	}
	return instructors, nil
}

// FindStudentProfile returns the student profile for a user.
func (r *UserRepository) FindStudentProfile(ctx context.Context, userID string) (*models.StudentProfile, error) {
	const query = `SELECT user_id, age, skill_level, country FROM student_profiles WHERE user_id = $1`
	var profile models.StudentProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindInstructorProfile returns the instructor profile for a user.
func (r *UserRepository) FindInstructorProfile(ctx context.Context, userID string) (*models.InstructorProfile, error) {
	const query = `SELECT user_id, phone_number, bio FROM instructor_profiles WHERE user_id = $1`
	var profile models.InstructorProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile updates the common fields and, by role, the profile row in
// one transaction. The role itself is immutable.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User, student *models.StudentProfile, instructor *models.InstructorProfile) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update profile: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `UPDATE users SET first_name = $2, last_name = $3 WHERE id = $1`,
		user.ID, user.FirstName, user.LastName); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if student != nil {
		if _, err = tx.ExecContext(ctx, `UPDATE student_profiles SET age = $2, country = $3 WHERE user_id = $1`,
			user.ID, student.Age, student.Country); err != nil {
			return fmt.Errorf("update student profile: %w", err)
		}
	}
	if instructor != nil {
		if _, err = tx.ExecContext(ctx, `UPDATE instructor_profiles SET phone_number = $2, bio = $3 WHERE user_id = $1`,
			user.ID, instructor.PhoneNumber, instructor.Bio); err != nil {
			return fmt.Errorf("update instructor profile: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update profile: %w", err)
	}
	return nil
}

// AdminStats counts the entities shown on the admin dashboard.
func (r *UserRepository) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	const query = `SELECT
        (SELECT COUNT(*) FROM users)                              AS users,
        (SELECT COUNT(*) FROM users WHERE role = 'student')       AS students,
        (SELECT COUNT(*) FROM users WHERE role = 'instructor')    AS instructors,
        (SELECT COUNT(*) FROM users WHERE role = 'admin')         AS admins,
        (SELECT COUNT(*) FROM users WHERE role = 'analyst')       AS analysts,
        (SELECT COUNT(*) FROM universities)                       AS universities,
        (SELECT COUNT(*) FROM courses)                            AS courses,
        (SELECT COUNT(*) FROM enrollments)                        AS enrollments`
	var stats models.AdminStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("admin stats: %w", err)
	}
	return &stats, nil
}
