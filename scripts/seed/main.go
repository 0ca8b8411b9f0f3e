// Seeds a development database with demo accounts, universities, courses and
// course materials. Safe to re-run: existing rows are left untouched.
//
// Usage:
//
//	go run ./scripts/seed [-apply-schema]
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/eduhub-labs/eduhub-api/pkg/config"
	"github.com/eduhub-labs/eduhub-api/pkg/database"
)

type account struct {
	username  string
	email     string
	password  string
	firstName string
	lastName  string
	role      string
}

var accounts = []account{
	{"admin", "admin@eduhub.dev", "admin123", "Ada", "Admin", "admin"},
	{"analyst", "analyst@eduhub.dev", "analyst123", "Alan", "Analyst", "analyst"},
	{"profsmith", "smith@eduhub.dev", "teach123", "Jane", "Smith", "instructor"},
	{"bob", "bob@eduhub.dev", "study123", "Bob", "Brown", "student"},
	{"carol", "carol@eduhub.dev", "study123", "Carol", "Chen", "student"},
}

type material struct {
	contentType string
	title       string
	url         string
	duration    *int
	fileFormat  *string
}

func main() {
	var applySchema bool
	flag.BoolVar(&applySchema, "apply-schema", false, "apply migrations/schema.sql before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()

	if applySchema {
		if err := database.ApplySchema(db, cfg.Database.SchemaFile); err != nil {
			log.Fatalf("apply schema: %v", err)
		}
		log.Printf("schema applied from %s", cfg.Database.SchemaFile)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := seed(ctx, db); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Println("seed complete")
}

func seed(ctx context.Context, db *sqlx.DB) error {
	userIDs := make(map[string]string)
	for _, a := range accounts {
		id, created, err := seedUser(ctx, db, a)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", a.username, err)
		}
		userIDs[a.username] = id
		if created {
			log.Printf("created %s account %q (password %q)", a.role, a.username, a.password)
		}
	}

	mitID, err := seedUniversity(ctx, db, "MIT", "Cambridge", "USA", "Public")
	if err != nil {
		return err
	}
	stanfordID, err := seedUniversity(ctx, db, "Stanford", "Stanford", "USA", "Private")
	if err != nil {
		return err
	}

	mlID, mlCreated, err := seedCourse(ctx, db, "Machine Learning", 16, "degree", mitID)
	if err != nil {
		return err
	}
	irID, _, err := seedCourse(ctx, db, "Information Retrieval", 12, "certificate", stanfordID)
	if err != nil {
		return err
	}

	for _, courseID := range []string{mlID, irID} {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO course_instructors (course_id, instructor_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			courseID, userIDs["profsmith"]); err != nil {
			return fmt.Errorf("assign instructor: %w", err)
		}
	}

	marks := 82.5
	if err := seedEnrollment(ctx, db, userIDs["bob"], mlID, &marks); err != nil {
		return err
	}
	if err := seedEnrollment(ctx, db, userIDs["carol"], mlID, nil); err != nil {
		return err
	}
	if err := seedEnrollment(ctx, db, userIDs["bob"], irID, nil); err != nil {
		return err
	}

	// Content only goes in with a fresh course so re-runs never duplicate the
	// tree (the hierarchy tables carry no natural unique key).
	if mlCreated {
		duration := 1200
		pdf := "PDF"
		materials := []material{
			{"video", "Machine Learning Complete Playlist", "https://youtube.com/playlist?list=PLKnIA16_Rmvbr7zKYQuBfsVkjoLcJgxHH", &duration, nil},
			{"notes", "Machine Learning Notes - MRCET", "https://mrcet.com/downloads/digital_notes/CSE/IV%20Year/MACHINE%20LEARNING(R17A0534).pdf", nil, &pdf},
			{"book", "Machine Learning - Tom Mitchell (CMU)", "https://www.cs.cmu.edu/~tom/files/MachineLearningTomMitchell.pdf", nil, nil},
		}
		if err := seedContent(ctx, db, mlID, materials); err != nil {
			return err
		}
	}

	return nil
}

func seedUser(ctx context.Context, db *sqlx.DB, a account) (string, bool, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
	if err != nil {
		return "", false, err
	}

	id := uuid.NewString()
	err = db.GetContext(ctx, &id,
		`INSERT INTO users (id, username, email, password_hash, first_name, last_name, role)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
         ON CONFLICT (username) DO NOTHING
         RETURNING id`,
		id, a.username, a.email, string(hash), a.firstName, a.lastName, a.role)
	if errors.Is(err, sql.ErrNoRows) {
		if err := db.GetContext(ctx, &id, `SELECT id FROM users WHERE username = $1`, a.username); err != nil {
			return "", false, err
		}
		return id, false, nil
	}
	if err != nil {
		return "", false, err
	}

	switch a.role {
	case "student":
		_, err = db.ExecContext(ctx,
			`INSERT INTO student_profiles (user_id, skill_level) VALUES ($1, 'Beginner') ON CONFLICT DO NOTHING`, id)
	case "instructor":
		_, err = db.ExecContext(ctx,
			`INSERT INTO instructor_profiles (user_id) VALUES ($1) ON CONFLICT DO NOTHING`, id)
	}
	return id, true, err
}

func seedUniversity(ctx context.Context, db *sqlx.DB, name, city, country, uniType string) (string, error) {
	id := uuid.NewString()
	err := db.GetContext(ctx, &id,
		`INSERT INTO universities (id, name, city, country, type) VALUES ($1, $2, $3, $4, $5)
         ON CONFLICT (name) DO NOTHING
         RETURNING id`,
		id, name, city, country, uniType)
	if errors.Is(err, sql.ErrNoRows) {
		err = db.GetContext(ctx, &id, `SELECT id FROM universities WHERE name = $1`, name)
	}
	if err != nil {
		return "", fmt.Errorf("seed university %s: %w", name, err)
	}
	return id, nil
}

func seedCourse(ctx context.Context, db *sqlx.DB, name string, weeks int, courseType, universityID string) (string, bool, error) {
	id := uuid.NewString()
	err := db.GetContext(ctx, &id,
		`INSERT INTO courses (id, name, duration_weeks, type, university_id) VALUES ($1, $2, $3, $4, $5)
         ON CONFLICT (name) DO NOTHING
         RETURNING id`,
		id, name, weeks, courseType, universityID)
	if errors.Is(err, sql.ErrNoRows) {
		if err := db.GetContext(ctx, &id, `SELECT id FROM courses WHERE name = $1`, name); err != nil {
			return "", false, fmt.Errorf("seed course %s: %w", name, err)
		}
		return id, false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("seed course %s: %w", name, err)
	}
	return id, true, nil
}

func seedEnrollment(ctx context.Context, db *sqlx.DB, studentID, courseID string, marks *float64) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO enrollments (id, student_id, course_id, marks) VALUES ($1, $2, $3, $4)
         ON CONFLICT (student_id, course_id) DO NOTHING`,
		uuid.NewString(), studentID, courseID, marks)
	if err != nil {
		return fmt.Errorf("seed enrollment: %w", err)
	}
	return nil
}

func seedContent(ctx context.Context, db *sqlx.DB, courseID string, materials []material) error {
	moduleID := uuid.NewString()
	if _, err := db.ExecContext(ctx,
		`INSERT INTO course_modules (id, course_id, title, position) VALUES ($1, $2, 'Course Materials', 1)`,
		moduleID, courseID); err != nil {
		return fmt.Errorf("seed module: %w", err)
	}

	topicID := uuid.NewString()
	if _, err := db.ExecContext(ctx,
		`INSERT INTO module_topics (id, module_id, title, position) VALUES ($1, $2, 'Reference Material', 1)`,
		topicID, moduleID); err != nil {
		return fmt.Errorf("seed topic: %w", err)
	}

	subtopicID := uuid.NewString()
	if _, err := db.ExecContext(ctx,
		`INSERT INTO topic_subtopics (id, topic_id, title, position) VALUES ($1, $2, 'Getting Started', 1)`,
		subtopicID, topicID); err != nil {
		return fmt.Errorf("seed subtopic: %w", err)
	}

	for i, m := range materials {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO subtopic_contents (id, subtopic_id, content_type, title, url, duration_minutes, file_format, position)
             VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.NewString(), subtopicID, m.contentType, m.title, m.url, m.duration, m.fileFormat, i+1); err != nil {
			return fmt.Errorf("seed content %s: %w", m.title, err)
		}
	}
	return nil
}
