package services

import (
	"fmt"
	"testing"
	"time"

	"unicampus/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("newTestDB: %v", err)
	}
	// A pooled second connection would see a different :memory: database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("newTestDB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Subject{},
		&models.Enrollment{},
		&models.Evaluation{},
		&models.Question{},
		&models.Attempt{},
		&models.Answer{},
	)
	if err != nil {
		t.Fatalf("newTestDB migrate: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func newTestAttemptService(db *gorm.DB) *AttemptService {
	return NewAttemptService(db, NewSubjectService(db), NewLocalLocker())
}

func createUser(t *testing.T, db *gorm.DB, name, role string) models.User {
	t.Helper()
	user := models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "hashed-password",
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("createUser %s: %v", name, err)
	}
	return user
}

func createSubject(t *testing.T, db *gorm.DB, name string) models.Subject {
	t.Helper()
	subject := models.Subject{Name: name, Code: name + "-101", Year: 1}
	if err := db.Create(&subject).Error; err != nil {
		t.Fatalf("createSubject %s: %v", name, err)
	}
	return subject
}

func enrollStudent(t *testing.T, db *gorm.DB, subjectID, studentID uint) {
	t.Helper()
	enrollment := models.Enrollment{SubjectID: subjectID, StudentID: studentID}
	if err := db.Create(&enrollment).Error; err != nil {
		t.Fatalf("enrollStudent: %v", err)
	}
}

func createEvaluation(t *testing.T, db *gorm.DB, subjectID, professorID uint, limitMinutes int, visibility string) models.Evaluation {
	t.Helper()
	evaluation := models.Evaluation{
		SubjectID:        subjectID,
		ProfessorID:      professorID,
		Title:            "Practical exam",
		Description:      "Timed multiple-choice exam",
		TimeLimitMinutes: limitMinutes,
		Visibility:       visibility,
	}
	if err := db.Create(&evaluation).Error; err != nil {
		t.Fatalf("createEvaluation: %v", err)
	}
	return evaluation
}

func addTestQuestion(t *testing.T, db *gorm.DB, evaluationID uint, position, weight int, correct string) models.Question {
	t.Helper()
	question := models.Question{
		EvaluationID:  evaluationID,
		Statement:     fmt.Sprintf("Question %d", position),
		OptionA:       "option a",
		OptionB:       "option b",
		OptionC:       "option c",
		OptionD:       "option d",
		CorrectOption: correct,
		Explanation:   fmt.Sprintf("Explanation %d", position),
		Weight:        weight,
		Position:      position,
	}
	if err := db.Create(&question).Error; err != nil {
		t.Fatalf("addTestQuestion: %v", err)
	}
	return question
}

// backdateAttempt rewinds an attempt's start timestamp so expiry paths can
// be exercised without a fake clock.
func backdateAttempt(t *testing.T, db *gorm.DB, attemptID uint, by time.Duration) {
	t.Helper()
	err := db.Model(&models.Attempt{}).
		Where("id = ?", attemptID).
		Update("started_at", time.Now().UTC().Add(-by)).Error
	if err != nil {
		t.Fatalf("backdateAttempt: %v", err)
	}
}

func strPtr(s string) *string { return &s }

func assertKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error of kind %d, got nil", kind)
	}
	if got := KindOf(err); got != kind {
		t.Fatalf("expected error kind %d, got %d (%v)", kind, got, err)
	}
}
