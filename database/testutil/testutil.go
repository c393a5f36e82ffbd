// Package testutil opens throwaway sqlite databases and seeds course data for tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"coursetrack/database"
	"coursetrack/models"
	courseModels "coursetrack/models/course"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB returns a migrated in-memory sqlite database private to tb. It uses a
// single connection so concurrent goroutines interleave statement by statement.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(tb.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.RunMigrations(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

func SeedUser(tb testing.TB, db *gorm.DB, name string) *models.User {
	tb.Helper()
	u := &models.User{
		Name:     name,
		Email:    strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		Password: "pw",
		Role:     models.RoleUser,
	}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedCourse creates a course with one section holding n lectures of
// durationSeconds each.
func SeedCourse(tb testing.TB, db *gorm.DB, title string, n int, durationSeconds int64) (*courseModels.Course, *courseModels.Section, []courseModels.Lecture) {
	tb.Helper()
	c := &courseModels.Course{Title: title, Status: "ACTIVE", IsPublished: true}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	s := &courseModels.Section{CourseID: c.ID, Title: title + " section"}
	if err := db.Create(s).Error; err != nil {
		tb.Fatalf("seed section: %v", err)
	}
	lectures := make([]courseModels.Lecture, n)
	for i := range lectures {
		lectures[i] = courseModels.Lecture{
			CourseID:        c.ID,
			SectionID:       s.ID,
			Title:           fmt.Sprintf("%s lecture %d", title, i+1),
			DurationSeconds: durationSeconds,
			OrderIndex:      i,
		}
		if err := db.Create(&lectures[i]).Error; err != nil {
			tb.Fatalf("seed lecture: %v", err)
		}
	}
	return c, s, lectures
}

func SeedQuiz(tb testing.TB, db *gorm.DB, courseID uint, passingScore, maxAttempts int, questions []courseModels.Question) *courseModels.Quiz {
	tb.Helper()
	q := &courseModels.Quiz{
		CourseID:     courseID,
		Title:        "quiz",
		Questions:    datatypes.NewJSONSlice(questions),
		PassingScore: passingScore,
		MaxAttempts:  maxAttempts,
		IsPublished:  true,
	}
	if err := db.Create(q).Error; err != nil {
		tb.Fatalf("seed quiz: %v", err)
	}
	return q
}

func Enroll(tb testing.TB, db *gorm.DB, userID, courseID uint) *courseModels.Enrollment {
	tb.Helper()
	e, err := database.NewEnrollmentStore(db, 1).Create(context.Background(), userID, courseID)
	if err != nil {
		tb.Fatalf("enroll: %v", err)
	}
	return e
}

// FourQuestionQuiz returns one question of each type plus a second single-choice.
func FourQuestionQuiz() []courseModels.Question {
	return []courseModels.Question{
		{ID: "q1", Type: courseModels.QuestionSingleChoice, Options: []string{"A", "B", "C"}, CorrectAnswer: "B"},
		{ID: "q2", Type: courseModels.QuestionTrueFalse, Options: []string{"true", "false"}, CorrectAnswer: "true"},
		{ID: "q3", Type: courseModels.QuestionMultipleSelect, Options: []string{"A", "B", "C"}, CorrectAnswers: []string{"A", "C"}},
		{ID: "q4", Type: courseModels.QuestionSingleChoice, Options: []string{"X", "Y"}, CorrectAnswer: "X"},
	}
}
