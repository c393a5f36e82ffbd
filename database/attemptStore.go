package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	courseModels "coursetrack/models/course"
	"coursetrack/services"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AttemptStore persists quiz attempts. The unique index on
// (user_id, quiz_id, attempt_number) makes concurrent starts for the same
// learner collide instead of both slipping under the attempt limit.
type AttemptStore struct {
	db         *gorm.DB
	retryLimit int
}

func NewAttemptStore(db *gorm.DB, retryLimit int) *AttemptStore {
	if retryLimit < 1 {
		retryLimit = 1
	}
	return &AttemptStore{db: db, retryLimit: retryLimit}
}

// Create counts existing attempts and inserts the next one. A duplicate
// attempt number means another start won the race; recount and try again.
func (s *AttemptStore) Create(ctx context.Context, userID uint, quiz *courseModels.Quiz, startedAt time.Time) (*courseModels.QuizAttempt, error) {
	maxAttempts := quiz.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 0; attempt < s.retryLimit; attempt++ {
		var count int64
		if err := s.db.WithContext(ctx).
			Model(&courseModels.QuizAttempt{}).
			Where("user_id = ? AND quiz_id = ?", userID, quiz.ID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if int(count) >= maxAttempts {
			return nil, fmt.Errorf("quiz %d allows %d attempts: %w", quiz.ID, maxAttempts, services.ErrAttemptLimitExceeded)
		}

		row := courseModels.QuizAttempt{
			UserID:        userID,
			QuizID:        quiz.ID,
			CourseID:      quiz.CourseID,
			AttemptNumber: int(count) + 1,
			Status:        courseModels.AttemptOpen,
			StartedAt:     startedAt,
			Answers:       datatypes.JSONSlice[courseModels.GradedAnswer]{},
		}
		err := s.db.WithContext(ctx).Create(&row).Error
		if err == nil {
			return &row, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		if err := sleepBackoff(ctx, attempt); err != nil {
			return nil, err
		}
	}
	return nil, services.ErrConcurrentUpdate
}

func (s *AttemptStore) Get(ctx context.Context, attemptID uint) (*courseModels.QuizAttempt, error) {
	var row courseModels.QuizAttempt
	err := s.db.WithContext(ctx).First(&row, attemptID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("attempt %d: %w", attemptID, services.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Freeze moves an OPEN attempt to SUBMITTED with its graded answers. The
// status guard in the WHERE clause lets exactly one submission through.
func (s *AttemptStore) Freeze(ctx context.Context, attemptID uint, answers []courseModels.GradedAnswer, score int, passed bool, at time.Time) (*courseModels.QuizAttempt, error) {
	res := s.db.WithContext(ctx).
		Model(&courseModels.QuizAttempt{}).
		Where("id = ? AND status = ? AND completed_at IS NULL", attemptID, courseModels.AttemptOpen).
		Updates(map[string]interface{}{
			"status":       courseModels.AttemptSubmitted,
			"answers":      datatypes.NewJSONSlice(answers),
			"score":        score,
			"passed":       passed,
			"completed_at": at,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("freeze attempt %d: %w", attemptID, res.Error)
	}

	row, err := s.Get(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("attempt %d: %w", attemptID, services.ErrAlreadySubmitted)
	}
	return row, nil
}

func (s *AttemptStore) ListByUserQuiz(ctx context.Context, userID, quizID uint) ([]courseModels.QuizAttempt, error) {
	var rows []courseModels.QuizAttempt
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("attempt_number asc").
		Find(&rows).Error
	return rows, err
}

func (s *AttemptStore) SubmittedSince(ctx context.Context, since time.Time) ([]courseModels.QuizAttempt, error) {
	var rows []courseModels.QuizAttempt
	err := s.db.WithContext(ctx).
		Where("status = ? AND completed_at >= ?", courseModels.AttemptSubmitted, since).
		Order("completed_at asc").
		Find(&rows).Error
	return rows, err
}
