package database

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	courseModels "coursetrack/models/course"
	"coursetrack/services"

	"gorm.io/gorm"
)

// EnrollmentStore persists enrollments as single documents guarded by an
// integer version. Every read-modify-write goes through Mutate.
type EnrollmentStore struct {
	db         *gorm.DB
	retryLimit int
}

func NewEnrollmentStore(db *gorm.DB, retryLimit int) *EnrollmentStore {
	if retryLimit < 1 {
		retryLimit = 1
	}
	return &EnrollmentStore{db: db, retryLimit: retryLimit}
}

// Create enrolls a learner; a second enrollment for the same pair returns gorm.ErrDuplicatedKey.
func (s *EnrollmentStore) Create(ctx context.Context, userID, courseID uint) (*courseModels.Enrollment, error) {
	enrollment := courseModels.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   courseModels.EnrollmentEnrolled,
		Version:  1,
	}
	if err := s.db.WithContext(ctx).Create(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (s *EnrollmentStore) Get(ctx context.Context, userID, courseID uint) (*courseModels.Enrollment, error) {
	var enrollment courseModels.Enrollment
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d course %d: %w", userID, courseID, services.ErrNotEnrolled)
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (s *EnrollmentStore) ListByCourse(ctx context.Context, courseID uint) ([]courseModels.Enrollment, error) {
	var enrollments []courseModels.Enrollment
	err := s.db.WithContext(ctx).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("id asc").
		Find(&enrollments).Error
	return enrollments, err
}

func (s *EnrollmentStore) ListByUser(ctx context.Context, userID uint) ([]courseModels.Enrollment, error) {
	var enrollments []courseModels.Enrollment
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").
		Find(&enrollments).Error
	return enrollments, err
}

// PageByCourse returns one page of a course's enrollments, optionally
// filtered by status, along with the unpaged total.
func (s *EnrollmentStore) PageByCourse(ctx context.Context, courseID uint, status string, offset, limit int) ([]courseModels.Enrollment, int64, error) {
	db := s.db.WithContext(ctx).Model(&courseModels.Enrollment{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false)
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var enrollments []courseModels.Enrollment
	err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&enrollments).Error
	return enrollments, total, err
}

// Mutate loads the enrollment, applies fn to a private copy and writes it back
// only if nobody else wrote in between. Conflicts are retried up to the retry
// limit, after which services.ErrConcurrentUpdate is returned. An error from
// fn aborts without writing. Certificate columns are never written here.
func (s *EnrollmentStore) Mutate(ctx context.Context, userID, courseID uint, fn func(*courseModels.Enrollment) error) (*courseModels.Enrollment, error) {
	for attempt := 0; attempt < s.retryLimit; attempt++ {
		current, err := s.Get(ctx, userID, courseID)
		if err != nil {
			return nil, err
		}
		next := current.Clone()
		if err := fn(next); err != nil {
			return nil, err
		}

		res := s.db.WithContext(ctx).
			Model(&courseModels.Enrollment{}).
			Where("id = ? AND version = ?", current.ID, current.Version).
			Updates(map[string]interface{}{
				"status":             next.Status,
				"progress":           next.Progress,
				"quiz_results":       next.QuizResults,
				"overall_progress":   next.OverallProgress,
				"completed_lectures": next.CompletedLectures,
				"completed_at":       next.CompletedAt,
				"last_accessed_at":   next.LastAccessedAt,
				"version":            current.Version + 1,
			})
		if res.Error != nil {
			return nil, fmt.Errorf("update enrollment %d: %w", current.ID, res.Error)
		}
		if res.RowsAffected == 1 {
			next.Version = current.Version + 1
			return next, nil
		}

		if err := sleepBackoff(ctx, attempt); err != nil {
			return nil, err
		}
	}
	return nil, services.ErrConcurrentUpdate
}

// sleepBackoff waits a short jittered interval that grows with attempt.
func sleepBackoff(ctx context.Context, attempt int) error {
	base := time.Duration(attempt+1) * 2 * time.Millisecond
	wait := base + time.Duration(rand.Int63n(int64(base)))
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
