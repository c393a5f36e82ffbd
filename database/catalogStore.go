package database

import (
	"context"
	"errors"
	"fmt"

	"coursetrack/models"
	courseModels "coursetrack/models/course"
	"coursetrack/services"

	"gorm.io/gorm"
)

// CatalogStore answers content questions for the core and applies admin
// structural edits to sections, lectures and quizzes.
type CatalogStore struct {
	db *gorm.DB
}

func NewCatalogStore(db *gorm.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

func (s *CatalogStore) Course(ctx context.Context, courseID uint) (*courseModels.Course, error) {
	var row courseModels.Course
	err := s.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", courseID, false).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("course %d: %w", courseID, services.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *CatalogStore) CreateCourse(ctx context.Context, row *courseModels.Course) error {
	return s.db.WithContext(ctx).Create(row).Error
}

// PublishCourse makes a course visible to learners.
func (s *CatalogStore) PublishCourse(ctx context.Context, courseID uint) (*courseModels.Course, error) {
	course, err := s.Course(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(course).Updates(map[string]interface{}{
		"status":       "ACTIVE",
		"is_published": true,
	}).Error; err != nil {
		return nil, err
	}
	return s.Course(ctx, courseID)
}

func (s *CatalogStore) Lecture(ctx context.Context, lectureID uint) (*courseModels.Lecture, error) {
	var row courseModels.Lecture
	err := s.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", lectureID, false).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lecture %d: %w", lectureID, services.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// LectureCourse returns the owning course and section of a live lecture.
func (s *CatalogStore) LectureCourse(ctx context.Context, lectureID uint) (uint, uint, error) {
	lecture, err := s.Lecture(ctx, lectureID)
	if err != nil {
		return 0, 0, err
	}
	return lecture.CourseID, lecture.SectionID, nil
}

// LectureIDs lists the live lectures of a course straight from the lecture
// rows, not from the cached course totals.
func (s *CatalogStore) LectureIDs(ctx context.Context, courseID uint) ([]uint, error) {
	ids := []uint{}
	err := s.db.WithContext(ctx).
		Model(&courseModels.Lecture{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("id asc").
		Pluck("id", &ids).Error
	return ids, err
}

func (s *CatalogStore) Outline(ctx context.Context, courseID uint) ([]courseModels.SectionOutline, error) {
	sections, lectures, err := s.structure(s.db.WithContext(ctx), courseID)
	if err != nil {
		return nil, err
	}

	index := make(map[uint]int, len(sections))
	outline := make([]courseModels.SectionOutline, len(sections))
	for i, sec := range sections {
		index[sec.ID] = i
		outline[i] = courseModels.SectionOutline{SectionID: sec.ID, Title: sec.Title, LectureIDs: []uint{}}
	}
	for _, l := range lectures {
		if i, ok := index[l.SectionID]; ok {
			outline[i].LectureIDs = append(outline[i].LectureIDs, l.ID)
		}
	}
	return outline, nil
}

// RebuildStats loads the live structure of a course, computes its totals and
// stores them on the course and its sections in one transaction.
func (s *CatalogStore) RebuildStats(ctx context.Context, courseID uint, compute func([]courseModels.Section, []courseModels.Lecture) courseModels.CourseStats) (courseModels.CourseStats, error) {
	var stats courseModels.CourseStats
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sections, lectures, err := s.structure(tx, courseID)
		if err != nil {
			return err
		}
		var exists int64
		if err := tx.Model(&courseModels.Course{}).Where("id = ?", courseID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return fmt.Errorf("course %d: %w", courseID, services.ErrNotFound)
		}
		stats = compute(sections, lectures)

		if err := tx.Model(&courseModels.Course{}).
			Where("id = ?", courseID).
			Updates(map[string]interface{}{
				"total_sections":         stats.TotalSections,
				"total_lectures":         stats.TotalLectures,
				"total_duration_seconds": stats.TotalDurationSeconds,
			}).Error; err != nil {
			return err
		}

		for sectionID, n := range stats.SectionLectures {
			if err := tx.Model(&courseModels.Section{}).
				Where("id = ?", sectionID).
				Update("total_lectures", n).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return stats, err
}

func (s *CatalogStore) structure(db *gorm.DB, courseID uint) ([]courseModels.Section, []courseModels.Lecture, error) {
	var sections []courseModels.Section
	if err := db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc, id asc").
		Find(&sections).Error; err != nil {
		return nil, nil, err
	}
	var lectures []courseModels.Lecture
	if err := db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc, id asc").
		Find(&lectures).Error; err != nil {
		return nil, nil, err
	}
	return sections, lectures, nil
}

func (s *CatalogStore) Section(ctx context.Context, sectionID uint) (*courseModels.Section, error) {
	var row courseModels.Section
	err := s.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", sectionID, false).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("section %d: %w", sectionID, services.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *CatalogStore) CreateSection(ctx context.Context, row *courseModels.Section) error {
	if _, err := s.Course(ctx, row.CourseID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(row).Error
}

func (s *CatalogStore) UpdateSection(ctx context.Context, sectionID uint, updates map[string]interface{}) (*courseModels.Section, error) {
	if err := s.db.WithContext(ctx).Model(&courseModels.Section{}).
		Where("id = ? AND is_deleted = ?", sectionID, false).
		Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Section(ctx, sectionID)
}

// DeleteSection soft-deletes a section together with its lectures.
func (s *CatalogStore) DeleteSection(ctx context.Context, sectionID uint) (*courseModels.Section, error) {
	section, err := s.Section(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&courseModels.Lecture{}).
			Where("section_id = ?", sectionID).
			Update("is_deleted", true).Error; err != nil {
			return err
		}
		return tx.Model(section).Update("is_deleted", true).Error
	})
	return section, err
}

// CreateLecture adds a lecture to a section; the section decides the course.
func (s *CatalogStore) CreateLecture(ctx context.Context, row *courseModels.Lecture) error {
	section, err := s.Section(ctx, row.SectionID)
	if err != nil {
		return err
	}
	if row.CourseID != 0 && row.CourseID != section.CourseID {
		return fmt.Errorf("section %d: %w", row.SectionID, services.ErrInvalidReference)
	}
	row.CourseID = section.CourseID
	return s.db.WithContext(ctx).Create(row).Error
}

func (s *CatalogStore) UpdateLecture(ctx context.Context, lectureID uint, updates map[string]interface{}) (*courseModels.Lecture, error) {
	if err := s.db.WithContext(ctx).Model(&courseModels.Lecture{}).
		Where("id = ? AND is_deleted = ?", lectureID, false).
		Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Lecture(ctx, lectureID)
}

func (s *CatalogStore) DeleteLecture(ctx context.Context, lectureID uint) (*courseModels.Lecture, error) {
	lecture, err := s.Lecture(ctx, lectureID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(lecture).Update("is_deleted", true).Error; err != nil {
		return nil, err
	}
	return lecture, nil
}

func (s *CatalogStore) Quiz(ctx context.Context, quizID uint) (*courseModels.Quiz, error) {
	var row courseModels.Quiz
	err := s.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", quizID, false).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("quiz %d: %w", quizID, services.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *CatalogStore) DeleteQuiz(ctx context.Context, quizID uint) (*courseModels.Quiz, error) {
	quiz, err := s.Quiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(quiz).Update("is_deleted", true).Error; err != nil {
		return nil, err
	}
	return quiz, nil
}

// QuizForGrading loads a quiz whether or not it has since been deleted, so an
// attempt opened before the deletion can still be graded and closed.
func (s *CatalogStore) QuizForGrading(ctx context.Context, quizID uint) (*courseModels.Quiz, error) {
	var row courseModels.Quiz
	err := s.db.WithContext(ctx).Where("id = ?", quizID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("quiz %d: %w", quizID, services.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *CatalogStore) CreateQuiz(ctx context.Context, row *courseModels.Quiz) error {
	if _, err := s.Course(ctx, row.CourseID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(row).Error
}

func (s *CatalogStore) StudentName(ctx context.Context, userID uint) (string, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("user %d: %w", userID, services.ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return user.Name, nil
}

func (s *CatalogStore) CourseName(ctx context.Context, courseID uint) (string, error) {
	c, err := s.Course(ctx, courseID)
	if err != nil {
		return "", err
	}
	return c.Title, nil
}

// Contact returns the display name and email address of a learner.
func (s *CatalogStore) Contact(ctx context.Context, userID uint) (string, string, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", "", fmt.Errorf("user %d: %w", userID, services.ErrNotFound)
	}
	if err != nil {
		return "", "", err
	}
	return user.Name, user.Email, nil
}

func (s *CatalogStore) QuizTitle(ctx context.Context, quizID uint) (string, error) {
	q, err := s.Quiz(ctx, quizID)
	if err != nil {
		return "", err
	}
	return q.Title, nil
}
