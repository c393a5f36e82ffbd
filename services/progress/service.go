package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coursetrack/logger"
	"coursetrack/models/course"
	"coursetrack/services"
)

// EnrollmentStore is the persistence collaborator for enrollments. Mutate must
// apply fn atomically against the latest stored version of the document.
type EnrollmentStore interface {
	Get(ctx context.Context, userID, courseID uint) (*course.Enrollment, error)
	Mutate(ctx context.Context, userID, courseID uint, fn func(*course.Enrollment) error) (*course.Enrollment, error)
	ListByCourse(ctx context.Context, courseID uint) ([]course.Enrollment, error)
}

// Catalog answers structural questions about course content.
type Catalog interface {
	LectureCourse(ctx context.Context, lectureID uint) (courseID, sectionID uint, err error)
	LectureIDs(ctx context.Context, courseID uint) ([]uint, error)
	Outline(ctx context.Context, courseID uint) ([]course.SectionOutline, error)
}

// Notifier receives fire-and-forget lifecycle events.
type Notifier interface {
	CourseCompleted(ctx context.Context, userID, courseID uint)
}

type Tracker struct {
	store    EnrollmentStore
	catalog  Catalog
	notifier Notifier
	log      *logger.Logger
	now      func() time.Time
}

func NewTracker(store EnrollmentStore, catalog Catalog, notifier Notifier, log *logger.Logger) *Tracker {
	return &Tracker{
		store:    store,
		catalog:  catalog,
		notifier: notifier,
		log:      log.With("component", "progress"),
		now:      time.Now,
	}
}

// SetClock overrides the time source.
func (t *Tracker) SetClock(now func() time.Time) { t.now = now }

func (t *Tracker) MarkLectureWatched(ctx context.Context, userID, courseID, lectureID uint, watchTimeSeconds float64) (*course.Enrollment, error) {
	if err := t.checkLecture(ctx, courseID, lectureID); err != nil {
		return nil, err
	}
	return t.store.Mutate(ctx, userID, courseID, func(e *course.Enrollment) error {
		live, err := t.catalog.LectureIDs(ctx, courseID)
		if err != nil {
			return err
		}
		now := t.now()
		MarkLectureWatched(e, lectureID, watchTimeSeconds, now)
		RecomputeAggregate(e, live, now)
		return nil
	})
}

func (t *Tracker) MarkLectureCompleted(ctx context.Context, userID, courseID, lectureID uint) (*course.Enrollment, error) {
	if err := t.checkLecture(ctx, courseID, lectureID); err != nil {
		return nil, err
	}

	var reachedCompletion bool
	e, err := t.store.Mutate(ctx, userID, courseID, func(e *course.Enrollment) error {
		live, err := t.catalog.LectureIDs(ctx, courseID)
		if err != nil {
			return err
		}
		now := t.now()
		MarkLectureCompleted(e, lectureID, now)
		reachedCompletion = RecomputeAggregate(e, live, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.log.Info("lecture completed",
		"user_id", userID, "course_id", courseID, "lecture_id", lectureID,
		"overall_progress", e.OverallProgress)
	if reachedCompletion {
		t.notify(userID, courseID)
	}
	return e, nil
}

// RecomputeCourse re-derives every enrollment of a course. It is called after
// a lecture is added to or removed from the course.
func (t *Tracker) RecomputeCourse(ctx context.Context, courseID uint) (int, error) {
	enrollments, err := t.store.ListByCourse(ctx, courseID)
	if err != nil {
		return 0, err
	}

	var errs []error
	updated := 0
	for _, en := range enrollments {
		if _, err := t.Recompute(ctx, en.UserID, courseID); err != nil {
			errs = append(errs, fmt.Errorf("enrollment %d: %w", en.ID, err))
			continue
		}
		updated++
	}
	t.log.Info("course progress recomputed", "course_id", courseID, "enrollments", updated)
	return updated, errors.Join(errs...)
}

// Recompute re-derives the aggregate for one enrollment against the current
// lectures of its course. The live lecture set is read on every Mutate
// attempt so a retry never persists a percentage against a superseded course
// structure.
func (t *Tracker) Recompute(ctx context.Context, userID, courseID uint) (*course.Enrollment, error) {
	var reachedCompletion bool
	e, err := t.store.Mutate(ctx, userID, courseID, func(e *course.Enrollment) error {
		live, err := t.catalog.LectureIDs(ctx, courseID)
		if err != nil {
			return err
		}
		reachedCompletion = RecomputeAggregate(e, live, t.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	if reachedCompletion {
		t.notify(userID, courseID)
	}
	return e, nil
}

// Report is the learner-facing view of an enrollment's progress.
type Report struct {
	Enrollment          *course.Enrollment `json:"enrollment"`
	CompletedLectureIDs []uint             `json:"completed_ids"`
	Sections            []SectionProgress  `json:"module_progress"`
}

type SectionProgress struct {
	SectionID         uint   `json:"module_id"`
	SectionName       string `json:"module_name"`
	TotalLectures     int    `json:"total_contents"`
	CompletedLectures int    `json:"completed_contents"`
	Progress          int    `json:"progress"`
}

func (t *Tracker) Report(ctx context.Context, userID, courseID uint) (*Report, error) {
	e, err := t.store.Get(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	outline, err := t.catalog.Outline(ctx, courseID)
	if err != nil {
		return nil, err
	}

	done := make(map[uint]bool, len(e.Progress))
	for _, p := range e.Progress {
		if p.Completed {
			done[p.LectureID] = true
		}
	}

	completedIDs := make([]uint, 0, len(done))

	sections := make([]SectionProgress, len(outline))
	for i, s := range outline {
		completed := 0
		for _, id := range s.LectureIDs {
			if done[id] {
				completed++
				completedIDs = append(completedIDs, id)
			}
		}
		sections[i] = SectionProgress{
			SectionID:         s.SectionID,
			SectionName:       s.Title,
			TotalLectures:     len(s.LectureIDs),
			CompletedLectures: completed,
			Progress:          Percent(completed, len(s.LectureIDs)),
		}
	}

	return &Report{Enrollment: e, CompletedLectureIDs: completedIDs, Sections: sections}, nil
}

// checkLecture verifies the lecture is live and belongs to courseID.
func (t *Tracker) checkLecture(ctx context.Context, courseID, lectureID uint) error {
	owner, _, err := t.catalog.LectureCourse(ctx, lectureID)
	if err != nil {
		return err
	}
	if owner != courseID {
		return fmt.Errorf("lecture %d: %w", lectureID, services.ErrInvalidReference)
	}
	return nil
}

func (t *Tracker) notify(userID, courseID uint) {
	if t.notifier == nil {
		return
	}
	go t.notifier.CourseCompleted(context.Background(), userID, courseID)
}
