package progress_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"coursetrack/database"
	"coursetrack/database/testutil"
	"coursetrack/logger"
	"coursetrack/models/course"
	"coursetrack/services"
	"coursetrack/services/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type completionRecorder struct {
	mu     sync.Mutex
	events []uint
	done   chan struct{}
}

func newCompletionRecorder() *completionRecorder {
	return &completionRecorder{done: make(chan struct{}, 16)}
}

func (r *completionRecorder) CourseCompleted(_ context.Context, userID, _ uint) {
	r.mu.Lock()
	r.events = append(r.events, userID)
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *completionRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func setup(t *testing.T, lectures int, retryLimit int) (*progress.Tracker, *database.CatalogStore, *course.Course, []course.Lecture, uint, *completionRecorder) {
	t.Helper()
	db := testutil.DB(t)
	c, _, ls := testutil.SeedCourse(t, db, "Intro", lectures, 60)
	u := testutil.SeedUser(t, db, "Ada Lovelace")
	testutil.Enroll(t, db, u.ID, c.ID)

	catalog := database.NewCatalogStore(db)
	rec := newCompletionRecorder()
	tracker := progress.NewTracker(database.NewEnrollmentStore(db, retryLimit), catalog, rec, logger.Nop())
	return tracker, catalog, c, ls, u.ID, rec
}

func TestCompletingLecturesRaisesProgress(t *testing.T) {
	tracker, _, c, lectures, userID, rec := setup(t, 10, 5)
	ctx := context.Background()

	var e *course.Enrollment
	var err error
	for i := 0; i < 3; i++ {
		e, err = tracker.MarkLectureCompleted(ctx, userID, c.ID, lectures[i].ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 30, e.OverallProgress)
	assert.Equal(t, 3, e.CompletedLectures)
	assert.Equal(t, course.EnrollmentInProgress, e.Status)
	assert.Nil(t, e.CompletedAt)

	// Completing the same lecture again changes nothing.
	again, err := tracker.MarkLectureCompleted(ctx, userID, c.ID, lectures[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 30, again.OverallProgress)
	assert.Len(t, again.Progress, 3)

	for i := 3; i < 10; i++ {
		e, err = tracker.MarkLectureCompleted(ctx, userID, c.ID, lectures[i].ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 100, e.OverallProgress)
	assert.Equal(t, course.EnrollmentCompleted, e.Status)
	require.NotNil(t, e.CompletedAt)

	select {
	case <-rec.done:
	case <-time.After(time.Second):
		t.Fatal("completion notification not sent")
	}
	assert.Equal(t, 1, rec.count())
}

func TestWatchDoesNotComplete(t *testing.T) {
	tracker, _, c, lectures, userID, _ := setup(t, 2, 5)
	ctx := context.Background()

	_, err := tracker.MarkLectureWatched(ctx, userID, c.ID, lectures[0].ID, 90)
	require.NoError(t, err)
	e, err := tracker.MarkLectureWatched(ctx, userID, c.ID, lectures[0].ID, 30)
	require.NoError(t, err)

	require.Len(t, e.Progress, 1)
	assert.Equal(t, 30.0, e.Progress[0].WatchTimeSeconds)
	assert.False(t, e.Progress[0].Completed)
	assert.Equal(t, 0, e.OverallProgress)
	assert.Equal(t, course.EnrollmentInProgress, e.Status)
}

func TestLectureReferenceErrors(t *testing.T) {
	tracker, _, c, lectures, userID, _ := setup(t, 1, 5)
	ctx := context.Background()

	_, err := tracker.MarkLectureCompleted(ctx, userID, c.ID, 9999)
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = tracker.MarkLectureCompleted(ctx, userID, c.ID+100, lectures[0].ID)
	assert.ErrorIs(t, err, services.ErrInvalidReference)

	_, err = tracker.MarkLectureCompleted(ctx, userID+100, c.ID, lectures[0].ID)
	assert.ErrorIs(t, err, services.ErrNotEnrolled)
}

func TestConcurrentCompletionsAreAllKept(t *testing.T) {
	tracker, _, c, lectures, userID, _ := setup(t, 8, 200)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, len(lectures))
	for i := range lectures {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = tracker.MarkLectureCompleted(ctx, userID, c.ID, lectures[i].ID)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	report, err := tracker.Report(ctx, userID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, report.Enrollment.OverallProgress)
	assert.Len(t, report.CompletedLectureIDs, len(lectures))
}

func TestRecomputeCourseAfterLectureAdded(t *testing.T) {
	tracker, catalog, c, lectures, userID, _ := setup(t, 2, 5)
	ctx := context.Background()

	for _, l := range lectures {
		_, err := tracker.MarkLectureCompleted(ctx, userID, c.ID, l.ID)
		require.NoError(t, err)
	}

	require.NoError(t, catalog.CreateLecture(ctx, &course.Lecture{SectionID: lectures[0].SectionID, Title: "bonus"}))
	n, err := tracker.RecomputeCourse(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	report, err := tracker.Report(ctx, userID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 67, report.Enrollment.OverallProgress)
	assert.NotNil(t, report.Enrollment.CompletedAt, "completion stamp survives a drop below 100")
	require.Len(t, report.Sections, 1)
	assert.Equal(t, 3, report.Sections[0].TotalLectures)
	assert.Equal(t, 2, report.Sections[0].CompletedLectures)
}

// shiftingCatalog adds a lecture and recomputes the course right after the
// first lecture-set read, as an admin edit landing mid-request would.
type shiftingCatalog struct {
	*database.CatalogStore
	once  sync.Once
	shift func()
}

func (c *shiftingCatalog) LectureIDs(ctx context.Context, courseID uint) ([]uint, error) {
	ids, err := c.CatalogStore.LectureIDs(ctx, courseID)
	c.once.Do(c.shift)
	return ids, err
}

func TestCompletionRereadsLecturesOnRetry(t *testing.T) {
	db := testutil.DB(t)
	c, s, lectures := testutil.SeedCourse(t, db, "Shifting", 2, 60)
	u := testutil.SeedUser(t, db, "Alan Turing")
	testutil.Enroll(t, db, u.ID, c.ID)
	ctx := context.Background()

	catalog := database.NewCatalogStore(db)
	enrollments := database.NewEnrollmentStore(db, 5)
	admin := progress.NewTracker(enrollments, catalog, nil, logger.Nop())
	_, err := admin.MarkLectureCompleted(ctx, u.ID, c.ID, lectures[0].ID)
	require.NoError(t, err)

	shifting := &shiftingCatalog{CatalogStore: catalog}
	shifting.shift = func() {
		require.NoError(t, catalog.CreateLecture(ctx, &course.Lecture{SectionID: s.ID, Title: "late addition"}))
		_, err := admin.RecomputeCourse(ctx, c.ID)
		require.NoError(t, err)
	}
	learner := progress.NewTracker(enrollments, shifting, nil, logger.Nop())

	e, err := learner.MarkLectureCompleted(ctx, u.ID, c.ID, lectures[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, e.CompletedLectures)
	assert.Equal(t, 67, e.OverallProgress)
	assert.Equal(t, course.EnrollmentInProgress, e.Status)
	assert.Nil(t, e.CompletedAt)

	stored, err := enrollments.Get(ctx, u.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 67, stored.OverallProgress)
}

func TestDeletedLectureCompletionNoLongerCounts(t *testing.T) {
	tracker, catalog, c, lectures, userID, rec := setup(t, 2, 5)
	ctx := context.Background()

	_, err := tracker.MarkLectureCompleted(ctx, userID, c.ID, lectures[0].ID)
	require.NoError(t, err)

	_, err = catalog.DeleteLecture(ctx, lectures[0].ID)
	require.NoError(t, err)
	_, err = tracker.RecomputeCourse(ctx, c.ID)
	require.NoError(t, err)

	report, err := tracker.Report(ctx, userID, c.ID)
	require.NoError(t, err)
	assert.Zero(t, report.Enrollment.OverallProgress)
	assert.Zero(t, report.Enrollment.CompletedLectures)
	assert.Nil(t, report.Enrollment.CompletedAt)
	assert.Empty(t, report.CompletedLectureIDs)
	assert.Zero(t, rec.count())

	// Finishing the one remaining lecture completes the course.
	e, err := tracker.MarkLectureCompleted(ctx, userID, c.ID, lectures[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 100, e.OverallProgress)
	assert.Equal(t, 1, e.CompletedLectures)
}
