package database_test

import (
	"context"
	"testing"
	"time"

	"coursetrack/database"
	"coursetrack/database/testutil"
	"coursetrack/models"
	courseModels "coursetrack/models/course"
	"coursetrack/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEnrollmentCreateRejectsDuplicate(t *testing.T) {
	db := testutil.DB(t)
	c, _, _ := testutil.SeedCourse(t, db, "Dup", 1, 10)
	u := testutil.SeedUser(t, db, "Dup User")
	store := database.NewEnrollmentStore(db, 3)
	ctx := context.Background()

	e, err := store.Create(ctx, u.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, e.Version)

	_, err = store.Create(ctx, u.ID, c.ID)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestEnrollmentMutateBumpsVersion(t *testing.T) {
	db := testutil.DB(t)
	c, _, _ := testutil.SeedCourse(t, db, "Mut", 1, 10)
	u := testutil.SeedUser(t, db, "Mut User")
	testutil.Enroll(t, db, u.ID, c.ID)
	store := database.NewEnrollmentStore(db, 3)
	ctx := context.Background()

	now := time.Now()
	got, err := store.Mutate(ctx, u.ID, c.ID, func(e *courseModels.Enrollment) error {
		e.Progress = append(e.Progress, courseModels.LectureProgress{LectureID: 42, Completed: true, CompletedAt: &now})
		e.OverallProgress = 50
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)

	stored, err := store.Get(ctx, u.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Version)
	assert.Equal(t, 50, stored.OverallProgress)
	require.Len(t, stored.Progress, 1)
	assert.Equal(t, uint(42), stored.Progress[0].LectureID)
}

func TestEnrollmentMutateGivesUpOnConflict(t *testing.T) {
	db := testutil.DB(t)
	c, _, _ := testutil.SeedCourse(t, db, "Conflict", 1, 10)
	u := testutil.SeedUser(t, db, "Conflict User")
	testutil.Enroll(t, db, u.ID, c.ID)
	store := database.NewEnrollmentStore(db, 2)

	calls := 0
	_, err := store.Mutate(context.Background(), u.ID, c.ID, func(e *courseModels.Enrollment) error {
		calls++
		// Another writer sneaks in between read and write every time.
		return db.Model(&courseModels.Enrollment{}).Where("id = ?", e.ID).
			Update("version", gorm.Expr("version + 1")).Error
	})
	assert.ErrorIs(t, err, services.ErrConcurrentUpdate)
	assert.Equal(t, 2, calls)
}

func TestEnrollmentGetMissing(t *testing.T) {
	db := testutil.DB(t)
	_, err := database.NewEnrollmentStore(db, 1).Get(context.Background(), 1, 1)
	assert.ErrorIs(t, err, services.ErrNotEnrolled)
}

func TestPageByCourse(t *testing.T) {
	db := testutil.DB(t)
	c, _, _ := testutil.SeedCourse(t, db, "Paged", 1, 10)
	for _, name := range []string{"P One", "P Two", "P Three"} {
		u := testutil.SeedUser(t, db, name)
		testutil.Enroll(t, db, u.ID, c.ID)
	}
	store := database.NewEnrollmentStore(db, 1)

	page, total, err := store.PageByCourse(context.Background(), c.ID, "", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)

	_, total, err = store.PageByCourse(context.Background(), c.ID, courseModels.EnrollmentCompleted, 0, 2)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestAttemptFreezeOnce(t *testing.T) {
	db := testutil.DB(t)
	c, _, _ := testutil.SeedCourse(t, db, "Freeze", 1, 10)
	q := testutil.SeedQuiz(t, db, c.ID, 50, 2, testutil.FourQuestionQuiz())
	u := testutil.SeedUser(t, db, "Freeze User")
	store := database.NewAttemptStore(db, 3)
	ctx := context.Background()

	a, err := store.Create(ctx, u.ID, q, time.Now())
	require.NoError(t, err)
	assert.Equal(t, courseModels.AttemptOpen, a.Status)

	answers := []courseModels.GradedAnswer{{QuestionID: "q1", GivenAnswer: []string{"B"}, IsCorrect: true}}
	frozen, err := store.Freeze(ctx, a.ID, answers, 25, false, time.Now())
	require.NoError(t, err)
	assert.True(t, frozen.IsSubmitted())
	assert.Equal(t, 25, frozen.Score)
	require.Len(t, frozen.Answers, 1)

	_, err = store.Freeze(ctx, a.ID, nil, 100, true, time.Now())
	assert.ErrorIs(t, err, services.ErrAlreadySubmitted)

	since, err := store.SubmittedSince(ctx, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.Len(t, since, 1)
}

func TestCatalogLectureMustMatchSectionCourse(t *testing.T) {
	db := testutil.DB(t)
	c1, s1, _ := testutil.SeedCourse(t, db, "One", 1, 10)
	c2, _, _ := testutil.SeedCourse(t, db, "Two", 1, 10)
	catalog := database.NewCatalogStore(db)
	ctx := context.Background()

	err := catalog.CreateLecture(ctx, &courseModels.Lecture{CourseID: c2.ID, SectionID: s1.ID, Title: "wrong"})
	assert.ErrorIs(t, err, services.ErrInvalidReference)

	lecture := &courseModels.Lecture{SectionID: s1.ID, Title: "right"}
	require.NoError(t, catalog.CreateLecture(ctx, lecture))
	assert.Equal(t, c1.ID, lecture.CourseID)

	ids, err := catalog.LectureIDs(ctx, c1.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, lecture.ID)
}

func TestCatalogDeleteSectionRemovesLectures(t *testing.T) {
	db := testutil.DB(t)
	c, s, lectures := testutil.SeedCourse(t, db, "Gone", 3, 10)
	catalog := database.NewCatalogStore(db)
	ctx := context.Background()

	_, err := catalog.DeleteSection(ctx, s.ID)
	require.NoError(t, err)

	ids, err := catalog.LectureIDs(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, _, err = catalog.LectureCourse(ctx, lectures[0].ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	outline, err := catalog.Outline(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, outline)
}

func TestCatalogPublishCourse(t *testing.T) {
	db := testutil.DB(t)
	catalog := database.NewCatalogStore(db)
	ctx := context.Background()

	draft := &courseModels.Course{Title: "Draft", Status: "DRAFT"}
	require.NoError(t, catalog.CreateCourse(ctx, draft))

	published, err := catalog.PublishCourse(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", published.Status)
	assert.True(t, published.IsPublished)
}

func TestUserStore(t *testing.T) {
	db := testutil.DB(t)
	users := database.NewUserStore(db)
	ctx := context.Background()

	u := &models.User{Name: "Linus", Email: "linus@example.com", Password: "hash", Role: models.RoleUser}
	require.NoError(t, users.Create(ctx, u))
	err := users.Create(ctx, &models.User{Name: "Other", Email: "linus@example.com", Password: "hash"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	found, err := users.ByEmail(ctx, "linus@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	require.NoError(t, users.TouchLogin(ctx, u.ID, time.Now()))
	_, err = users.ByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, services.ErrNotFound)
}
