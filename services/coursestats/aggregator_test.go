package coursestats_test

import (
	"context"
	"testing"

	"coursetrack/database"
	"coursetrack/database/testutil"
	"coursetrack/logger"
	"coursetrack/models/course"
	"coursetrack/services/coursestats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func section(id, courseID uint) course.Section {
	s := course.Section{CourseID: courseID}
	s.ID = id
	return s
}

func lecture(courseID, sectionID uint, duration int64) course.Lecture {
	return course.Lecture{CourseID: courseID, SectionID: sectionID, DurationSeconds: duration}
}

func TestRecomputeCountsOnlyTheCourse(t *testing.T) {
	stats := coursestats.Recompute(1,
		[]course.Section{section(10, 1), section(11, 1), section(20, 2)},
		[]course.Lecture{
			lecture(1, 10, 300),
			lecture(1, 10, 200),
			lecture(1, 11, 100),
			lecture(2, 20, 999),
		})

	assert.Equal(t, 2, stats.TotalSections)
	assert.Equal(t, 3, stats.TotalLectures)
	assert.Equal(t, int64(600), stats.TotalDurationSeconds)
	assert.Equal(t, map[uint]int{10: 2, 11: 1}, stats.SectionLectures)
}

func TestRecomputeEmptyCourse(t *testing.T) {
	stats := coursestats.Recompute(1, nil, nil)
	assert.Zero(t, stats.TotalLectures)
	assert.Empty(t, stats.SectionLectures)
}

func TestAggregatorPersistsTotals(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	c, s, lectures := testutil.SeedCourse(t, db, "Go", 3, 120)
	catalog := database.NewCatalogStore(db)
	agg := coursestats.NewAggregator(catalog, logger.Nop())

	stats, err := agg.Recompute(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalLectures)

	_, err = catalog.DeleteLecture(ctx, lectures[0].ID)
	require.NoError(t, err)
	_, err = agg.Recompute(ctx, c.ID)
	require.NoError(t, err)

	stored, err := catalog.Course(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.TotalSections)
	assert.Equal(t, 2, stored.TotalLectures)
	assert.Equal(t, int64(240), stored.TotalDurationSeconds)

	sec, err := catalog.Section(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, sec.TotalLectures)
}
