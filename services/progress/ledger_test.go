package progress

import (
	"math"
	"testing"
	"time"

	"coursetrack/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func TestMarkLectureWatchedLastWriteWins(t *testing.T) {
	e := &course.Enrollment{}

	MarkLectureWatched(e, 7, 120, t0)
	MarkLectureWatched(e, 7, 45, t0.Add(time.Minute))

	require.Len(t, e.Progress, 1)
	assert.Equal(t, 45.0, e.Progress[0].WatchTimeSeconds)
	assert.False(t, e.Progress[0].Completed)
	assert.Equal(t, t0.Add(time.Minute), *e.Progress[0].LastWatchedAt)
	assert.Equal(t, t0.Add(time.Minute), *e.LastAccessedAt)
}

func TestMarkLectureWatchedClampsBadInput(t *testing.T) {
	e := &course.Enrollment{}
	MarkLectureWatched(e, 1, -5, t0)
	MarkLectureWatched(e, 2, math.NaN(), t0)

	assert.Equal(t, 0.0, e.Progress[0].WatchTimeSeconds)
	assert.Equal(t, 0.0, e.Progress[1].WatchTimeSeconds)
}

func TestMarkLectureWatchedKeepsCompletion(t *testing.T) {
	e := &course.Enrollment{}
	MarkLectureCompleted(e, 3, t0)
	MarkLectureWatched(e, 3, 10, t0.Add(time.Hour))

	require.Len(t, e.Progress, 1)
	assert.True(t, e.Progress[0].Completed)
	assert.Equal(t, t0, *e.Progress[0].CompletedAt)
}

func TestMarkLectureCompletedIsIdempotent(t *testing.T) {
	e := &course.Enrollment{}

	assert.True(t, MarkLectureCompleted(e, 4, t0))
	assert.False(t, MarkLectureCompleted(e, 4, t0.Add(time.Hour)))

	require.Len(t, e.Progress, 1)
	assert.Equal(t, t0, *e.Progress[0].CompletedAt)
}

func TestPercent(t *testing.T) {
	cases := []struct {
		completed, total, want int
	}{
		{0, 10, 0},
		{3, 10, 30},
		{1, 3, 33},
		{2, 3, 67},
		{10, 10, 100},
		{12, 10, 100},
		{5, 0, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Percent(tc.completed, tc.total), "%d/%d", tc.completed, tc.total)
	}
}

func TestRecomputeAggregateStampsCompletionOnce(t *testing.T) {
	e := &course.Enrollment{}
	for id := uint(1); id <= 4; id++ {
		MarkLectureCompleted(e, id, t0)
	}

	assert.True(t, RecomputeAggregate(e, []uint{1, 2, 3, 4}, t0))
	assert.Equal(t, 100, e.OverallProgress)
	assert.Equal(t, course.EnrollmentCompleted, e.Status)
	require.NotNil(t, e.CompletedAt)

	// A lecture added later drops the percentage but keeps the first stamp.
	assert.False(t, RecomputeAggregate(e, []uint{1, 2, 3, 4, 5}, t0.Add(time.Hour)))
	assert.Equal(t, 80, e.OverallProgress)
	assert.Equal(t, course.EnrollmentInProgress, e.Status)
	assert.Equal(t, t0, *e.CompletedAt)

	assert.False(t, RecomputeAggregate(e, []uint{1, 2, 3, 4}, t0.Add(2*time.Hour)))
	assert.Equal(t, t0, *e.CompletedAt)
}

func TestRecomputeAggregateEmptyEnrollment(t *testing.T) {
	e := &course.Enrollment{}
	assert.False(t, RecomputeAggregate(e, nil, t0))
	assert.Equal(t, 0, e.OverallProgress)
	assert.Equal(t, course.EnrollmentEnrolled, e.Status)
	assert.Nil(t, e.CompletedAt)
}

func TestRecomputeAggregateIgnoresRemovedLectures(t *testing.T) {
	e := &course.Enrollment{}
	MarkLectureCompleted(e, 1, t0)
	MarkLectureCompleted(e, 9, t0)

	// Lecture 9 is no longer part of the course.
	assert.False(t, RecomputeAggregate(e, []uint{1, 2}, t0))
	assert.Equal(t, 1, e.CompletedLectures)
	assert.Equal(t, 50, e.OverallProgress)
	assert.Equal(t, course.EnrollmentInProgress, e.Status)
	assert.Nil(t, e.CompletedAt)

	// Completions of removed lectures alone never reach 100.
	assert.False(t, RecomputeAggregate(e, []uint{2, 3}, t0))
	assert.Zero(t, e.CompletedLectures)
	assert.Zero(t, e.OverallProgress)
	assert.Len(t, e.Progress, 2, "entries stay stored as history")
}
