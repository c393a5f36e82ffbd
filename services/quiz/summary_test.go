package quiz

import (
	"testing"
	"time"

	"coursetrack/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submitted(id, number uint, score int, passed bool, at time.Time) course.QuizAttempt {
	a := course.QuizAttempt{
		QuizID:        9,
		AttemptNumber: int(number),
		Status:        course.AttemptSubmitted,
		StartedAt:     at.Add(-time.Minute),
		CompletedAt:   &at,
		Score:         score,
		Passed:        passed,
	}
	a.ID = id
	return a
}

func TestMergeAttemptKeepsBest(t *testing.T) {
	t1 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	a1 := submitted(1, 1, 75, true, t1)
	a2 := submitted(2, 2, 50, false, t2)

	e := &course.Enrollment{}
	RecordIntoEnrollment(e, &a1)
	got := RecordIntoEnrollment(e, &a2)

	assert.Equal(t, 75, got.BestScore)
	require.NotNil(t, got.BestAttemptID)
	assert.Equal(t, uint(1), *got.BestAttemptID)
	assert.Equal(t, 2, got.TotalAttempts)
	assert.True(t, got.Passed)
	assert.Equal(t, t2, *got.LastAttemptAt)
	require.Len(t, e.QuizResults, 1)
	assert.Equal(t, got, e.QuizResults[0])
}

func TestMergeAttemptImprovesAndZeroScoreStillRecorded(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	zero := submitted(1, 1, 0, false, at)
	better := submitted(2, 2, 40, false, at.Add(time.Minute))

	first := MergeAttempt(nil, &zero)
	assert.Equal(t, 0, first.BestScore)
	require.NotNil(t, first.BestAttemptID)
	assert.Equal(t, uint(1), *first.BestAttemptID)

	next := MergeAttempt(&first, &better)
	assert.Equal(t, 40, next.BestScore)
	assert.Equal(t, uint(2), *next.BestAttemptID)
	assert.False(t, next.Passed)
}

func TestMergeAttemptTieKeepsEarlierAttempt(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	a1 := submitted(1, 1, 60, true, at)
	a2 := submitted(2, 2, 60, true, at.Add(time.Minute))

	s := MergeAttempt(nil, &a1)
	s = MergeAttempt(&s, &a2)
	assert.Equal(t, uint(1), *s.BestAttemptID)
}

func TestRebuildSummaryMatchesIncrementalMerge(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	history := []course.QuizAttempt{
		submitted(3, 3, 90, true, at.Add(2*time.Hour)),
		submitted(1, 1, 40, false, at),
		submitted(2, 2, 70, true, at.Add(time.Hour)),
		{QuizID: 9, AttemptNumber: 4, Status: course.AttemptOpen, StartedAt: at.Add(3 * time.Hour)},
	}

	rebuilt, ok := RebuildSummary(9, history)
	require.True(t, ok)

	e := &course.Enrollment{}
	for _, i := range []int{1, 2, 0} {
		RecordIntoEnrollment(e, &history[i])
	}

	assert.Equal(t, e.QuizResults[0], rebuilt)
	assert.Equal(t, 90, rebuilt.BestScore)
	assert.Equal(t, 3, rebuilt.TotalAttempts)
	assert.Equal(t, at.Add(2*time.Hour), *rebuilt.LastAttemptAt)
}

func TestRebuildSummaryNothingSubmitted(t *testing.T) {
	_, ok := RebuildSummary(9, []course.QuizAttempt{{QuizID: 9, Status: course.AttemptOpen}})
	assert.False(t, ok)
}

func TestReplaceSummaryOverwrites(t *testing.T) {
	e := &course.Enrollment{QuizResults: []course.QuizResult{{QuizID: 9, BestScore: 10, TotalAttempts: 5}}}
	ReplaceSummary(e, course.QuizResult{QuizID: 9, BestScore: 80, TotalAttempts: 2})
	ReplaceSummary(e, course.QuizResult{QuizID: 10, BestScore: 30, TotalAttempts: 1})

	require.Len(t, e.QuizResults, 2)
	assert.Equal(t, 80, e.QuizResults[0].BestScore)
	assert.Equal(t, 2, e.QuizResults[0].TotalAttempts)
}
