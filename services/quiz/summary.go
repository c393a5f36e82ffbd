package quiz

import (
	"sort"
	"time"

	"coursetrack/models/course"
)

// MergeAttempt folds one submitted attempt into a quiz summary. BestScore and
// Passed only ever ratchet upward; LastAttemptAt always moves to the attempt's
// completion time. A nil prev starts a fresh summary.
func MergeAttempt(prev *course.QuizResult, a *course.QuizAttempt) course.QuizResult {
	next := course.QuizResult{QuizID: a.QuizID, BestScore: -1}
	if prev != nil {
		next = *prev
	}

	if a.Score > next.BestScore || next.BestAttemptID == nil && a.Score == next.BestScore {
		next.BestScore = a.Score
		id := a.ID
		next.BestAttemptID = &id
	}
	next.TotalAttempts++
	next.Passed = next.Passed || a.Passed

	at := attemptTime(a)
	next.LastAttemptAt = &at
	return next
}

// RecordIntoEnrollment upserts the summary for the attempt's quiz on e and
// returns the merged summary.
func RecordIntoEnrollment(e *course.Enrollment, a *course.QuizAttempt) course.QuizResult {
	i := e.FindQuizResult(a.QuizID)
	if i < 0 {
		merged := MergeAttempt(nil, a)
		e.QuizResults = append(e.QuizResults, merged)
		return merged
	}
	merged := MergeAttempt(&e.QuizResults[i], a)
	e.QuizResults[i] = merged
	return merged
}

// RebuildSummary recomputes a quiz summary from the full attempt history,
// ignoring open attempts. It returns false when nothing has been submitted.
func RebuildSummary(quizID uint, attempts []course.QuizAttempt) (course.QuizResult, bool) {
	submitted := make([]course.QuizAttempt, 0, len(attempts))
	for _, a := range attempts {
		if a.QuizID == quizID && a.IsSubmitted() {
			submitted = append(submitted, a)
		}
	}
	if len(submitted) == 0 {
		return course.QuizResult{}, false
	}
	sort.Slice(submitted, func(i, j int) bool {
		return submitted[i].AttemptNumber < submitted[j].AttemptNumber
	})

	var summary *course.QuizResult
	for i := range submitted {
		merged := MergeAttempt(summary, &submitted[i])
		summary = &merged
	}
	return *summary, true
}

// ReplaceSummary sets the summary for r.QuizID on e, replacing any existing one.
func ReplaceSummary(e *course.Enrollment, r course.QuizResult) {
	if i := e.FindQuizResult(r.QuizID); i >= 0 {
		e.QuizResults[i] = r
		return
	}
	e.QuizResults = append(e.QuizResults, r)
}

func attemptTime(a *course.QuizAttempt) time.Time {
	if a.CompletedAt != nil {
		return *a.CompletedAt
	}
	return a.StartedAt
}
