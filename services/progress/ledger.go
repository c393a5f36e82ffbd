// Package progress tracks per-lecture watch/completion state on an enrollment
// and derives the course-level completion percentage from it.
package progress

import (
	"math"
	"time"

	"coursetrack/models/course"
)

// MarkLectureWatched upserts the progress entry for lectureID with the latest
// resume position. The last write wins, so a lower watch time than before is
// stored as-is. It never flips Completed.
func MarkLectureWatched(e *course.Enrollment, lectureID uint, watchTimeSeconds float64, now time.Time) {
	if watchTimeSeconds < 0 || math.IsNaN(watchTimeSeconds) {
		watchTimeSeconds = 0
	}
	at := now
	if i := e.FindLecture(lectureID); i >= 0 {
		e.Progress[i].LastWatchedAt = &at
		e.Progress[i].WatchTimeSeconds = watchTimeSeconds
	} else {
		e.Progress = append(e.Progress, course.LectureProgress{
			LectureID:        lectureID,
			LastWatchedAt:    &at,
			WatchTimeSeconds: watchTimeSeconds,
		})
	}
	e.LastAccessedAt = &at
}

// MarkLectureCompleted upserts the entry for lectureID as completed. CompletedAt
// is stamped only on the transition into completed; it reports whether that
// transition happened.
func MarkLectureCompleted(e *course.Enrollment, lectureID uint, now time.Time) bool {
	at := now
	e.LastAccessedAt = &at

	i := e.FindLecture(lectureID)
	if i < 0 {
		e.Progress = append(e.Progress, course.LectureProgress{
			LectureID:   lectureID,
			Completed:   true,
			CompletedAt: &at,
		})
		return true
	}
	if e.Progress[i].Completed {
		return false
	}
	e.Progress[i].Completed = true
	if e.Progress[i].CompletedAt == nil {
		e.Progress[i].CompletedAt = &at
	}
	return true
}

// CompletedLectureCount counts completed entries whose lecture is still part
// of the course. Entries for removed lectures stay stored but do not count.
func CompletedLectureCount(e *course.Enrollment, liveLectureIDs []uint) int {
	live := make(map[uint]struct{}, len(liveLectureIDs))
	for _, id := range liveLectureIDs {
		live[id] = struct{}{}
	}
	n := 0
	for _, p := range e.Progress {
		if !p.Completed {
			continue
		}
		if _, ok := live[p.LectureID]; ok {
			n++
		}
	}
	return n
}

// Percent returns round(100*completed/total) clamped to [0,100], or 0 when total is 0.
func Percent(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(completed) / float64(total)))
	if pct > 100 {
		return 100
	}
	return pct
}

// RecomputeAggregate rebuilds OverallProgress, CompletedLectures and Status
// from the progress set, measured against the course's live lecture ids. The
// first time the enrollment reaches 100 it stamps CompletedAt and returns
// true; later recomputations never touch that stamp.
func RecomputeAggregate(e *course.Enrollment, liveLectureIDs []uint, now time.Time) bool {
	completed := CompletedLectureCount(e, liveLectureIDs)
	e.CompletedLectures = completed
	e.OverallProgress = Percent(completed, len(liveLectureIDs))

	switch {
	case e.OverallProgress == 100:
		e.Status = course.EnrollmentCompleted
	case e.OverallProgress > 0 || len(e.Progress) > 0:
		e.Status = course.EnrollmentInProgress
	default:
		e.Status = course.EnrollmentEnrolled
	}

	if e.OverallProgress == 100 && e.CompletedAt == nil {
		at := now
		e.CompletedAt = &at
		return true
	}
	return false
}
