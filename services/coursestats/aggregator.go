// Package coursestats rebuilds the derived section/lecture/duration totals of
// a course from its live content. Totals are never patched incrementally.
package coursestats

import (
	"context"

	"coursetrack/logger"
	"coursetrack/models/course"
)

// Recompute derives the totals for courseID from the given live sections and
// lectures. Rows belonging to other courses are ignored.
func Recompute(courseID uint, sections []course.Section, lectures []course.Lecture) course.CourseStats {
	stats := course.CourseStats{
		CourseID:        courseID,
		SectionLectures: make(map[uint]int, len(sections)),
	}
	for _, s := range sections {
		if s.CourseID != courseID {
			continue
		}
		stats.TotalSections++
		stats.SectionLectures[s.ID] = 0
	}
	for _, l := range lectures {
		if l.CourseID != courseID {
			continue
		}
		stats.TotalLectures++
		stats.TotalDurationSeconds += l.DurationSeconds
		if _, ok := stats.SectionLectures[l.SectionID]; ok {
			stats.SectionLectures[l.SectionID]++
		}
	}
	return stats
}

// Store loads a course's live structure and persists recomputed totals within
// one transaction.
type Store interface {
	RebuildStats(ctx context.Context, courseID uint, compute func([]course.Section, []course.Lecture) course.CourseStats) (course.CourseStats, error)
}

type Aggregator struct {
	store Store
	log   *logger.Logger
}

func NewAggregator(store Store, log *logger.Logger) *Aggregator {
	return &Aggregator{store: store, log: log.With("component", "coursestats")}
}

// Recompute rebuilds and stores the totals of courseID. Call it after any
// section or lecture is created, edited or removed.
func (a *Aggregator) Recompute(ctx context.Context, courseID uint) (course.CourseStats, error) {
	stats, err := a.store.RebuildStats(ctx, courseID, func(sections []course.Section, lectures []course.Lecture) course.CourseStats {
		return Recompute(courseID, sections, lectures)
	})
	if err != nil {
		a.log.Error("course stats recompute failed", "course_id", courseID, "error", err)
		return course.CourseStats{}, err
	}
	a.log.Debug("course stats recomputed",
		"course_id", courseID, "sections", stats.TotalSections,
		"lectures", stats.TotalLectures, "duration_seconds", stats.TotalDurationSeconds)
	return stats, nil
}
