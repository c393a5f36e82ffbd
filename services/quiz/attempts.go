package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coursetrack/logger"
	"coursetrack/models/course"
	"coursetrack/services"
)

// AttemptStore persists quiz attempts. Create must make count-then-insert
// atomic per (user, quiz) and fail with services.ErrAttemptLimitExceeded once
// the quiz's MaxAttempts is reached. Freeze must move an attempt from OPEN to
// SUBMITTED at most once and fail with services.ErrAlreadySubmitted otherwise.
type AttemptStore interface {
	Create(ctx context.Context, userID uint, q *course.Quiz, startedAt time.Time) (*course.QuizAttempt, error)
	Get(ctx context.Context, attemptID uint) (*course.QuizAttempt, error)
	Freeze(ctx context.Context, attemptID uint, answers []course.GradedAnswer, score int, passed bool, at time.Time) (*course.QuizAttempt, error)
	ListByUserQuiz(ctx context.Context, userID, quizID uint) ([]course.QuizAttempt, error)
	SubmittedSince(ctx context.Context, since time.Time) ([]course.QuizAttempt, error)
}

type EnrollmentStore interface {
	Get(ctx context.Context, userID, courseID uint) (*course.Enrollment, error)
	Mutate(ctx context.Context, userID, courseID uint, fn func(*course.Enrollment) error) (*course.Enrollment, error)
}

// QuizCatalog looks quizzes up. QuizForGrading also returns deleted quizzes so
// attempts already opened against them can still be closed.
type QuizCatalog interface {
	Quiz(ctx context.Context, quizID uint) (*course.Quiz, error)
	QuizForGrading(ctx context.Context, quizID uint) (*course.Quiz, error)
}

type Notifier interface {
	QuizPassed(ctx context.Context, userID, quizID uint, score int)
}

type Tracker struct {
	attempts    AttemptStore
	enrollments EnrollmentStore
	catalog     QuizCatalog
	notifier    Notifier
	log         *logger.Logger
	now         func() time.Time
}

func NewTracker(attempts AttemptStore, enrollments EnrollmentStore, catalog QuizCatalog, notifier Notifier, log *logger.Logger) *Tracker {
	return &Tracker{
		attempts:    attempts,
		enrollments: enrollments,
		catalog:     catalog,
		notifier:    notifier,
		log:         log.With("component", "quiz"),
		now:         time.Now,
	}
}

func (t *Tracker) SetClock(now func() time.Time) { t.now = now }

// StartAttempt opens a new attempt for the learner on a quiz of courseID.
func (t *Tracker) StartAttempt(ctx context.Context, userID, courseID, quizID uint) (*course.QuizAttempt, error) {
	q, err := t.quizInCourse(ctx, courseID, quizID)
	if err != nil {
		return nil, err
	}
	if _, err := t.enrollments.Get(ctx, userID, courseID); err != nil {
		return nil, err
	}

	attempt, err := t.attempts.Create(ctx, userID, q, t.now())
	if err != nil {
		return nil, err
	}
	t.log.Info("quiz attempt started", "user_id", userID, "quiz_id", quizID, "attempt_number", attempt.AttemptNumber)
	return attempt, nil
}

// Submission is what SubmitAttempt returns. Summary is nil when the attempt
// was frozen but could not be propagated into the enrollment; the attempt
// remains the source of truth and Reconcile will repair the summary.
type Submission struct {
	Attempt *course.QuizAttempt `json:"attempt"`
	Result  Result              `json:"result"`
	Summary *course.QuizResult  `json:"summary,omitempty"`
}

// SubmitAttempt grades answers, freezes the attempt, then best-effort records
// the outcome into the learner's enrollment.
func (t *Tracker) SubmitAttempt(ctx context.Context, userID, attemptID uint, answers []course.SubmittedAnswer) (*Submission, error) {
	attempt, err := t.attempts.Get(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, fmt.Errorf("attempt %d: %w", attemptID, services.ErrNotFound)
	}
	if attempt.IsSubmitted() {
		return nil, fmt.Errorf("attempt %d: %w", attemptID, services.ErrAlreadySubmitted)
	}

	q, err := t.catalog.QuizForGrading(ctx, attempt.QuizID)
	if err != nil {
		return nil, err
	}
	result := Grade(q, answers)

	frozen, err := t.attempts.Freeze(ctx, attemptID, result.Answers, result.Score, result.Passed, t.now())
	if err != nil {
		return nil, err
	}

	sub := &Submission{Attempt: frozen, Result: result}
	summary, firstPass, err := t.record(ctx, frozen)
	if err != nil {
		t.log.Warn("quiz result not recorded into enrollment, left for reconciliation",
			"user_id", userID, "attempt_id", attemptID, "error", err)
		return sub, nil
	}
	sub.Summary = summary

	t.log.Info("quiz attempt submitted",
		"user_id", userID, "quiz_id", frozen.QuizID, "attempt_number", frozen.AttemptNumber,
		"score", frozen.Score, "best_score", summary.BestScore)
	if firstPass && t.notifier != nil {
		go t.notifier.QuizPassed(context.Background(), userID, frozen.QuizID, frozen.Score)
	}
	return sub, nil
}

func (t *Tracker) record(ctx context.Context, a *course.QuizAttempt) (*course.QuizResult, bool, error) {
	var merged course.QuizResult
	var firstPass bool
	_, err := t.enrollments.Mutate(ctx, a.UserID, a.CourseID, func(e *course.Enrollment) error {
		wasPassed := false
		if i := e.FindQuizResult(a.QuizID); i >= 0 {
			wasPassed = e.QuizResults[i].Passed
		}
		merged = RecordIntoEnrollment(e, a)
		firstPass = !wasPassed && merged.Passed
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &merged, firstPass, nil
}

// History returns the learner's attempts on a quiz together with the current summary.
func (t *Tracker) History(ctx context.Context, userID, courseID, quizID uint) ([]course.QuizAttempt, *course.QuizResult, error) {
	if _, err := t.quizInCourse(ctx, courseID, quizID); err != nil {
		return nil, nil, err
	}
	e, err := t.enrollments.Get(ctx, userID, courseID)
	if err != nil {
		return nil, nil, err
	}
	attempts, err := t.attempts.ListByUserQuiz(ctx, userID, quizID)
	if err != nil {
		return nil, nil, err
	}
	var summary *course.QuizResult
	if i := e.FindQuizResult(quizID); i >= 0 {
		s := e.QuizResults[i]
		summary = &s
	}
	return attempts, summary, nil
}

// Reconcile rebuilds the learner's summary for a quiz from the full attempt
// history. Replaying it is idempotent.
func (t *Tracker) Reconcile(ctx context.Context, userID, quizID uint) (*course.QuizResult, error) {
	q, err := t.catalog.QuizForGrading(ctx, quizID)
	if err != nil {
		return nil, err
	}
	attempts, err := t.attempts.ListByUserQuiz(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}
	summary, ok := RebuildSummary(quizID, attempts)
	if !ok {
		return nil, nil
	}
	if _, err := t.enrollments.Mutate(ctx, userID, q.CourseID, func(e *course.Enrollment) error {
		ReplaceSummary(e, summary)
		return nil
	}); err != nil {
		return nil, err
	}
	return &summary, nil
}

// ReconcileSince reconciles every (user, quiz) pair with an attempt submitted
// at or after since. It returns how many pairs were rebuilt.
func (t *Tracker) ReconcileSince(ctx context.Context, since time.Time) (int, error) {
	attempts, err := t.attempts.SubmittedSince(ctx, since)
	if err != nil {
		return 0, err
	}

	type pair struct{ userID, quizID uint }
	seen := make(map[pair]bool)
	var errs []error
	rebuilt := 0
	for _, a := range attempts {
		p := pair{a.UserID, a.QuizID}
		if seen[p] {
			continue
		}
		seen[p] = true
		if _, err := t.Reconcile(ctx, p.userID, p.quizID); err != nil {
			errs = append(errs, fmt.Errorf("user %d quiz %d: %w", p.userID, p.quizID, err))
			continue
		}
		rebuilt++
	}
	return rebuilt, errors.Join(errs...)
}

func (t *Tracker) quizInCourse(ctx context.Context, courseID, quizID uint) (*course.Quiz, error) {
	q, err := t.catalog.Quiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if q.CourseID != courseID {
		return nil, fmt.Errorf("quiz %d: %w", quizID, services.ErrInvalidReference)
	}
	return q, nil
}
