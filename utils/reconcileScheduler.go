package utils

import (
	"context"
	"time"

	"coursetrack/logger"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

// QuizReconciler rebuilds quiz summaries from attempt history.
type QuizReconciler interface {
	ReconcileSince(ctx context.Context, since time.Time) (int, error)
}

// RenderRetrier re-renders certificates whose artifact is still missing.
type RenderRetrier interface {
	RetryPendingRenders(ctx context.Context) (int, error)
}

// ReconcileWindowStart is the start of the day before t; the nightly job
// covers everything submitted since then so one missed run is still caught.
func ReconcileWindowStart(t time.Time) time.Time {
	return now.With(t).BeginningOfDay().AddDate(0, 0, -1)
}

// RunReconciliation replays quiz summaries for recent attempts and retries
// pending certificate renders.
func RunReconciliation(ctx context.Context, quizzes QuizReconciler, certificates RenderRetrier, log *logger.Logger, at time.Time) {
	since := ReconcileWindowStart(at)
	rebuilt, err := quizzes.ReconcileSince(ctx, since)
	if err != nil {
		log.Error("quiz reconciliation finished with errors", "since", since, "rebuilt", rebuilt, "error", err)
	} else {
		log.Info("quiz reconciliation finished", "since", since, "rebuilt", rebuilt)
	}

	rendered, err := certificates.RetryPendingRenders(ctx)
	if err != nil {
		log.Error("certificate render retry failed", "error", err)
		return
	}
	log.Info("certificate render retry finished", "rendered", rendered)
}

// InitializeReconcileScheduler starts the cron job that self-heals quiz
// summaries and certificate artifacts. The returned cron must be stopped on shutdown.
func InitializeReconcileScheduler(schedule string, quizzes QuizReconciler, certificates RenderRetrier, log *logger.Logger) (*cron.Cron, error) {
	log = log.With("component", "reconcile-scheduler")
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		log.Info("running reconciliation")
		RunReconciliation(context.Background(), quizzes, certificates, log, time.Now())
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Info("reconciliation scheduler started", "schedule", schedule)
	return c, nil
}
