package play

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"quizownik/internal/backend"
)

var logger = logrus.WithField("module", "Play")

const DefaultReportTimeout = 10 * time.Second

// Reporter delivers a finished attempt.
type Reporter interface {
	SubmitResult(ctx context.Context, result backend.QuizResult) error
}

// Report sends result in the background. Failures are logged and never block
// the caller. The returned channel is closed once the attempt has finished.
func Report(ctx context.Context, reporter Reporter, result backend.QuizResult, timeout time.Duration) <-chan struct{} {
	if timeout <= 0 {
		timeout = DefaultReportTimeout
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		if err := reporter.SubmitResult(ctx, result); err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"quiz": result.QuizID,
				"user": result.UserID,
			}).Warn("failed to report quiz result")
			return
		}
		logger.WithField("quiz", result.QuizID).Debug("quiz result reported")
	}()
	return done
}
