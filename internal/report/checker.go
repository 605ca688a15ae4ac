package report

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Fetcher returns the logged days of a user
type Fetcher interface {
	FetchRecords(ctx context.Context, login string) ([]Record, error)
}

// Notifier shows a message to the desktop user. It must not fail.
type Notifier interface {
	Notify(title, body string)
}

// Checker is the check-and-notify unit of work
type Checker struct {
	fetcher    Fetcher
	notifier   Notifier
	detector   *Detector
	username   string
	reportsURL string
	logger     *zap.Logger
	now        func() time.Time
}

// NewChecker creates a new checker
func NewChecker(
	fetcher Fetcher,
	notifier Notifier,
	detector *Detector,
	username string,
	reportsURL string,
	logger *zap.Logger,
) *Checker {
	if detector == nil {
		detector = NewDetector(nil)
	}

	return &Checker{
		fetcher:    fetcher,
		notifier:   notifier,
		detector:   detector,
		username:   username,
		reportsURL: reportsURL,
		logger:     logger,
		now:        time.Now,
	}
}

// Check fetches the user's records, detects gaps and notifies on a deficit.
// A failed fetch is logged and treated as an empty record set, so an outage
// still produces the maximal deficit instead of silence.
func (c *Checker) Check(ctx context.Context) Summary {
	records, err := c.fetcher.FetchRecords(ctx, c.username)
	if err != nil {
		c.logger.Error("Failed to fetch reports, treating every day as unreported",
			zap.String("username", c.username),
			zap.Error(err))
		records = nil
	}

	summary := c.detector.Detect(records, c.now())

	c.logger.Info("Reports checked",
		zap.String("username", c.username),
		zap.Time("start", summary.Start),
		zap.Time("end", summary.End),
		zap.Int("records", len(records)),
		zap.Float64("reported_hours", summary.ReportedHours),
		zap.Float64("expected_hours", summary.ExpectedHours),
		zap.Int("flagged_days", len(summary.Missing)))

	if !summary.HasDeficit() {
		c.logger.Info("No missing hours, notification skipped")
		return summary
	}

	msg := Render(summary, c.username, c.reportsURL)
	c.notifier.Notify(msg.Title, msg.Body)

	return summary
}
