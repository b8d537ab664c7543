package cleanup

import (
	"context"
	"fmt"
	"io"

	"log-cleaner/domain/notification"
	"log-cleaner/domain/retention"
)

// Sweeper deletes files under a directory according to a retention policy
type Sweeper interface {
	Sweep(ctx context.Context, rootDir string, policy retention.Policy) (*retention.SweepOutcome, error)
}

// Reporter persists the list of deleted files
type Reporter interface {
	Generate(deletedPaths []string) (string, error)
}

// Notifier emails a persisted report
type Notifier interface {
	Notify(ctx context.Context, reportPath string, recipient notification.Recipient) notification.Result
}

// Service runs the sweep, report, notify pipeline
type Service struct {
	sweeper  Sweeper
	reporter Reporter
	notifier Notifier
	output   io.Writer
}

// NewService creates a new cleanup pipeline
func NewService(sweeper Sweeper, reporter Reporter, notifier Notifier, output io.Writer) *Service {
	return &Service{
		sweeper:  sweeper,
		reporter: reporter,
		notifier: notifier,
		output:   output,
	}
}

// Input contains the validated values for one run
type Input struct {
	Directory string
	Policy    retention.Policy
	Recipient notification.Recipient
}

// Result contains what one run did
type Result struct {
	Outcome         *retention.SweepOutcome
	ReportPath      string // empty when nothing was deleted
	Notified        bool
	NotificationErr error
}

// Run sweeps the directory, writes a report if anything was deleted, and
// emails it. Directory and report failures are returned; email failures are
// recorded in the result.
func (s *Service) Run(ctx context.Context, input Input) (*Result, error) {
	outcome, err := s.sweeper.Sweep(ctx, input.Directory, input.Policy)
	if err != nil {
		return nil, fmt.Errorf("sweep failed: %w", err)
	}

	for _, msg := range outcome.Messages {
		fmt.Fprintln(s.output, msg)
	}

	result := &Result{Outcome: outcome}

	reportPath, err := s.reporter.Generate(outcome.DeletedPaths)
	if err != nil {
		return result, fmt.Errorf("report failed: %w", err)
	}
	if reportPath == "" {
		fmt.Fprintln(s.output, "No files were deleted.")
		return result, nil
	}
	result.ReportPath = reportPath
	fmt.Fprintf(s.output, "Cleanup report saved as: %s\n", reportPath)

	if s.notifier == nil || input.Recipient.Address == "" {
		fmt.Fprintln(s.output, "No recipient configured; skipping email.")
		return result, nil
	}

	sent := s.notifier.Notify(ctx, reportPath, input.Recipient)
	result.Notified = sent.Sent
	result.NotificationErr = sent.Err
	if sent.Sent {
		fmt.Fprintln(s.output, "Email sent successfully.")
	} else {
		fmt.Fprintf(s.output, "Failed to send email: %v\n", sent.Err)
	}

	return result, nil
}
