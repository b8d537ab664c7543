// Package scheduler runs a job on a cron schedule. Runs never overlap: a
// tick that arrives while the previous run is still going is skipped.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"log-cleaner/infrastructure/logger"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Job is one scheduled run. runID identifies the run in logs.
type Job func(ctx context.Context, runID string) error

// Scheduler wraps a cron runner for a single job
type Scheduler struct {
	cron *cron.Cron
	spec string
	job  Job
	log  *logger.Logger
	ctx  context.Context
}

// ValidateSpec checks a standard five-field cron expression or descriptor
// such as "@daily" or "@every 1h"
func ValidateSpec(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	return nil
}

// New creates a scheduler for job
func New(spec string, job Job, log *logger.Logger) (*Scheduler, error) {
	if err := ValidateSpec(spec); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}

	cl := cronLogger{log: log}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		spec: spec,
		job:  job,
		log:  log,
		ctx:  context.Background(),
	}

	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(s.ctx) }); err != nil {
		return nil, fmt.Errorf("failed to schedule job: %w", err)
	}
	return s, nil
}

// RunOnce executes the job immediately with a fresh run ID
func (s *Scheduler) RunOnce(ctx context.Context) error {
	runID := uuid.NewString()
	started := time.Now()
	s.log.Info("scheduled run started", logger.Field{Key: "run_id", Value: runID})

	err := s.job(ctx, runID)
	if err != nil {
		s.log.Error("scheduled run failed", err,
			logger.Field{Key: "run_id", Value: runID},
			logger.Field{Key: "duration", Value: time.Since(started)})
		return err
	}

	s.log.Info("scheduled run finished",
		logger.Field{Key: "run_id", Value: runID},
		logger.Field{Key: "duration", Value: time.Since(started)})
	return nil
}

// Start begins running the job on schedule until Stop is called. Runs
// receive ctx.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx = ctx
	s.cron.Start()
	s.log.Info("scheduler started", logger.Field{Key: "schedule", Value: s.spec})
}

// Stop halts the schedule and waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// Next returns the next scheduled run time
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// cronLogger adapts logger.Logger to cron.Logger
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, toFields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, err, toFields(keysAndValues)...)
}

func toFields(keysAndValues []interface{}) []logger.Field {
	fields := make([]logger.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields = append(fields, logger.Field{Key: fmt.Sprint(keysAndValues[i]), Value: keysAndValues[i+1]})
	}
	return fields
}
