package sweep

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"log-cleaner/domain/retention"
	"log-cleaner/infrastructure/logger"
	"log-cleaner/infrastructure/metrics"
)

// Service walks a directory tree and deletes files that exceed the retention policy
type Service struct {
	remover retention.Remover
	now     func() time.Time
	log     *logger.Logger
	metrics *metrics.Recorder
}

// Option configures a Service
type Option func(*Service)

// WithClock sets the time source used to compute file ages (for testing)
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger sets the structured logger
func WithLogger(log *logger.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService creates a new sweep service
func NewService(remover retention.Remover, opts ...Option) *Service {
	s := &Service{
		remover: remover,
		now:     time.Now,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sweep evaluates every regular file under rootDir and deletes the ones the
// policy selects. Per-file failures are recorded in the outcome; only a root
// that cannot be traversed fails the call.
func (s *Service) Sweep(ctx context.Context, rootDir string, policy retention.Policy) (*retention.SweepOutcome, error) {
	started := time.Now()

	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if err := checkRoot(rootDir); err != nil {
		s.metrics.SweepFinished(err, time.Since(started))
		return nil, err
	}

	s.log.Info("sweep started",
		logger.Field{Key: "directory", Value: rootDir},
		logger.Field{Key: "max_age_days", Value: policy.MaxAgeDays},
		logger.Field{Key: "max_size_mb", Value: policy.MaxSizeMB})

	walkRoot := rootDir
	if fi, err := os.Lstat(rootDir); err == nil && fi.Mode()&fs.ModeSymlink != 0 {
		// A trailing separator makes WalkDir follow a symlinked root
		walkRoot = rootDir + string(os.PathSeparator)
	}

	outcome := &retention.SweepOutcome{}
	err := filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == walkRoot {
				return &retention.DirectoryAccessError{Path: rootDir, Err: walkErr}
			}
			// Unreadable subdirectories and entries that vanished mid-walk are skipped
			s.log.Warn("skipping unreadable entry",
				logger.Field{Key: "path", Value: path},
				logger.Field{Key: "error", Value: walkErr})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		s.visit(path, d, policy, outcome)
		return nil
	})
	if err != nil {
		s.metrics.SweepFinished(err, time.Since(started))
		return nil, err
	}

	s.metrics.SweepFinished(nil, time.Since(started))
	s.log.Info("sweep finished",
		logger.Field{Key: "directory", Value: rootDir},
		logger.Field{Key: "scanned", Value: outcome.Scanned},
		logger.Field{Key: "deleted", Value: len(outcome.DeletedPaths)},
		logger.Field{Key: "freed_bytes", Value: outcome.FreedBytes},
		logger.Field{Key: "duration", Value: time.Since(started)})

	return outcome, nil
}

// visit reads fresh metadata for one file and deletes it if it qualifies
func (s *Service) visit(path string, d fs.DirEntry, policy retention.Policy, outcome *retention.SweepOutcome) {
	info, err := d.Info()
	if err != nil {
		// Gone before it could be evaluated; nothing to decide
		s.log.Debug("file disappeared before evaluation", logger.Field{Key: "path", Value: path})
		return
	}

	rec := retention.FileRecord{
		Path:      path,
		ModTime:   info.ModTime(),
		SizeBytes: info.Size(),
	}
	now := s.now()
	outcome.Scanned++
	s.metrics.FileScanned()

	if !policy.Qualifies(rec, now) {
		return
	}

	result := retention.NewFileOutcome(rec, now, s.remover.Remove(path))
	outcome.Add(result)

	var freed int64
	if result.Disposition == retention.Deleted {
		freed = rec.SizeBytes
		s.log.Info("deleted file",
			logger.Field{Key: "path", Value: path},
			logger.Field{Key: "age_days", Value: result.AgeDays},
			logger.Field{Key: "size_bytes", Value: rec.SizeBytes},
			logger.Field{Key: "reasons", Value: policy.Reasons(rec, now)})
	} else {
		s.log.Warn("failed to delete file",
			logger.Field{Key: "path", Value: path},
			logger.Field{Key: "disposition", Value: result.Disposition.String()},
			logger.Field{Key: "error", Value: result.Err})
	}
	s.metrics.FileProcessed(result.Disposition.String(), freed)
}

// checkRoot confirms the root exists, is a directory, and can be listed
func checkRoot(rootDir string) error {
	if rootDir == "" {
		return &retention.DirectoryAccessError{Path: rootDir, Err: errors.New("no directory given")}
	}
	info, err := os.Stat(rootDir)
	if err != nil {
		return &retention.DirectoryAccessError{Path: rootDir, Err: err}
	}
	if !info.IsDir() {
		return &retention.DirectoryAccessError{Path: rootDir, Err: fmt.Errorf("not a directory")}
	}
	f, err := os.Open(rootDir)
	if err != nil {
		return &retention.DirectoryAccessError{Path: rootDir, Err: err}
	}
	defer f.Close()
	if _, err := f.ReadDir(1); err != nil && !errors.Is(err, io.EOF) {
		return &retention.DirectoryAccessError{Path: rootDir, Err: err}
	}
	return nil
}
