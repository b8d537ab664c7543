package report

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"log-cleaner/domain/report"
	"log-cleaner/infrastructure/logger"
)

// Service writes cleanup reports to a directory
type Service struct {
	dir string
	now func() time.Time
	log *logger.Logger
}

// Option configures a Service
type Option func(*Service)

// WithClock sets the time source for the report timestamp (for testing)
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

// NewService creates a report service writing into dir.
// An empty dir means the process working directory.
func NewService(dir string, opts ...Option) *Service {
	s := &Service{
		dir: dir,
		now: time.Now,
		log: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate writes a report listing deletedPaths and returns its path.
// It returns an empty path and no error when nothing was deleted.
func (s *Service) Generate(deletedPaths []string) (string, error) {
	if len(deletedPaths) == 0 {
		return "", nil
	}

	r, err := report.New(s.now(), deletedPaths)
	if err != nil {
		return "", err
	}

	for _, p := range deletedPaths {
		if strings.ContainsAny(p, "\r\n") {
			// The layout has one path per line, so this entry reads back split
			s.log.Warn("deleted path contains a line break",
				logger.Field{Key: "path", Value: p})
		}
	}

	path := r.FileName()
	if s.dir != "" {
		path = filepath.Join(s.dir, path)
	}

	// Single buffered write; the path is only returned once the file is closed
	if err := os.WriteFile(path, []byte(r.Render()), 0644); err != nil {
		return "", &report.WriteError{Path: path, Err: err}
	}

	s.log.Info("report written",
		logger.Field{Key: "path", Value: path},
		logger.Field{Key: "entries", Value: len(r.DeletedPaths)})

	return path, nil
}
