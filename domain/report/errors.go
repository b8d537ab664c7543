package report

import (
	"errors"
	"fmt"
)

var (
	// ErrNothingToReport is returned when a report is requested for no deleted files
	ErrNothingToReport = errors.New("no deleted files to report")

	// ErrReportWrite is returned when the report file cannot be written
	ErrReportWrite = errors.New("failed to write report")

	// ErrMalformedReport is returned when report content cannot be parsed
	ErrMalformedReport = errors.New("malformed report")
)

// WriteError reports a filesystem failure while persisting a report
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", ErrReportWrite, e.Path, e.Err)
}

func (e *WriteError) Unwrap() []error {
	return []error{ErrReportWrite, e.Err}
}
