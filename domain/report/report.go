package report

import (
	"bufio"
	"fmt"
	"strings"
	"time"
)

const (
	// Header is the first line of every report
	Header = "Log Cleanup Report"

	// DeletedLabel introduces the list of deleted paths
	DeletedLabel = "Deleted Files:"

	// FilePrefix and FileSuffix surround the timestamp in report file names
	FilePrefix = "log_cleanup_report_"
	FileSuffix = ".txt"

	fileTimeLayout = "2006-01-02_15-04-05"
	dateLayout     = "2006-01-02 15:04:05"
)

// Report is the persisted record of one sweep's deleted files
type Report struct {
	GeneratedAt  time.Time
	DeletedPaths []string
}

// New creates a report. It refuses an empty path list so that an
// empty-body report can never be produced.
func New(generatedAt time.Time, deletedPaths []string) (*Report, error) {
	if len(deletedPaths) == 0 {
		return nil, ErrNothingToReport
	}
	paths := make([]string, len(deletedPaths))
	copy(paths, deletedPaths)
	return &Report{GeneratedAt: generatedAt, DeletedPaths: paths}, nil
}

// FileName returns the report file name, e.g. log_cleanup_report_2025-12-28_09-30-00.txt.
// Two reports generated within the same second share a name.
func (r *Report) FileName() string {
	return FilePrefix + r.GeneratedAt.Local().Format(fileTimeLayout) + FileSuffix
}

// Render returns the report body
func (r *Report) Render() string {
	var b strings.Builder
	b.WriteString(Header + "\n")
	fmt.Fprintf(&b, "Date: %s\n\n", r.GeneratedAt.Local().Format(dateLayout))
	b.WriteString(DeletedLabel + "\n")
	for _, p := range r.DeletedPaths {
		b.WriteString(p + "\n")
	}
	return b.String()
}

// Parse reads a rendered report back into a Report
func Parse(content string) (*Report, error) {
	sc := bufio.NewScanner(strings.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReport, err)
	}

	if len(lines) < 4 || lines[0] != Header || lines[2] != "" || lines[3] != DeletedLabel {
		return nil, ErrMalformedReport
	}

	dateText, ok := strings.CutPrefix(lines[1], "Date: ")
	if !ok {
		return nil, fmt.Errorf("%w: missing date line", ErrMalformedReport)
	}
	generatedAt, err := time.ParseInLocation(dateLayout, dateText, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: bad date: %v", ErrMalformedReport, err)
	}

	return &Report{
		GeneratedAt:  generatedAt,
		DeletedPaths: lines[4:],
	}, nil
}
