package retention

import (
	"errors"
	"fmt"
	"io/fs"
	"time"
)

// Disposition is the result of attempting to delete one qualifying file
type Disposition int

const (
	// Deleted means the file was removed
	Deleted Disposition = iota
	// NotFound means the file disappeared before it could be removed
	NotFound
	// PermissionDenied means the filesystem refused the removal
	PermissionDenied
	// Failed covers any other removal error
	Failed
)

// String returns the label used in logs and metrics
func (d Disposition) String() string {
	switch d {
	case Deleted:
		return "deleted"
	case NotFound:
		return "not_found"
	case PermissionDenied:
		return "permission_denied"
	default:
		return "failed"
	}
}

// Remover deletes a single file
type Remover interface {
	Remove(path string) error
}

// ClassifyRemoveError maps a removal error onto a disposition
func ClassifyRemoveError(err error) Disposition {
	switch {
	case err == nil:
		return Deleted
	case errors.Is(err, fs.ErrNotExist):
		return NotFound
	case errors.Is(err, fs.ErrPermission):
		return PermissionDenied
	default:
		return Failed
	}
}

// FileOutcome records what happened to one qualifying file
type FileOutcome struct {
	Record      FileRecord
	AgeDays     float64
	Disposition Disposition
	Err         error
}

// NewFileOutcome builds the outcome for a removal attempt evaluated at now
func NewFileOutcome(rec FileRecord, now time.Time, removeErr error) FileOutcome {
	return FileOutcome{
		Record:      rec,
		AgeDays:     rec.AgeDays(now),
		Disposition: ClassifyRemoveError(removeErr),
		Err:         removeErr,
	}
}

// Message returns the human-readable line for this outcome
func (o FileOutcome) Message() string {
	switch o.Disposition {
	case Deleted:
		return fmt.Sprintf("Deleted: %s (Age: %.2f days, Size: %.2f MB)", o.Record.Path, o.AgeDays, o.Record.SizeMB())
	case NotFound:
		return fmt.Sprintf("Error deleting %s: not found", o.Record.Path)
	case PermissionDenied:
		return fmt.Sprintf("Error deleting %s: permission denied", o.Record.Path)
	default:
		return fmt.Sprintf("Error deleting %s: %v", o.Record.Path, causeOf(o.Err))
	}
}

// causeOf strips the *fs.PathError wrapper so the path is not repeated
func causeOf(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}

// SweepOutcome collects the results of one sweep in traversal order
type SweepOutcome struct {
	DeletedPaths []string
	Messages     []string
	Files        []FileOutcome
	Scanned      int
	FreedBytes   int64
}

// Add appends a file outcome, keeping DeletedPaths and Messages in step
func (s *SweepOutcome) Add(o FileOutcome) {
	s.Files = append(s.Files, o)
	s.Messages = append(s.Messages, o.Message())
	if o.Disposition == Deleted {
		s.DeletedPaths = append(s.DeletedPaths, o.Record.Path)
		s.FreedBytes += o.Record.SizeBytes
	}
}

// Count returns how many outcomes have the given disposition
func (s *SweepOutcome) Count(d Disposition) int {
	n := 0
	for _, f := range s.Files {
		if f.Disposition == d {
			n++
		}
	}
	return n
}
