package retention

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPolicy is returned when a threshold is zero or negative
	ErrInvalidPolicy = errors.New("invalid retention policy")

	// ErrDirectoryAccess is returned when the sweep root cannot be traversed
	ErrDirectoryAccess = errors.New("directory not accessible")
)

// DirectoryAccessError reports a root directory that is missing, not a
// directory, or unreadable
type DirectoryAccessError struct {
	Path string
	Err  error
}

func (e *DirectoryAccessError) Error() string {
	return fmt.Sprintf("%s: %q: %v", ErrDirectoryAccess, e.Path, e.Err)
}

func (e *DirectoryAccessError) Unwrap() []error {
	return []error{ErrDirectoryAccess, e.Err}
}
