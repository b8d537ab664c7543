package filesystem

import (
	"os"

	"log-cleaner/domain/retention"
)

// Remover implements retention.Remover using the os package
type Remover struct{}

// NewRemover creates a new filesystem remover
func NewRemover() *Remover {
	return &Remover{}
}

// Remove deletes a single file. Directories are never removed recursively.
func (r *Remover) Remove(path string) error {
	return os.Remove(path)
}

// Ensure Remover implements retention.Remover
var _ retention.Remover = (*Remover)(nil)
