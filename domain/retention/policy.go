package retention

import (
	"fmt"
	"time"
)

// BytesPerMB is the divisor used to express file sizes in megabytes
const BytesPerMB = 1024 * 1024

// Policy holds the age and size thresholds for one sweep
type Policy struct {
	MaxAgeDays float64
	MaxSizeMB  float64
}

// NewPolicy creates a validated retention policy
func NewPolicy(maxAgeDays, maxSizeMB float64) (Policy, error) {
	p := Policy{MaxAgeDays: maxAgeDays, MaxSizeMB: maxSizeMB}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Validate checks that both thresholds are positive
func (p Policy) Validate() error {
	if p.MaxAgeDays <= 0 {
		return fmt.Errorf("%w: max age must be positive, got %v", ErrInvalidPolicy, p.MaxAgeDays)
	}
	if p.MaxSizeMB <= 0 {
		return fmt.Errorf("%w: max size must be positive, got %v", ErrInvalidPolicy, p.MaxSizeMB)
	}
	return nil
}

// Qualifies reports whether the file exceeds either threshold as of now.
// The thresholds are independent: exceeding one is enough.
func (p Policy) Qualifies(rec FileRecord, now time.Time) bool {
	return rec.AgeDays(now) > p.MaxAgeDays || rec.SizeMB() > p.MaxSizeMB
}

// Reasons lists which thresholds the file exceeds ("age", "size")
func (p Policy) Reasons(rec FileRecord, now time.Time) []string {
	var reasons []string
	if rec.AgeDays(now) > p.MaxAgeDays {
		reasons = append(reasons, "age")
	}
	if rec.SizeMB() > p.MaxSizeMB {
		reasons = append(reasons, "size")
	}
	return reasons
}

// FileRecord is the metadata of one visited file
type FileRecord struct {
	Path      string
	ModTime   time.Time
	SizeBytes int64
}

// AgeDays returns the fractional number of days since the file was modified
func (r FileRecord) AgeDays(now time.Time) float64 {
	return now.Sub(r.ModTime).Hours() / 24
}

// SizeMB returns the file size in megabytes
func (r FileRecord) SizeMB() float64 {
	return float64(r.SizeBytes) / BytesPerMB
}
