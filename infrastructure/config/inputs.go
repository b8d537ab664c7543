package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"log-cleaner/domain/retention"
)

// ErrInvalidNumber is returned when a numeric input is not a positive integer
var ErrInvalidNumber = errors.New("must be a positive whole number")

// ParsePositiveInt parses a user-supplied threshold. The field name is used
// in the error message.
func ParsePositiveInt(field, text string) (int, error) {
	text = strings.TrimSpace(text)
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("%s %q %w", field, text, ErrInvalidNumber)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s %d %w", field, n, ErrInvalidNumber)
	}
	return n, nil
}

// ParsePolicyInputs validates the max age and max size inputs and builds a policy
func ParsePolicyInputs(maxAgeText, maxSizeText string) (retention.Policy, error) {
	age, err := ParsePositiveInt("max age (days)", maxAgeText)
	if err != nil {
		return retention.Policy{}, err
	}
	size, err := ParsePositiveInt("max size (MB)", maxSizeText)
	if err != nil {
		return retention.Policy{}, err
	}
	return retention.NewPolicy(float64(age), float64(size))
}

// Policy returns the retention policy from the cleanup section
func (c *Config) Policy() (retention.Policy, error) {
	return retention.NewPolicy(float64(c.Cleanup.MaxAgeDays), float64(c.Cleanup.MaxSizeMB))
}
