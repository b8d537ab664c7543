package config

import (
	"fmt"
	"strings"

	"log-cleaner/domain/notification"
)

// RecipientLookup resolves the recipient for a report email
type RecipientLookup struct {
	config *Config
}

// NewRecipientLookup creates a new recipient lookup from config
func NewRecipientLookup(cfg *Config) *RecipientLookup {
	return &RecipientLookup{config: cfg}
}

// LookupRecipient finds recipients matching the query (key, first name, last name, or full name).
// Returns all matches - caller should handle ambiguity
func (r *RecipientLookup) LookupRecipient(query string) ([]notification.Recipient, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, notification.ErrRecipientNotFound
	}

	var matches []notification.Recipient

	for key, rc := range r.config.Email.Recipients {
		keyLower := strings.ToLower(key)
		nameLower := strings.ToLower(rc.Name)
		nameParts := strings.Fields(nameLower)

		var firstName, lastName string
		if len(nameParts) > 0 {
			firstName = nameParts[0]
		}
		if len(nameParts) > 1 {
			lastName = nameParts[len(nameParts)-1]
		}

		if keyLower == query || firstName == query || lastName == query || nameLower == query {
			matches = append(matches, notification.Recipient{
				Name:    rc.Name,
				Address: rc.Address,
			})
		}
	}

	if len(matches) == 0 {
		return nil, notification.ErrRecipientNotFound
	}

	return matches, nil
}

// Resolve turns a --to value into a single recipient. A value containing
// "@" is used as a literal address; anything else must match exactly one
// configured recipient. An empty value falls back to email.recipient.
func (r *RecipientLookup) Resolve(value string) (notification.Recipient, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = strings.TrimSpace(r.config.Email.Recipient)
	}
	if value == "" {
		return notification.Recipient{}, notification.ErrNoRecipients
	}

	if strings.Contains(value, "@") {
		if !isValidEmail(value) {
			return notification.Recipient{}, fmt.Errorf("%w: %q", ErrInvalidEmail, value)
		}
		return notification.Recipient{Address: value}, nil
	}

	matches, err := r.LookupRecipient(value)
	if err != nil {
		return notification.Recipient{}, fmt.Errorf("recipient %q: %w", value, err)
	}
	if len(matches) > 1 {
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return notification.Recipient{}, fmt.Errorf("%w: %q matches %s - use the config key to disambiguate",
			notification.ErrAmbiguousRecipient, value, strings.Join(names, ", "))
	}
	return matches[0], nil
}
