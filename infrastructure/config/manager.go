package config

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned when editing report recipients
var (
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrDuplicateKey      = errors.New("recipient key already in use")
	ErrInvalidEmail      = errors.New("invalid email format")
)

// ConfigManager edits the named report recipients and saves every change
// back to the config file it was loaded from
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager returns a manager that persists cfg to configPath
func NewConfigManager(cfg *Config, configPath string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configPath: configPath,
	}
}

// Recipient is one entry of email.recipients. Default marks the entry that
// receives cleanup reports when no --to is given.
type Recipient struct {
	Key     string
	Name    string
	Address string
	Default bool
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func (m *ConfigManager) lookup(key string) (string, RecipientConfig, error) {
	key = normalizeKey(key)
	rc, ok := m.config.Email.Recipients[key]
	if !ok {
		return key, RecipientConfig{}, fmt.Errorf("%w: %q", ErrRecipientNotFound, key)
	}
	return key, rc, nil
}

// AddRecipient registers a new report recipient under key
func (m *ConfigManager) AddRecipient(key, name, email string) error {
	key = normalizeKey(key)
	email = strings.TrimSpace(email)

	if key == "" {
		return fmt.Errorf("a key is required to add a report recipient")
	}
	if !isValidEmail(email) {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	if _, taken := m.config.Email.Recipients[key]; taken {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}

	if m.config.Email.Recipients == nil {
		m.config.Email.Recipients = make(map[string]RecipientConfig)
	}
	m.config.Email.Recipients[key] = RecipientConfig{Name: strings.TrimSpace(name), Address: email}
	return Save(m.config, m.configPath)
}

// ListRecipients returns every report recipient in no particular order
func (m *ConfigManager) ListRecipients() []Recipient {
	out := make([]Recipient, 0, len(m.config.Email.Recipients))
	for key, rc := range m.config.Email.Recipients {
		out = append(out, Recipient{
			Key:     key,
			Name:    rc.Name,
			Address: rc.Address,
			Default: key == m.config.Email.Recipient,
		})
	}
	return out
}

// GetRecipient returns the recipient stored under key (case-insensitive)
func (m *ConfigManager) GetRecipient(key string) (Recipient, error) {
	key, rc, err := m.lookup(key)
	if err != nil {
		return Recipient{}, err
	}
	return Recipient{
		Key:     key,
		Name:    rc.Name,
		Address: rc.Address,
		Default: key == m.config.Email.Recipient,
	}, nil
}

// RemoveRecipient deletes a recipient. Removing the default recipient leaves
// cleanup runs without a report recipient until a new default is chosen.
func (m *ConfigManager) RemoveRecipient(key string) error {
	key, _, err := m.lookup(key)
	if err != nil {
		return err
	}

	delete(m.config.Email.Recipients, key)
	if m.config.Email.Recipient == key {
		m.config.Email.Recipient = ""
	}
	return Save(m.config, m.configPath)
}

// UpdateRecipient changes the name and/or address; empty values are left as they are
func (m *ConfigManager) UpdateRecipient(key, name, email string) error {
	key, rc, err := m.lookup(key)
	if err != nil {
		return err
	}

	if name = strings.TrimSpace(name); name != "" {
		rc.Name = name
	}
	if email = strings.TrimSpace(email); email != "" {
		if !isValidEmail(email) {
			return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
		}
		rc.Address = email
	}

	m.config.Email.Recipients[key] = rc
	return Save(m.config, m.configPath)
}

// SetDefaultRecipient makes key the recipient of cleanup reports when --to is omitted
func (m *ConfigManager) SetDefaultRecipient(key string) error {
	key, _, err := m.lookup(key)
	if err != nil {
		return err
	}

	m.config.Email.Recipient = key
	return Save(m.config, m.configPath)
}

// isValidEmail accepts local@domain.tld without whitespace or angle brackets
func isValidEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 1 || at == len(email)-1 {
		return false
	}
	return strings.Contains(email[at+1:], ".") && !strings.ContainsAny(email, " \t\r\n<>")
}
