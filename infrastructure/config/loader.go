package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file leaves a value unset
const (
	DefaultConfigPath = "config/config.yaml"
	DefaultMaxAgeDays = 30
	DefaultMaxSizeMB  = 100
	DefaultSMTPPort   = 587
	DefaultTimeout    = 30 * time.Second
)

// Config represents the complete application configuration
type Config struct {
	Cleanup  CleanupConfig  `yaml:"cleanup" toml:"cleanup"`
	Email    EmailConfig    `yaml:"email" toml:"email"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
	Schedule ScheduleConfig `yaml:"schedule" toml:"schedule"`
}

// CleanupConfig contains the sweep inputs
type CleanupConfig struct {
	Directory       string `yaml:"directory" toml:"directory"`
	MaxAgeDays      int    `yaml:"max_age_days" toml:"max_age_days"`
	MaxSizeMB       int    `yaml:"max_size_mb" toml:"max_size_mb"`
	ReportDirectory string `yaml:"report_directory,omitempty" toml:"report_directory,omitempty"`
}

// EmailConfig contains email notification settings
type EmailConfig struct {
	Transport   string                     `yaml:"transport" toml:"transport"` // smtp or gmail
	FromName    string                     `yaml:"from_name" toml:"from_name"`
	FromAddress string                     `yaml:"from_address" toml:"from_address"`
	Recipient   string                     `yaml:"recipient" toml:"recipient"`
	Recipients  map[string]RecipientConfig `yaml:"recipients,omitempty" toml:"recipients,omitempty"`
	Timeout     Duration                   `yaml:"timeout,omitempty" toml:"timeout,omitempty"`
	SMTP        SMTPConfig                 `yaml:"smtp" toml:"smtp"`
	Gmail       GmailConfig                `yaml:"gmail,omitempty" toml:"gmail,omitempty"`
}

// RecipientConfig represents an email recipient
type RecipientConfig struct {
	Name    string `yaml:"name" toml:"name"`
	Address string `yaml:"address" toml:"address"`
}

// SMTPConfig contains the relay settings. The password is normally read
// from the environment variable named by PasswordEnv.
type SMTPConfig struct {
	Host        string `yaml:"host" toml:"host"`
	Port        int    `yaml:"port" toml:"port"`
	Username    string `yaml:"username" toml:"username"`
	Password    string `yaml:"password,omitempty" toml:"password,omitempty"`
	PasswordEnv string `yaml:"password_env,omitempty" toml:"password_env,omitempty"`
}

// GmailConfig contains Gmail API settings
type GmailConfig struct {
	CredentialsFile string `yaml:"credentials_file" toml:"credentials_file"`
	TokenFile       string `yaml:"token_file" toml:"token_file"`
}

// LoggingConfig contains structured logging settings
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
	Output string `yaml:"output" toml:"output"`
}

// ScheduleConfig contains settings for repeated runs
type ScheduleConfig struct {
	Cron        string `yaml:"cron,omitempty" toml:"cron,omitempty"`
	MetricsAddr string `yaml:"metrics_addr,omitempty" toml:"metrics_addr,omitempty"`
}

// Duration is a time.Duration written as a string such as "30s"
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler (used by both yaml and toml)
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// IsZero lets yaml omitempty skip unset durations
func (d Duration) IsZero() bool {
	return d.Duration == 0
}

// ApplyDefaults fills in unset values
func (c *Config) ApplyDefaults() {
	if c.Cleanup.MaxAgeDays == 0 {
		c.Cleanup.MaxAgeDays = DefaultMaxAgeDays
	}
	if c.Cleanup.MaxSizeMB == 0 {
		c.Cleanup.MaxSizeMB = DefaultMaxSizeMB
	}
	if c.Email.Transport == "" {
		c.Email.Transport = "smtp"
	}
	if c.Email.SMTP.Port == 0 {
		c.Email.SMTP.Port = DefaultSMTPPort
	}
	if c.Email.Timeout.Duration == 0 {
		c.Email.Timeout.Duration = DefaultTimeout
	}
	if c.Email.Gmail.TokenFile == "" {
		c.Email.Gmail.TokenFile = "gmail_token.json"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stderr"
	}
}

// isTOML reports whether path should be parsed as TOML
func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads and parses the configuration from the specified YAML or TOML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if isTOML(path) {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// Save writes the configuration to the specified YAML or TOML file
func Save(cfg *Config, path string) error {
	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("failed to serialize config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		data, err = yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to serialize config: %w", err)
		}
	}

	// The file may hold an SMTP password
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
