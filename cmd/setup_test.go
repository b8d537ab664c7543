package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"log-cleaner/infrastructure/config"
)

// scriptedPrompter answers prompts in order
type scriptedPrompter struct {
	inputs   []string
	confirms []bool
	messages []string
}

func (p *scriptedPrompter) Input(message string, defaultValue string) (string, error) {
	p.messages = append(p.messages, message)
	if len(p.inputs) == 0 {
		return "", errors.New("interrupt")
	}
	answer := p.inputs[0]
	p.inputs = p.inputs[1:]
	return answer, nil
}

func (p *scriptedPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	p.messages = append(p.messages, message)
	if len(p.confirms) == 0 {
		return defaultValue, nil
	}
	answer := p.confirms[0]
	p.confirms = p.confirms[1:]
	return answer, nil
}

func TestRunSetupWithPrompter_FullConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config", "config.yaml")
	prompter := &scriptedPrompter{inputs: []string{
		"/var/log/myapp",      // directory
		"14",                  // max age
		"50",                  // max size
		"ops@example.com",     // recipient
		"cleaner@example.com", // from
		"smtp.example.com",    // host
		"2525",                // port
		"cleaner",             // username
		"SMTP_PASSWORD",       // password env
	}}
	var out bytes.Buffer

	if err := RunSetupWithPrompter(prompter, configPath, &out); err != nil {
		t.Fatalf("RunSetupWithPrompter() error = %v", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Cleanup.Directory != "/var/log/myapp" {
		t.Errorf("Directory = %q", cfg.Cleanup.Directory)
	}
	if cfg.Cleanup.MaxAgeDays != 14 || cfg.Cleanup.MaxSizeMB != 50 {
		t.Errorf("limits = %d days, %d MB", cfg.Cleanup.MaxAgeDays, cfg.Cleanup.MaxSizeMB)
	}
	if cfg.Email.Recipient != "ops@example.com" {
		t.Errorf("Recipient = %q", cfg.Email.Recipient)
	}
	if cfg.Email.SMTP.Host != "smtp.example.com" || cfg.Email.SMTP.Port != 2525 {
		t.Errorf("SMTP = %s:%d", cfg.Email.SMTP.Host, cfg.Email.SMTP.Port)
	}
	if cfg.Email.SMTP.PasswordEnv != "SMTP_PASSWORD" {
		t.Errorf("PasswordEnv = %q", cfg.Email.SMTP.PasswordEnv)
	}
	if cfg.Email.SMTP.Password != "" {
		t.Errorf("password should never be written, got %q", cfg.Email.SMTP.Password)
	}
	if !strings.Contains(out.String(), "Configuration saved to "+configPath) {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunSetupWithPrompter_NoRecipientSkipsTransport(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	prompter := &scriptedPrompter{inputs: []string{"logs", "", "", ""}}

	if err := RunSetupWithPrompter(prompter, configPath, &bytes.Buffer{}); err != nil {
		t.Fatalf("RunSetupWithPrompter() error = %v", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cleanup.MaxAgeDays != config.DefaultMaxAgeDays || cfg.Cleanup.MaxSizeMB != config.DefaultMaxSizeMB {
		t.Errorf("empty answers should keep defaults, got %d days, %d MB", cfg.Cleanup.MaxAgeDays, cfg.Cleanup.MaxSizeMB)
	}
	if cfg.Email.SMTP.Host != "" {
		t.Errorf("SMTP host = %q, want empty", cfg.Email.SMTP.Host)
	}
}

func TestRunSetupWithPrompter_Errors(t *testing.T) {
	tests := []struct {
		name    string
		inputs  []string
		wantErr string
	}{
		{name: "missing directory", inputs: []string{""}, wantErr: "directory is required"},
		{name: "non-integer age", inputs: []string{"logs", "soon"}, wantErr: "max age"},
		{name: "negative size", inputs: []string{"logs", "1", "-5"}, wantErr: "max size"},
		{name: "missing smtp host", inputs: []string{"logs", "1", "1", "ops@example.com", "me@example.com", ""}, wantErr: "SMTP host is required"},
		{name: "cancelled", inputs: nil, wantErr: "prompt cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			prompter := &scriptedPrompter{inputs: tt.inputs}

			err := RunSetupWithPrompter(prompter, configPath, &bytes.Buffer{})
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("RunSetupWithPrompter() error = %v, want containing %q", err, tt.wantErr)
			}
			if _, statErr := os.Stat(configPath); !os.IsNotExist(statErr) {
				t.Errorf("config file should not be written on error")
			}
		})
	}
}

func TestRunSetupWithPrompter_KeepsExistingConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("cleanup:\n  directory: keep\n"), 0600); err != nil {
		t.Fatal(err)
	}
	prompter := &scriptedPrompter{confirms: []bool{false}}
	var out bytes.Buffer

	if err := RunSetupWithPrompter(prompter, configPath, &out); err != nil {
		t.Fatalf("RunSetupWithPrompter() error = %v", err)
	}
	if !strings.Contains(out.String(), "Setup cancelled.") {
		t.Errorf("output = %q", out.String())
	}
	data, _ := os.ReadFile(configPath)
	if !strings.Contains(string(data), "directory: keep") {
		t.Errorf("existing config was overwritten: %s", data)
	}
}
