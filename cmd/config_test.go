package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"log-cleaner/infrastructure/config"
)

func TestConfigRecipientCommands(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := &config.Config{}
	cfg.ApplyDefaults()

	var out bytes.Buffer
	if err := RunConfigListWithDependencies(cfg, configPath, "recipients", &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No recipients configured.") {
		t.Errorf("list output = %q", out.String())
	}

	out.Reset()
	if err := RunConfigAddWithDependencies(cfg, configPath, "recipient", "ops", "Ops Team", "ops@example.com", &out); err != nil {
		t.Fatalf("add error = %v", err)
	}
	if err := RunConfigAddWithDependencies(cfg, configPath, "recipient", "jane", "Jane Doe", "jane@example.com", &out); err != nil {
		t.Fatalf("add error = %v", err)
	}
	if err := RunConfigSetDefaultWithDependencies(cfg, configPath, "recipient", "ops", &out); err != nil {
		t.Fatalf("set-default error = %v", err)
	}
	if err := RunConfigUpdateWithDependencies(cfg, configPath, "recipient", "jane", "", "jane.new@example.com", &out); err != nil {
		t.Fatalf("update error = %v", err)
	}

	out.Reset()
	if err := RunConfigListWithDependencies(cfg, configPath, "recipients", &out); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("list printed %d lines, want 3:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[1], "jane") || !strings.Contains(lines[1], "jane.new@example.com") {
		t.Errorf("jane line = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "ops") || !strings.HasSuffix(lines[2], "*") {
		t.Errorf("ops line = %q, want default marker", lines[2])
	}

	// Changes are persisted
	loaded, err := config.Load(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Email.Recipient != "ops" || len(loaded.Email.Recipients) != 2 {
		t.Errorf("persisted recipient=%q count=%d", loaded.Email.Recipient, len(loaded.Email.Recipients))
	}

	if err := RunConfigRemoveWithDependencies(cfg, configPath, "recipient", "ops", &out); err != nil {
		t.Fatalf("remove error = %v", err)
	}
	if cfg.Email.Recipient != "" {
		t.Errorf("removing the default recipient should clear it, got %q", cfg.Email.Recipient)
	}
}

func TestConfigCommands_Errors(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := &config.Config{Email: config.EmailConfig{Recipients: map[string]config.RecipientConfig{
		"ops": {Name: "Ops", Address: "ops@example.com"},
	}}}
	var out bytes.Buffer

	err := RunConfigAddWithDependencies(cfg, configPath, "widget", "k", "n", "a@b.c", &out)
	if err == nil || !strings.Contains(err.Error(), "unknown entity type") {
		t.Errorf("unknown type error = %v", err)
	}

	err = RunConfigAddWithDependencies(cfg, configPath, "recipient", "ops", "Ops", "ops@example.com", &out)
	if !errors.Is(err, config.ErrDuplicateKey) {
		t.Errorf("duplicate error = %v", err)
	}

	err = RunConfigAddWithDependencies(cfg, configPath, "recipient", "bad", "Bad", "not-an-email", &out)
	if !errors.Is(err, config.ErrInvalidEmail) {
		t.Errorf("invalid email error = %v", err)
	}

	err = RunConfigRemoveWithDependencies(cfg, configPath, "recipient", "missing", &out)
	if !errors.Is(err, config.ErrRecipientNotFound) {
		t.Errorf("remove missing error = %v", err)
	}

	err = RunConfigSetDefaultWithDependencies(cfg, configPath, "recipient", "missing", &out)
	if !errors.Is(err, config.ErrRecipientNotFound) {
		t.Errorf("set-default missing error = %v", err)
	}
}
