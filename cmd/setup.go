package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"log-cleaner/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command asks for the directory to clean, the age and size limits,
the report recipient, and the SMTP server used to send reports.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, cfgFile, os.Stdout)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, out OutputWriter) error {
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm(filepath.Base(configPath)+" already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(out, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(out, "Welcome to log-cleaner setup!")
	fmt.Fprintln(out)

	cfg := &config.Config{}

	if err := promptCleanup(prompter, cfg); err != nil {
		return err
	}

	if err := promptEmail(prompter, cfg); err != nil {
		return err
	}

	cfg.ApplyDefaults()

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Configuration saved to %s\n", configPath)
	return nil
}

func promptCleanup(prompter Prompter, cfg *config.Config) error {
	dir, err := prompter.Input("Which directory should be cleaned?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if dir == "" {
		return fmt.Errorf("directory is required")
	}
	cfg.Cleanup.Directory = dir

	maxAge, err := promptPositiveInt(prompter, "max age", "Delete files older than how many days?", config.DefaultMaxAgeDays)
	if err != nil {
		return err
	}
	cfg.Cleanup.MaxAgeDays = maxAge

	maxSize, err := promptPositiveInt(prompter, "max size", "Delete files larger than how many MB?", config.DefaultMaxSizeMB)
	if err != nil {
		return err
	}
	cfg.Cleanup.MaxSizeMB = maxSize

	return nil
}

func promptPositiveInt(prompter Prompter, field, message string, defaultValue int) (int, error) {
	text, err := prompter.Input(message, strconv.Itoa(defaultValue))
	if err != nil {
		return 0, fmt.Errorf("prompt cancelled")
	}
	if text == "" {
		return defaultValue, nil
	}
	return config.ParsePositiveInt(field, text)
}

func promptEmail(prompter Prompter, cfg *config.Config) error {
	recipient, err := prompter.Input("Email address that receives cleanup reports?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Email.Recipient = recipient

	if recipient == "" {
		// No email step; transport settings are not needed
		return nil
	}

	fromAddress, err := prompter.Input("Address to send reports from?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if fromAddress == "" {
		return fmt.Errorf("from address is required")
	}
	cfg.Email.FromAddress = fromAddress

	host, err := prompter.Input("SMTP server host?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	cfg.Email.SMTP.Host = host

	port, err := promptPositiveInt(prompter, "SMTP port", "SMTP server port?", config.DefaultSMTPPort)
	if err != nil {
		return err
	}
	cfg.Email.SMTP.Port = port

	username, err := prompter.Input("SMTP username?", fromAddress)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Email.SMTP.Username = username

	// The password itself is never written to the config file
	passwordEnv, err := prompter.Input("Environment variable holding the SMTP password?", "LOG_CLEANER_SMTP_PASSWORD")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Email.SMTP.PasswordEnv = passwordEnv

	return nil
}
