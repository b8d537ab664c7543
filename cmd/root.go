package cmd

import (
	"fmt"
	"os"

	"log-cleaner/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "log-cleaner",
	Short: "Delete old or oversized log files and email a report",
	Long: `log-cleaner sweeps a directory tree and removes files that are older
than a maximum age or larger than a maximum size:

  - Walk the directory recursively
  - Delete every file exceeding either threshold
  - Write a timestamped report of the deleted files
  - Email the report to an operator

Example:
  log-cleaner clean --dir /var/log/myapp --max-age 30 --max-size 100 --to ops@example.com`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file, YAML or TOML (default is ./config/config.yaml)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = config.DefaultConfigPath
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		// Config file is optional; commands fall back to flags and defaults
		cfg = nil
	}
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}

// configOrDefaults returns the loaded configuration, or an all-defaults one
// when no config file exists
func configOrDefaults() *config.Config {
	if cfg != nil {
		return cfg
	}
	c := &config.Config{}
	c.ApplyDefaults()
	return c
}

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}
