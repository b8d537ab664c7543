package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	appcleanup "log-cleaner/application/cleanup"
	"log-cleaner/domain/retention"
	"log-cleaner/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	cleanDir       string
	cleanMaxAge    string
	cleanMaxSize   string
	cleanTo        string
	cleanReportDir string
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete old or oversized files and email a report",
	Long: `Walk a directory recursively and delete every regular file whose age
exceeds --max-age days OR whose size exceeds --max-size megabytes.

A report listing the deleted files is written to the working directory
(or --report-dir) and emailed to the recipient. When nothing is deleted,
no report or email is produced.

Values not given on the command line are taken from the config file.

Examples:
  log-cleaner clean --dir /var/log/myapp --max-age 30 --max-size 100 --to ops@example.com
  log-cleaner clean --dir ./logs --max-age 7 --max-size 10 --to ops
  log-cleaner clean --config config/config.yaml`,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVar(&cleanDir, "dir", "", "Directory to clean (defaults to cleanup.directory)")
	cleanCmd.Flags().StringVar(&cleanMaxAge, "max-age", "", "Maximum file age in days, a positive integer (defaults to cleanup.max_age_days)")
	cleanCmd.Flags().StringVar(&cleanMaxSize, "max-size", "", "Maximum file size in MB, a positive integer (defaults to cleanup.max_size_mb)")
	cleanCmd.Flags().StringVar(&cleanTo, "to", "", "Report recipient: an email address or a recipient config key/name (defaults to email.recipient)")
	cleanCmd.Flags().StringVar(&cleanReportDir, "report-dir", "", "Directory for the cleanup report (defaults to the working directory)")
}

// CleanOptions holds the command-line values for a cleanup run
type CleanOptions struct {
	Directory string
	MaxAge    string
	MaxSize   string
	To        string
}

// CleanupRunner runs the sweep, report and notification pipeline
type CleanupRunner interface {
	Run(ctx context.Context, input appcleanup.Input) (*appcleanup.Result, error)
}

var _ CleanupRunner = (*appcleanup.Service)(nil)

func runClean(cmd *cobra.Command, args []string) error {
	c := configOrDefaults()
	if cleanReportDir != "" {
		c.Cleanup.ReportDirectory = cleanReportDir
	}

	input, err := ResolveCleanInput(c, CleanOptions{
		Directory: cleanDir,
		MaxAge:    cleanMaxAge,
		MaxSize:   cleanMaxSize,
		To:        cleanTo,
	})
	if err != nil {
		return err
	}

	log, err := newLogger(c)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pipeline := newPipeline(c, configuredSender(ctx, c, os.Stdout, log), log, nil, os.Stdout)
	return RunCleanWithDependencies(ctx, pipeline, input)
}

// ResolveCleanInput merges command-line values over the config file and
// validates them. An empty recipient means the email step is skipped.
func ResolveCleanInput(c *config.Config, opts CleanOptions) (appcleanup.Input, error) {
	dir := opts.Directory
	if dir == "" {
		dir = c.Cleanup.Directory
	}
	if dir == "" {
		return appcleanup.Input{}, fmt.Errorf("--dir is required (or set cleanup.directory in the config file)")
	}

	var policy retention.Policy
	var err error
	if opts.MaxAge == "" && opts.MaxSize == "" {
		policy, err = c.Policy()
	} else {
		maxAge := opts.MaxAge
		if maxAge == "" {
			maxAge = strconv.Itoa(c.Cleanup.MaxAgeDays)
		}
		maxSize := opts.MaxSize
		if maxSize == "" {
			maxSize = strconv.Itoa(c.Cleanup.MaxSizeMB)
		}
		policy, err = config.ParsePolicyInputs(maxAge, maxSize)
	}
	if err != nil {
		return appcleanup.Input{}, err
	}

	input := appcleanup.Input{
		Directory: dir,
		Policy:    policy,
	}

	if opts.To == "" && c.Email.Recipient == "" {
		return input, nil
	}

	recipient, err := config.NewRecipientLookup(c).Resolve(opts.To)
	if err != nil {
		return appcleanup.Input{}, fmt.Errorf("invalid recipient: %w", err)
	}
	input.Recipient = recipient

	return input, nil
}

// RunCleanWithDependencies runs a cleanup with injected dependencies
func RunCleanWithDependencies(ctx context.Context, runner CleanupRunner, input appcleanup.Input) error {
	_, err := runner.Run(ctx, input)
	return err
}
