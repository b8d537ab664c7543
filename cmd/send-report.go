package cmd

import (
	"context"
	"fmt"
	"os"

	appnotif "log-cleaner/application/notification"
	"log-cleaner/domain/notification"
	"log-cleaner/infrastructure/config"

	"github.com/spf13/cobra"
)

var sendReportTo string

var sendReportCmd = &cobra.Command{
	Use:   "send-report <report-file>",
	Short: "Email an existing cleanup report",
	Long: `Send a previously written cleanup report to a recipient.

The recipient can be an email address, a recipient config key, or a name
from the recipients list. Without --to the default recipient is used.

Examples:
  log-cleaner send-report log_cleanup_report_2026-01-15_14-30-00.txt --to ops@example.com
  log-cleaner send-report log_cleanup_report_2026-01-15_14-30-00.txt --to jane`,
	Args: cobra.ExactArgs(1),
	RunE: runSendReport,
}

func init() {
	rootCmd.AddCommand(sendReportCmd)
	sendReportCmd.Flags().StringVar(&sendReportTo, "to", "", "Recipient address, config key or name (defaults to email.recipient)")
}

// ReportNotifier emails a report file
type ReportNotifier interface {
	Notify(ctx context.Context, reportPath string, recipient notification.Recipient) notification.Result
}

func runSendReport(cmd *cobra.Command, args []string) error {
	c := configOrDefaults()

	recipient, err := config.NewRecipientLookup(c).Resolve(sendReportTo)
	if err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}

	log, err := newLogger(c)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	emailSender, err := newEmailSender(ctx, c, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to create email transport: %w", err)
	}

	notifier := appnotif.NewService(emailSender, sender(c),
		appnotif.WithTimeout(c.Email.Timeout.Duration),
		appnotif.WithLogger(log))

	return RunSendReportWithDependencies(ctx, notifier, args[0], recipient, os.Stdout)
}

// RunSendReportWithDependencies sends a report with injected dependencies
func RunSendReportWithDependencies(ctx context.Context, notifier ReportNotifier, reportPath string, recipient notification.Recipient, out OutputWriter) error {
	if _, err := os.Stat(reportPath); err != nil {
		return fmt.Errorf("report file not found: %s", reportPath)
	}

	fmt.Fprintf(out, "Sending %s to %s...\n", reportPath, recipient)

	result := notifier.Notify(ctx, reportPath, recipient)
	if !result.Sent {
		return fmt.Errorf("failed to send email: %w", result.Err)
	}

	fmt.Fprintln(out, "Email sent successfully.")
	return nil
}
