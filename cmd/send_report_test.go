package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"log-cleaner/domain/notification"
)

type stubNotifier struct {
	result notification.Result
	path   string
}

func (n *stubNotifier) Notify(ctx context.Context, reportPath string, recipient notification.Recipient) notification.Result {
	n.path = reportPath
	return n.result
}

func TestRunSendReportWithDependencies(t *testing.T) {
	reportPath := filepath.Join(t.TempDir(), "log_cleanup_report_2026-01-15_14-30-00.txt")
	if err := os.WriteFile(reportPath, []byte("Log Cleanup Report\n"), 0644); err != nil {
		t.Fatal(err)
	}
	recipient := notification.Recipient{Address: "ops@example.com"}

	t.Run("sent", func(t *testing.T) {
		notifier := &stubNotifier{result: notification.Result{Sent: true}}
		var out bytes.Buffer

		if err := RunSendReportWithDependencies(context.Background(), notifier, reportPath, recipient, &out); err != nil {
			t.Fatalf("error = %v", err)
		}
		if notifier.path != reportPath {
			t.Errorf("notified path = %q", notifier.path)
		}
		if !strings.Contains(out.String(), "Email sent successfully.") {
			t.Errorf("output = %q", out.String())
		}
	})

	t.Run("send failure", func(t *testing.T) {
		notifier := &stubNotifier{result: notification.Result{Err: notification.ErrSendFailed}}

		err := RunSendReportWithDependencies(context.Background(), notifier, reportPath, recipient, &bytes.Buffer{})
		if !errors.Is(err, notification.ErrSendFailed) {
			t.Errorf("error = %v, want %v", err, notification.ErrSendFailed)
		}
	})

	t.Run("missing report", func(t *testing.T) {
		notifier := &stubNotifier{}

		err := RunSendReportWithDependencies(context.Background(), notifier, reportPath+".missing", recipient, &bytes.Buffer{})
		if err == nil || !strings.Contains(err.Error(), "report file not found") {
			t.Errorf("error = %v", err)
		}
		if notifier.path != "" {
			t.Errorf("notifier should not be called")
		}
	})
}
