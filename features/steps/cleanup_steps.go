//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	appcleanup "log-cleaner/application/cleanup"
	appreport "log-cleaner/application/report"
	appsweep "log-cleaner/application/sweep"
	"log-cleaner/domain/notification"
	"log-cleaner/domain/report"
	"log-cleaner/domain/retention"
	"log-cleaner/infrastructure/filesystem"

	"github.com/cucumber/godog"
)

// racingRemover simulates another process deleting files just before the sweep does
type racingRemover struct {
	inner    retention.Remover
	vanished map[string]bool
}

func (r *racingRemover) Remove(path string) error {
	if r.vanished[filepath.Base(path)] {
		os.Remove(path)
	}
	return r.inner.Remove(path)
}

// recordingNotifier captures notify calls without sending anything
type recordingNotifier struct {
	calls []string
}

func (n *recordingNotifier) Notify(ctx context.Context, reportPath string, recipient notification.Recipient) notification.Result {
	n.calls = append(n.calls, reportPath)
	return notification.Result{Sent: true}
}

type cleanupContext struct {
	tempDir   string
	logDir    string
	reportDir string
	policy    retention.Policy
	remover   *racingRemover
	notifier  *recordingNotifier
	output    *bytes.Buffer
	result    *appcleanup.Result
	err       error
}

var SharedCleanupContext *cleanupContext

func InitializeCleanupScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "log-cleaner-test-*")
		if err != nil {
			return c, err
		}
		logDir := filepath.Join(tempDir, "logs")
		reportDir := filepath.Join(tempDir, "reports")
		for _, dir := range []string{logDir, reportDir} {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return c, err
			}
		}
		SharedCleanupContext = &cleanupContext{
			tempDir:   tempDir,
			logDir:    logDir,
			reportDir: reportDir,
			remover: &racingRemover{
				inner:    filesystem.NewRemover(),
				vanished: make(map[string]bool),
			},
			notifier: &recordingNotifier{},
			output:   &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedCleanupContext != nil && SharedCleanupContext.tempDir != "" {
			os.RemoveAll(SharedCleanupContext.tempDir)
		}
		SharedCleanupContext = nil
		return c, nil
	})

	ctx.Step(`^a retention policy of (\d+) days and (\d+) MB$`, aRetentionPolicyOf)
	ctx.Step(`^a file "([^"]*)" that is (\d+) days old and (\d+) MB$`, aFileThatIsDaysOldAndMB)
	ctx.Step(`^"([^"]*)" is removed by another process before it is deleted$`, isRemovedByAnotherProcess)
	ctx.Step(`^I run the cleanup$`, iRunTheCleanup)
	ctx.Step(`^I run the cleanup on a directory that does not exist$`, iRunTheCleanupOnAMissingDirectory)
	ctx.Step(`^"([^"]*)" should have been deleted$`, shouldHaveBeenDeleted)
	ctx.Step(`^"([^"]*)" should still exist$`, shouldStillExist)
	ctx.Step(`^the output should contain "([^"]*)"$`, theCleanupOutputShouldContain)
	ctx.Step(`^the report should list exactly "([^"]*)"$`, theReportShouldListExactly)
	ctx.Step(`^no report should be written$`, noReportShouldBeWritten)
	ctx.Step(`^the report should have been emailed$`, theReportShouldHaveBeenEmailed)
	ctx.Step(`^no email should be sent$`, noEmailShouldBeSent)
	ctx.Step(`^the cleanup should fail with a directory access error$`, theCleanupShouldFailWithADirectoryAccessError)
}

func aRetentionPolicyOf(days, mb int) error {
	policy, err := retention.NewPolicy(float64(days), float64(mb))
	if err != nil {
		return err
	}
	SharedCleanupContext.policy = policy
	return nil
}

func aFileThatIsDaysOldAndMB(name string, days, mb int) error {
	path := filepath.Join(SharedCleanupContext.logDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	// Sparse files keep large sizes cheap
	if err := f.Truncate(int64(mb) * retention.BytesPerMB); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	mtime := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
	return os.Chtimes(path, mtime, mtime)
}

func isRemovedByAnotherProcess(name string) error {
	SharedCleanupContext.remover.vanished[name] = true
	return nil
}

func (c *cleanupContext) run(dir string) {
	sweeper := appsweep.NewService(c.remover)
	reporter := appreport.NewService(c.reportDir)
	svc := appcleanup.NewService(sweeper, reporter, c.notifier, c.output)

	c.result, c.err = svc.Run(context.Background(), appcleanup.Input{
		Directory: dir,
		Policy:    c.policy,
		Recipient: notification.Recipient{Address: "ops@example.com"},
	})
}

func iRunTheCleanup() error {
	SharedCleanupContext.run(SharedCleanupContext.logDir)
	return nil
}

func iRunTheCleanupOnAMissingDirectory() error {
	SharedCleanupContext.run(filepath.Join(SharedCleanupContext.tempDir, "missing"))
	return nil
}

func shouldHaveBeenDeleted(name string) error {
	if SharedCleanupContext.err != nil {
		return fmt.Errorf("cleanup failed: %w", SharedCleanupContext.err)
	}
	if _, err := os.Stat(filepath.Join(SharedCleanupContext.logDir, name)); !os.IsNotExist(err) {
		return fmt.Errorf("expected %s to be deleted", name)
	}
	return nil
}

func shouldStillExist(name string) error {
	if _, err := os.Stat(filepath.Join(SharedCleanupContext.logDir, name)); err != nil {
		return fmt.Errorf("expected %s to exist: %w", name, err)
	}
	return nil
}

func theCleanupOutputShouldContain(expected string) error {
	output := SharedCleanupContext.output.String()
	if !strings.Contains(output, expected) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", expected, output)
	}
	return nil
}

func theReportShouldListExactly(names string) error {
	result := SharedCleanupContext.result
	if result == nil || result.ReportPath == "" {
		return fmt.Errorf("no report was written")
	}

	data, err := os.ReadFile(result.ReportPath)
	if err != nil {
		return err
	}
	rep, err := report.Parse(string(data))
	if err != nil {
		return err
	}

	var want []string
	for _, name := range strings.Split(names, ",") {
		want = append(want, filepath.Join(SharedCleanupContext.logDir, strings.TrimSpace(name)))
	}
	if len(rep.DeletedPaths) != len(want) {
		return fmt.Errorf("report lists %v, want %v", rep.DeletedPaths, want)
	}
	for i := range want {
		if rep.DeletedPaths[i] != want[i] {
			return fmt.Errorf("report line %d = %q, want %q", i, rep.DeletedPaths[i], want[i])
		}
	}
	return nil
}

func noReportShouldBeWritten() error {
	if SharedCleanupContext.result != nil && SharedCleanupContext.result.ReportPath != "" {
		return fmt.Errorf("unexpected report %s", SharedCleanupContext.result.ReportPath)
	}
	entries, err := os.ReadDir(SharedCleanupContext.reportDir)
	if err != nil {
		return err
	}
	if len(entries) != 0 {
		return fmt.Errorf("report directory has %d entries, want 0", len(entries))
	}
	return nil
}

func theReportShouldHaveBeenEmailed() error {
	calls := SharedCleanupContext.notifier.calls
	if len(calls) != 1 {
		return fmt.Errorf("notifier called %d times, want 1", len(calls))
	}
	if calls[0] != SharedCleanupContext.result.ReportPath {
		return fmt.Errorf("emailed %s, want %s", calls[0], SharedCleanupContext.result.ReportPath)
	}
	return nil
}

func noEmailShouldBeSent() error {
	if n := len(SharedCleanupContext.notifier.calls); n != 0 {
		return fmt.Errorf("notifier called %d times, want 0", n)
	}
	return nil
}

func theCleanupShouldFailWithADirectoryAccessError() error {
	if SharedCleanupContext.err == nil {
		return fmt.Errorf("expected cleanup to fail")
	}
	var accessErr *retention.DirectoryAccessError
	if !errors.As(SharedCleanupContext.err, &accessErr) {
		return fmt.Errorf("expected DirectoryAccessError, got %v", SharedCleanupContext.err)
	}
	if SharedCleanupContext.result != nil {
		return fmt.Errorf("expected no partial result")
	}
	return nil
}
