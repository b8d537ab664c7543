package cmd

import (
	"context"
	"fmt"
	"sync"

	appcleanup "log-cleaner/application/cleanup"
	appnotif "log-cleaner/application/notification"
	appreport "log-cleaner/application/report"
	appsweep "log-cleaner/application/sweep"
	"log-cleaner/domain/notification"
	"log-cleaner/infrastructure/config"
	"log-cleaner/infrastructure/filesystem"
	"log-cleaner/infrastructure/gmail"
	"log-cleaner/infrastructure/logger"
	"log-cleaner/infrastructure/metrics"
	"log-cleaner/infrastructure/smtp"
)

// newLogger builds the structured logger from the logging section
func newLogger(c *config.Config) (*logger.Logger, error) {
	return logger.New(logger.Config{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
		Output: c.Logging.Output,
	})
}

// newEmailSender builds the configured mail transport
func newEmailSender(ctx context.Context, c *config.Config, out OutputWriter) (notification.EmailSender, error) {
	switch c.Email.Transport {
	case "", "smtp":
		client, err := smtp.NewClient(smtp.Config{
			Host:        c.Email.SMTP.Host,
			Port:        c.Email.SMTP.Port,
			Username:    c.Email.SMTP.Username,
			Password:    c.Email.SMTP.Password,
			PasswordEnv: c.Email.SMTP.PasswordEnv,
			Timeout:     c.Email.Timeout.Duration,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case "gmail":
		client, err := gmail.NewClientWithOAuth(ctx, gmail.OAuthConfig{
			CredentialsFile: c.Email.Gmail.CredentialsFile,
			TokenFile:       c.Email.Gmail.TokenFile,
			Output:          out,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown email transport %q (expected smtp or gmail)", c.Email.Transport)
	}
}

// SenderFactory builds the mail transport
type SenderFactory func() (notification.EmailSender, error)

// lazySender builds its transport on the first Send. Gmail may need an
// interactive OAuth login, which must only happen once there is a report
// to deliver. A factory failure is reported as a failed send since email
// is best-effort.
type lazySender struct {
	build  SenderFactory
	log    *logger.Logger
	once   sync.Once
	sender notification.EmailSender
	err    error
}

func newLazySender(build SenderFactory, log *logger.Logger) *lazySender {
	if log == nil {
		log = logger.Nop()
	}
	return &lazySender{build: build, log: log}
}

func (s *lazySender) Send(ctx context.Context, msg *notification.Message) error {
	s.once.Do(func() {
		s.sender, s.err = s.build()
		if s.err != nil {
			s.log.Warn("email transport unavailable", logger.Field{Key: "error", Value: s.err})
		}
	})
	if s.err != nil {
		return fmt.Errorf("%w: %v", notification.ErrSendFailed, s.err)
	}
	return s.sender.Send(ctx, msg)
}

// configuredSender returns a sender that builds the configured transport on first use
func configuredSender(ctx context.Context, c *config.Config, out OutputWriter, log *logger.Logger) notification.EmailSender {
	return newLazySender(func() (notification.EmailSender, error) {
		return newEmailSender(ctx, c, out)
	}, log)
}

// sender returns the From identity for report emails
func sender(c *config.Config) notification.Recipient {
	return notification.Recipient{
		Name:    c.Email.FromName,
		Address: c.Email.FromAddress,
	}
}

// newPipeline wires the sweep, report and notification services
func newPipeline(c *config.Config, emailSender notification.EmailSender, log *logger.Logger, rec *metrics.Recorder, out OutputWriter) *appcleanup.Service {
	sweeper := appsweep.NewService(filesystem.NewRemover(),
		appsweep.WithLogger(log),
		appsweep.WithMetrics(rec))
	reporter := appreport.NewService(c.Cleanup.ReportDirectory,
		appreport.WithLogger(log))
	notifier := appnotif.NewService(emailSender, sender(c),
		appnotif.WithTimeout(c.Email.Timeout.Duration),
		appnotif.WithLogger(log),
		appnotif.WithMetrics(rec))

	return appcleanup.NewService(sweeper, reporter, notifier, out)
}
