package notification

import (
	"context"
	"fmt"
	"os"
	"time"

	"log-cleaner/domain/notification"
	"log-cleaner/infrastructure/logger"
	"log-cleaner/infrastructure/metrics"
)

// DefaultTimeout bounds a single send when none is configured
const DefaultTimeout = 30 * time.Second

// Service emails cleanup reports. Delivery is best-effort: failures are
// reported in the result, never returned as errors.
type Service struct {
	sender  notification.EmailSender
	from    notification.Recipient
	subject string
	timeout time.Duration
	log     *logger.Logger
	metrics *metrics.Recorder
}

// Option configures a Service
type Option func(*Service)

// WithTimeout bounds each send attempt
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the structured logger
func WithLogger(log *logger.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService creates a new notification service
func NewService(sender notification.EmailSender, from notification.Recipient, opts ...Option) *Service {
	s := &Service{
		sender:  sender,
		from:    from,
		subject: notification.DefaultSubject,
		timeout: DefaultTimeout,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notify sends the content of the report at reportPath to recipient
func (s *Service) Notify(ctx context.Context, reportPath string, recipient notification.Recipient) notification.Result {
	result := s.notify(ctx, reportPath, recipient)
	s.metrics.Notification(result.Sent)
	if result.Sent {
		s.log.Info("report emailed",
			logger.Field{Key: "report", Value: reportPath},
			logger.Field{Key: "recipient", Value: recipient.Address})
	} else {
		s.log.Error("report email failed", result.Err,
			logger.Field{Key: "report", Value: reportPath},
			logger.Field{Key: "recipient", Value: recipient.Address})
	}
	return result
}

func (s *Service) notify(ctx context.Context, reportPath string, recipient notification.Recipient) notification.Result {
	content, err := os.ReadFile(reportPath)
	if err != nil {
		return notification.Result{Err: fmt.Errorf("failed to read report: %w", err)}
	}

	msg := &notification.Message{
		From:    s.from,
		To:      recipient,
		Subject: s.subject,
		Body:    string(content),
	}
	if err := msg.Validate(); err != nil {
		return notification.Result{Err: fmt.Errorf("invalid email: %w", err)}
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.sender.Send(sendCtx, msg); err != nil {
		return notification.Result{Err: err}
	}
	return notification.Result{Sent: true}
}
