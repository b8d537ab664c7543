package smtp

import (
	"context"
	"fmt"
	"os"
	"time"

	"log-cleaner/domain/notification"
	"log-cleaner/infrastructure/mailmsg"

	"github.com/wneessen/go-mail"
)

// Dialer delivers messages to an SMTP relay. *mail.Client satisfies it.
type Dialer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Config holds the relay settings
type Config struct {
	Host        string
	Port        int
	Username    string
	Password    string
	PasswordEnv string
	Timeout     time.Duration
}

// password returns the configured password, preferring the environment
func (c Config) password() string {
	if c.PasswordEnv != "" {
		if v, ok := os.LookupEnv(c.PasswordEnv); ok {
			return v
		}
	}
	return c.Password
}

// Client implements notification.EmailSender over SMTP with mandatory STARTTLS
type Client struct {
	dialer Dialer
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithDialer sets a custom dialer (for testing)
func WithDialer(d Dialer) ClientOption {
	return func(c *Client) {
		c.dialer = d
	}
}

// NewClient creates an SMTP client. The connection is upgraded with STARTTLS
// and authenticated with PLAIN before any message is sent.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}
	if c.dialer != nil {
		return c, nil
	}

	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}

	mailOpts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.password()),
	}
	if cfg.Timeout > 0 {
		mailOpts = append(mailOpts, mail.WithTimeout(cfg.Timeout))
	}

	client, err := mail.NewClient(cfg.Host, mailOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	c.dialer = client
	return c, nil
}

// Send delivers the message; nil means the relay accepted it
func (c *Client) Send(ctx context.Context, msg *notification.Message) error {
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}

	m, err := mailmsg.Build(msg, time.Now())
	if err != nil {
		return err
	}

	if err := c.dialer.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("%w: %v", notification.ErrSendFailed, err)
	}
	return nil
}

// Ensure Client implements notification.EmailSender
var _ notification.EmailSender = (*Client)(nil)
