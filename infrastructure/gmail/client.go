package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"log-cleaner/domain/notification"
	"log-cleaner/infrastructure/mailmsg"

	"google.golang.org/api/gmail/v1"
)

// GmailService defines the interface for Gmail API operations
// This allows mocking the Gmail API in tests
type GmailService interface {
	SendMessage(ctx context.Context, userID string, message *gmail.Message) (*gmail.Message, error)
}

// GoogleGmailService is the production implementation using the Gmail API
type GoogleGmailService struct {
	service *gmail.Service
}

// SendMessage sends an email via Gmail API
func (s *GoogleGmailService) SendMessage(ctx context.Context, userID string, message *gmail.Message) (*gmail.Message, error) {
	return s.service.Users.Messages.Send(userID, message).Context(ctx).Do()
}

// Client implements notification.EmailSender using Gmail API
type Client struct {
	gmailService GmailService
	now          func() time.Time
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithGmailService sets a custom Gmail service (for testing)
func WithGmailService(svc GmailService) ClientOption {
	return func(c *Client) {
		c.gmailService = svc
	}
}

// NewClient creates a new Gmail client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{now: time.Now}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Send sends a plain-text email using the Gmail API
func (c *Client) Send(ctx context.Context, msg *notification.Message) error {
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}

	raw, err := mailmsg.Render(msg, c.now())
	if err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}
	message := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}

	sent, err := c.gmailService.SendMessage(ctx, "me", message)
	if err != nil {
		return fmt.Errorf("%w: %v", notification.ErrSendFailed, err)
	}
	if sent == nil || sent.Id == "" {
		return fmt.Errorf("%w: no message id returned", notification.ErrSendFailed)
	}

	return nil
}

// Ensure Client implements notification.EmailSender
var _ notification.EmailSender = (*Client)(nil)
