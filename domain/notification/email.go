package notification

import (
	"context"
	"fmt"
	"strings"
)

// DefaultSubject is the subject line of every cleanup report email
const DefaultSubject = "Log Cleanup Report"

// Recipient represents an email recipient with name and address
type Recipient struct {
	Name    string
	Address string
}

// String formats the recipient as an address header value
func (r Recipient) String() string {
	if r.Name == "" {
		return r.Address
	}
	return fmt.Sprintf("%s <%s>", r.Name, r.Address)
}

// Message is a plain-text email carrying a cleanup report
type Message struct {
	From    Recipient
	To      Recipient
	Subject string
	Body    string
}

// Validate checks that the message has all required fields
func (m *Message) Validate() error {
	if m.To.Address == "" {
		return ErrNoRecipients
	}
	if !strings.Contains(m.To.Address, "@") {
		return ErrInvalidRecipient
	}
	if m.From.Address == "" {
		return ErrNoSender
	}
	if m.Body == "" {
		return ErrEmptyBody
	}
	return nil
}

// EmailSender defines the interface for sending emails.
// Implementations return nil only once the transport has accepted the message.
type EmailSender interface {
	Send(ctx context.Context, msg *Message) error
}

// Result is the outcome of a notification attempt
type Result struct {
	Sent bool
	Err  error
}
