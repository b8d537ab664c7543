package notification

import "errors"

var (
	// ErrNoRecipients is returned when no recipient is provided
	ErrNoRecipients = errors.New("a recipient is required")

	// ErrInvalidRecipient is returned when the recipient address is malformed
	ErrInvalidRecipient = errors.New("recipient must have a valid email address")

	// ErrNoSender is returned when the sender identity is missing
	ErrNoSender = errors.New("sender address is required")

	// ErrEmptyBody is returned when the report content is empty
	ErrEmptyBody = errors.New("message body is empty")

	// ErrRecipientNotFound is returned when a recipient lookup fails
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrAmbiguousRecipient is returned when multiple recipients match a query
	ErrAmbiguousRecipient = errors.New("multiple recipients match query")

	// ErrSendFailed is returned when the email fails to send
	ErrSendFailed = errors.New("failed to send email")
)
