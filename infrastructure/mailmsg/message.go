// Package mailmsg converts report notifications into MIME messages shared by
// the SMTP and Gmail transports.
package mailmsg

import (
	"bytes"
	"fmt"
	"time"

	"log-cleaner/domain/notification"

	"github.com/wneessen/go-mail"
)

// Build converts msg to a plain-text, quoted-printable MIME message dated at date.
// Quoted-printable keeps every body line within the RFC 5322 length limit
// regardless of how long a reported path is.
func Build(msg *notification.Message, date time.Time) (*mail.Msg, error) {
	m := mail.NewMsg(mail.WithEncoding(mail.EncodingQP), mail.WithCharset(mail.CharsetUTF8))

	var err error
	if msg.From.Name != "" {
		err = m.FromFormat(msg.From.Name, msg.From.Address)
	} else {
		err = m.From(msg.From.Address)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}

	if msg.To.Name != "" {
		err = m.AddToFormat(msg.To.Name, msg.To.Address)
	} else {
		err = m.To(msg.To.Address)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}

	m.Subject(msg.Subject)
	m.SetDateWithValue(date)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	return m, nil
}

// Render returns the full RFC 5322 bytes of msg
func Render(msg *notification.Message, date time.Time) ([]byte, error) {
	m, err := Build(msg, date)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to render message: %w", err)
	}
	return buf.Bytes(), nil
}
