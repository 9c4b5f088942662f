package mailer

import (
	"bytes"
	"fmt"

	"github.com/wneessen/go-mail"
)

// BuildMessage assembles the MIME message for e. Providers that speak SMTP
// or accept raw MIME share it.
func BuildMessage(from string, e *Email) (*mail.Msg, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if e.From != "" {
		from = e.From
	}

	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := m.To(e.To...); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	m.Subject(e.Subject)
	m.SetBodyString(mail.TypeTextPlain, e.Text)
	if e.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, e.HTML)
	}
	for _, a := range e.Attachments {
		err := m.AttachReader(a.Filename, bytes.NewReader(a.Content), mail.WithFileContentType(mail.ContentType(a.ContentType)))
		if err != nil {
			return nil, fmt.Errorf("attach %s: %w", a.Filename, err)
		}
	}
	return m, nil
}

// RawMessage renders e as RFC 5322 bytes.
func RawMessage(from string, e *Email) ([]byte, error) {
	m, err := BuildMessage(from, e)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write message: %w", err)
	}
	return buf.Bytes(), nil
}
