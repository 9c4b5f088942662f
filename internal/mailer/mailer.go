// Package mailer defines the outbound email contract and the provider-neutral
// message types. Providers live in subpackages.
package mailer

import (
	"context"
	"errors"
)

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("email must have at least one recipient")
	// ErrNoSubject indicates no subject was provided.
	ErrNoSubject = errors.New("email must have a subject")
	// ErrNotConfigured indicates the provider credentials are missing.
	ErrNotConfigured = errors.New("mail provider is not configured")
)

// Sender delivers a fully prepared Email.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

// Email is a message ready for sending.
type Email struct {
	From        string // overrides the provider default
	To          []string
	Subject     string
	Text        string
	HTML        string // optional alternative to Text
	Attachments []Attachment
}

// Attachment is a file attached to an Email.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Validate checks the fields every provider needs.
func (e *Email) Validate() error {
	if len(e.To) == 0 || e.To[0] == "" {
		return ErrNoRecipient
	}
	if e.Subject == "" {
		return ErrNoSubject
	}
	return nil
}
