package service

import (
	"context"

	"go.uber.org/zap"

	"letterapi/internal/apperr"
	"letterapi/internal/mailer"
	"letterapi/internal/model"
	"letterapi/internal/storage"
)

const (
	// EmailSubject is the fixed subject of delivery emails.
	EmailSubject = "המכתב המשפטי שלך מוכן"
	// EmailBody is the fixed markdown body of delivery emails.
	EmailBody = "מצורף המכתב המשפטי שלך."
)

// Dispatcher performs the optional email step. Returning the artifact over
// HTTP is the handler's job; the dispatcher never touches the response.
type Dispatcher struct {
	store    storage.Storage
	sender   mailer.Sender
	provider string
	log      *zap.Logger
}

// NewDispatcher creates a Dispatcher. A nil sender makes every requested
// delivery fail with a DeliveryError.
func NewDispatcher(store storage.Storage, sender mailer.Sender, provider string, log *zap.Logger) *Dispatcher {
	return &Dispatcher{store: store, sender: sender, provider: provider, log: log}
}

// Dispatch emails the artifact when delivery asks for it. The attachment is
// read back from the output area so the email carries exactly what was stored.
func (d *Dispatcher) Dispatch(ctx context.Context, art *model.Artifact, delivery model.Delivery) (*model.DeliveryOutcome, error) {
	if !delivery.Send {
		return &model.DeliveryOutcome{}, nil
	}
	out := &model.DeliveryOutcome{Recipient: delivery.Email}
	if d != nil {
		out.Provider = d.provider
	}

	fail := func(msg string, err error) (*model.DeliveryOutcome, error) {
		e := apperr.Delivery(msg, err)
		out.Error = e.Error()
		return out, e
	}

	if d == nil || d.sender == nil {
		return fail("mail is not configured", nil)
	}

	data, err := storage.ReadAll(ctx, d.store, art.StorageKey)
	if err != nil {
		return fail("read artifact "+art.StorageKey, err)
	}
	html, err := mailer.RenderMarkdown(EmailBody)
	if err != nil {
		return fail("render email body", err)
	}

	email := &mailer.Email{
		To:      []string{delivery.Email},
		Subject: EmailSubject,
		Text:    EmailBody,
		HTML:    html,
		Attachments: []mailer.Attachment{{
			Filename:    art.Filename,
			ContentType: art.ContentType,
			Content:     data,
		}},
	}
	if err := d.sender.Send(ctx, email); err != nil {
		return fail("failed to send email", err)
	}

	out.Sent = true
	d.log.Info("letter emailed",
		zap.String("filename", art.Filename),
		zap.String("provider", d.provider),
		zap.Int("bytes", len(data)),
	)
	return out, nil
}
