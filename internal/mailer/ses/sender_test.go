package ses

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"letterapi/internal/mailer"
)

type fakeSES struct {
	input *ses.SendRawEmailInput
	err   error
}

func (f *fakeSES) SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendRawEmailOutput{}, nil
}

func testEmail() *mailer.Email {
	return &mailer.Email{
		To:      []string{"client@example.com"},
		Subject: "Your letter is ready",
		Text:    "Attached.",
		Attachments: []mailer.Attachment{{
			Filename:    "letter.pdf",
			ContentType: "application/pdf",
			Content:     []byte("%PDF"),
		}},
	}
}

func TestSender_Send(t *testing.T) {
	api := &fakeSES{}
	err := New(api, "office@example.com").Send(context.Background(), testEmail())
	require.NoError(t, err)

	require.NotNil(t, api.input)
	assert.Equal(t, "office@example.com", *api.input.Source)
	assert.Equal(t, []string{"client@example.com"}, api.input.Destinations)
	raw := string(api.input.RawMessage.Data)
	assert.Contains(t, raw, "Subject: Your letter is ready")
	assert.Contains(t, raw, "letter.pdf")
}

func TestSender_Errors(t *testing.T) {
	api := &fakeSES{err: errors.New("MessageRejected: Email address is not verified")}
	err := New(api, "office@example.com").Send(context.Background(), testEmail())
	assert.ErrorContains(t, err, "not verified")

	err = New(&fakeSES{}, "").Send(context.Background(), testEmail())
	assert.ErrorIs(t, err, mailer.ErrNotConfigured)
}
