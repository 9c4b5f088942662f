package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "missing field", err: MissingField("subject"), want: KindMissingField},
		{name: "wrapped conversion", err: fmt.Errorf("stage: %w", Conversion("soffice failed", errors.New("exit 1"))), want: KindConversion},
		{name: "plain error", err: errors.New("boom"), want: ""},
		{name: "nil", err: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("bind: %w", MissingField("amount"))

	assert.ErrorIs(t, err, ErrMissingField)
	assert.NotErrorIs(t, err, ErrTemplateNotFound)

	var e *Error
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, "amount", e.Field)
	assert.Equal(t, "missing required field: amount", e.Error())
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("535 authentication failed")
	err := Delivery("send email", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "send email: 535 authentication failed", err.Error())
}
