package binder

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"letterapi/internal/apperr"
	"letterapi/internal/model"
)

var fixedNow = func() time.Time { return time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC) }

var hePlaceholders = []string{
	"שם הנמען", "כתובת", "נושא", "תאריך", "תאריך_הסכם", "סכום", "תאריך_סופי", "שם השולח", "תפקיד", "חתימה",
}

func validFields() map[string]any {
	return map[string]any{
		"recipient_name": "ישראל ישראלי",
		"subject":        "דרישת תשלום",
		"agreement_date": "01/01/2026",
		"amount":         json.Number("15000"),
		"due_date":       "01/11/2026",
		"sender_name":    "משה כהן",
		"sender_role":    "עורך דין",
	}
}

func request(lang string, fields map[string]any) model.GenerationRequest {
	return model.GenerationRequest{Language: lang, DocumentType: "legal_warning", OutputFormat: model.FormatDOCX, Fields: fields}
}

func TestBinder_Bind(t *testing.T) {
	b := New(fixedNow)

	ctx, err := b.Bind(request("he", validFields()), hePlaceholders)
	require.NoError(t, err)

	assert.Len(t, ctx, len(hePlaceholders))
	for _, p := range hePlaceholders {
		assert.Contains(t, ctx, p)
	}
	assert.Equal(t, "ישראל ישראלי", ctx["שם הנמען"])
	assert.Equal(t, "15000", ctx["סכום"])
	assert.Equal(t, "18/10/2026", ctx["תאריך"])
	assert.Equal(t, "", ctx["חתימה"])
	assert.Equal(t, "", ctx["כתובת"])
}

func TestBinder_BindOnlyDeclared(t *testing.T) {
	b := New(fixedNow)

	fields := map[string]any{"recipient_name": "Alice", "subject": "Debt"}
	ctx, err := b.Bind(request("en", fields), []string{"recipient_name", "subject", "date"})
	require.NoError(t, err)

	assert.Equal(t, model.RenderContext{
		"recipient_name": "Alice",
		"subject":        "Debt",
		"date":           "18/10/2026",
	}, ctx)
}

func TestBinder_ServerDateWins(t *testing.T) {
	b := New(fixedNow)

	fields := validFields()
	fields["date"] = "01/01/1999"
	ctx, err := b.Bind(request("he", fields), hePlaceholders)
	require.NoError(t, err)

	assert.Equal(t, "18/10/2026", ctx["תאריך"])
}

func TestBinder_BusinessDatesPassThrough(t *testing.T) {
	b := New(fixedNow)

	fields := validFields()
	fields["agreement_date"] = "1st of January"
	ctx, err := b.Bind(request("he", fields), hePlaceholders)
	require.NoError(t, err)

	assert.Equal(t, "1st of January", ctx["תאריך_הסכם"])
}

func TestBinder_MissingField(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f map[string]any)
		wantKey string
	}{
		{name: "absent", mutate: func(f map[string]any) { delete(f, "subject") }, wantKey: "subject"},
		{name: "empty", mutate: func(f map[string]any) { f["due_date"] = "  " }, wantKey: "due_date"},
		{name: "null", mutate: func(f map[string]any) { f["amount"] = nil }, wantKey: "amount"},
		{
			name: "first in catalog order wins",
			mutate: func(f map[string]any) {
				delete(f, "sender_role")
				delete(f, "recipient_name")
			},
			wantKey: "recipient_name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validFields()
			tt.mutate(fields)

			ctx, err := New(fixedNow).Bind(request("he", fields), hePlaceholders)
			assert.Nil(t, ctx)
			require.ErrorIs(t, err, apperr.ErrMissingField)

			var e *apperr.Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, tt.wantKey, e.Field)
		})
	}
}

func TestBinder_UndeclaredRequiredFieldIgnored(t *testing.T) {
	fields := validFields()
	delete(fields, "sender_role")

	declared := []string{"שם הנמען", "נושא"}
	ctx, err := New(fixedNow).Bind(request("he", fields), declared)
	require.NoError(t, err)
	assert.Len(t, ctx, 2)
}

func TestBinder_DeliveryRequiresEmail(t *testing.T) {
	req := request("he", validFields())
	req.Delivery = model.Delivery{Send: true}

	_, err := New(fixedNow).Bind(req, hePlaceholders)

	var e *apperr.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, apperr.KindMissingField, e.Kind)
	assert.Equal(t, "email", e.Field)

	req.Delivery.Email = "client@example.com"
	_, err = New(fixedNow).Bind(req, hePlaceholders)
	assert.NoError(t, err)
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "שם הנמען", Placeholder("he", "recipient_name"))
	assert.Equal(t, "recipient_name", Placeholder("en", "recipient_name"))
	assert.Equal(t, "unknown", Placeholder("he", "unknown"))
}
