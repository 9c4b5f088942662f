// Package binder assembles the render context for a template from a request.
package binder

import (
	"strings"
	"time"

	"letterapi/internal/apperr"
	"letterapi/internal/model"
)

// DateLayout is the format of the server-computed submission date (dd/mm/yyyy).
const DateLayout = "02/01/2006"

// Field describes one template field.
type Field struct {
	// Key is the canonical payload key.
	Key string
	// Required fields must be present and non-empty.
	Required bool
	// Derived fields are computed on the server and never read from the payload.
	Derived bool
}

// Catalog lists the fields a letter template may declare, in the order they
// are checked. The first missing required field is the one reported.
var Catalog = []Field{
	{Key: "recipient_name", Required: true},
	{Key: "recipient_address"},
	{Key: "subject", Required: true},
	{Key: "date", Derived: true},
	{Key: "agreement_date", Required: true},
	{Key: "amount", Required: true},
	{Key: "due_date", Required: true},
	{Key: "sender_name", Required: true},
	{Key: "sender_role", Required: true},
	{Key: "sender_signature"},
}

// placeholderNames holds the authored placeholder names for templates whose
// field names are not the canonical keys.
var placeholderNames = map[string]map[string]string{
	"he": {
		"recipient_name":    "שם הנמען",
		"recipient_address": "כתובת",
		"subject":           "נושא",
		"date":              "תאריך",
		"agreement_date":    "תאריך_הסכם",
		"amount":            "סכום",
		"due_date":          "תאריך_סופי",
		"sender_name":       "שם השולח",
		"sender_role":       "תפקיד",
		"sender_signature":  "חתימה",
	},
}

// Placeholder returns the template placeholder name for key in language.
func Placeholder(language, key string) string {
	if names, ok := placeholderNames[language]; ok {
		if name, ok := names[key]; ok {
			return name
		}
	}
	return key
}

// Binder builds render contexts. The clock is injected so the submission date
// can be pinned in tests.
type Binder struct {
	now func() time.Time
}

// New creates a Binder. A nil now uses time.Now.
func New(now func() time.Time) *Binder {
	if now == nil {
		now = time.Now
	}
	return &Binder{now: now}
}

// Bind resolves every catalog field whose placeholder appears in declared and
// returns the complete context, or a MissingField error naming the first
// required field that is absent or empty. It never returns a partial context.
// When delivery is requested the recipient email is required as well.
func (b *Binder) Bind(req model.GenerationRequest, declared []string) (model.RenderContext, error) {
	want := make(map[string]bool, len(declared))
	for _, d := range declared {
		want[d] = true
	}

	ctx := make(model.RenderContext, len(declared))
	for _, f := range Catalog {
		name := Placeholder(req.Language, f.Key)
		if !want[name] {
			continue
		}

		if f.Derived {
			ctx[name] = b.now().Format(DateLayout)
			continue
		}

		v, ok := req.Field(f.Key)
		if ok {
			v = strings.TrimSpace(v)
		}
		if f.Required && v == "" {
			return nil, apperr.MissingField(f.Key)
		}
		ctx[name] = v
	}

	if req.Delivery.Send && req.Delivery.Email == "" {
		return nil, apperr.MissingField("email")
	}
	return ctx, nil
}
