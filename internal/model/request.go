package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OutputFormat selects the artifact format returned to the caller.
type OutputFormat string

const (
	// FormatDOCX is the native word-processing format produced by rendering.
	FormatDOCX OutputFormat = "docx"
	// FormatPDF is the fixed-layout format produced by the converter.
	FormatPDF OutputFormat = "pdf"
)

const (
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEPDF  = "application/pdf"
)

// ContentType returns the MIME type of the format.
func (f OutputFormat) ContentType() string {
	if f == FormatPDF {
		return MIMEPDF
	}
	return MIMEDOCX
}

// Ext returns the file extension including the leading dot.
func (f OutputFormat) Ext() string {
	if f == FormatPDF {
		return ".pdf"
	}
	return ".docx"
}

// Converted reports whether the format requires the conversion stage.
func (f OutputFormat) Converted() bool { return f == FormatPDF }

// ParseOutputFormat parses a client-supplied format; empty selects DOCX.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatDOCX:
		return FormatDOCX, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported output format %q", s)
	}
}

// Delivery describes the optional email step.
type Delivery struct {
	Send  bool   `json:"send_email"`
	Email string `json:"email,omitempty"`
}

// RequestDefaults holds the values applied when the payload omits a selector.
type RequestDefaults struct {
	Language     string
	DocumentType string
}

// GenerationRequest is the immutable value built from an incoming payload.
// Fields keeps every payload entry so the binder can look fields up by their
// canonical key.
type GenerationRequest struct {
	ID           string
	Language     string
	DocumentType string
	OutputFormat OutputFormat
	Fields       map[string]any
	Delivery     Delivery
}

// NewGenerationRequest builds a request from a decoded JSON object.
// Selector keys fall back to defs when absent or empty.
func NewGenerationRequest(id string, payload map[string]any, defs RequestDefaults) (GenerationRequest, error) {
	req := GenerationRequest{
		ID:           id,
		Language:     stringOr(payload["language"], defs.Language),
		DocumentType: stringOr(payload["doc_type"], defs.DocumentType),
		Fields:       make(map[string]any, len(payload)),
	}

	format, err := ParseOutputFormat(stringOr(payload["output_format"], ""))
	if err != nil {
		return GenerationRequest{}, err
	}
	req.OutputFormat = format

	for k, v := range payload {
		req.Fields[k] = v
	}

	if v, ok := payload["send_email"].(bool); ok {
		req.Delivery.Send = v
	}
	if v, ok := payload["email"].(string); ok {
		req.Delivery.Email = strings.TrimSpace(v)
	}
	return req, nil
}

// Field returns the payload value stored under key as a string.
// Absent and null values report ok == false.
func (r GenerationRequest) Field(key string) (string, bool) {
	v, ok := r.Fields[key]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		if t {
			return "true", true
		}
		return "false", true
	default:
		return fmt.Sprint(t), true
	}
}

func stringOr(v any, def string) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	return def
}
