package handler

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"letterapi/internal/apperr"
)

// requestSchema describes the shape of a generation request. Field presence
// is the binder's job; the schema only rejects values of the wrong type.
const requestSchema = `{
  "type": "object",
  "properties": {
    "language":          {"type": "string"},
    "doc_type":          {"type": "string"},
    "output_format":     {"type": "string", "enum": ["", "docx", "pdf"]},
    "send_email":        {"type": "boolean"},
    "email":             {"type": "string", "anyOf": [{"maxLength": 0}, {"format": "email"}]},
    "recipient_name":    {"type": ["string", "number", "null"]},
    "recipient_address": {"type": ["string", "number", "null"]},
    "subject":           {"type": ["string", "number", "null"]},
    "agreement_date":    {"type": ["string", "number", "null"]},
    "amount":            {"type": ["string", "number", "null"]},
    "due_date":          {"type": ["string", "number", "null"]},
    "sender_name":       {"type": ["string", "number", "null"]},
    "sender_role":       {"type": ["string", "number", "null"]},
    "sender_signature":  {"type": ["string", "number", "null"]}
  }
}`

var compiledSchema = mustSchema(requestSchema)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("compile request schema: %v", err))
	}
	return schema
}

// validateRequest checks body against the request schema.
func validateRequest(body []byte) error {
	result, err := compiledSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return apperr.InvalidRequest("request body must be a JSON object", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return apperr.InvalidRequest("invalid request: "+strings.Join(errs, "; "), nil)
	}
	return nil
}
