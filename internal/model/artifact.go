package model

import "time"

// RenderContext maps template placeholder names to their resolved values.
type RenderContext map[string]string

// Artifact is the generated document owned by a single request.
type Artifact struct {
	Filename    string       `json:"filename"`
	ContentType string       `json:"content_type"`
	StorageKey  string       `json:"storage_key"`
	Format      OutputFormat `json:"format"`
	Data        []byte       `json:"-"`
}

// DeliveryOutcome is the result of the email step.
type DeliveryOutcome struct {
	Sent      bool   `json:"sent"`
	Recipient string `json:"recipient"`
	Provider  string `json:"provider"`
	Error     string `json:"error,omitempty"`
}

// GenerationStatus is the terminal state recorded for a request.
type GenerationStatus string

const (
	StatusSucceeded GenerationStatus = "succeeded"
	StatusFailed    GenerationStatus = "failed"
)

// GenerationRecord is the audit row written for every generation attempt.
// It never contains document contents.
type GenerationRecord struct {
	ID             string           `json:"id"`
	Language       string           `json:"language"`
	DocumentType   string           `json:"doc_type"`
	OutputFormat   OutputFormat     `json:"output_format"`
	Filename       string           `json:"filename"`
	StorageKey     string           `json:"storage_key"`
	Status         GenerationStatus `json:"status"`
	ErrorKind      string           `json:"error_kind,omitempty"`
	EmailRequested bool             `json:"email_requested"`
	EmailSent      bool             `json:"email_sent"`
	CreatedAt      time.Time        `json:"created_at"`
}
