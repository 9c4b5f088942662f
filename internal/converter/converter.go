// Package converter turns rendered DOCX documents into PDF.
package converter

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"letterapi/internal/config"
)

// Converter converts a DOCX document to PDF. name is the artifact base name
// without extension; implementations use it for intermediate files.
type Converter interface {
	Convert(ctx context.Context, name string, docx []byte) ([]byte, error)
}

// New builds the converter selected by cfg.Backend.
func New(cfg config.ConverterConfig) (Converter, error) {
	switch cfg.Backend {
	case "soffice":
		return NewSoffice(cfg.SofficeBin, cfg.Timeout), nil
	case "gotenberg":
		client := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
		return NewGotenberg(cfg.GotenbergURL, client, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported converter backend %q", cfg.Backend)
	}
}
