package mailer

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

var md = goldmark.New()

// RenderMarkdown converts a markdown body to its HTML alternative.
func RenderMarkdown(body string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("render email body: %w", err)
	}
	return buf.String(), nil
}
