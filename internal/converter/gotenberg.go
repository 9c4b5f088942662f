package converter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"letterapi/internal/apperr"
)

const gotenbergRoute = "/forms/libreoffice/convert"

// Gotenberg converts through a Gotenberg server's LibreOffice route.
type Gotenberg struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// NewGotenberg creates a converter posting to baseURL. A nil client uses
// http.DefaultClient.
func NewGotenberg(baseURL string, client *http.Client, timeout time.Duration) *Gotenberg {
	if client == nil {
		client = http.DefaultClient
	}
	return &Gotenberg{baseURL: strings.TrimRight(baseURL, "/"), client: client, timeout: timeout}
}

func (g *Gotenberg) Convert(ctx context.Context, name string, docx []byte) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("files", name+".docx")
	if err != nil {
		return nil, apperr.Conversion("build request", err)
	}
	if _, err := fw.Write(docx); err != nil {
		return nil, apperr.Conversion("build request", err)
	}
	if err := mw.Close(); err != nil {
		return nil, apperr.Conversion("build request", err)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+gotenbergRoute, &body)
	if err != nil {
		return nil, apperr.Conversion("build request", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Gotenberg-Output-Filename", name)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, apperr.Conversion("converter request failed", err)
	}
	defer resp.Body.Close()

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Conversion("read converter response", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(pdf))
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return nil, apperr.Conversion(fmt.Sprintf("converter returned %d: %s", resp.StatusCode, msg), nil)
	}
	if len(pdf) == 0 {
		return nil, apperr.Conversion("converter produced an empty file", nil)
	}
	return pdf, nil
}
