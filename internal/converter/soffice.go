package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"letterapi/internal/apperr"
)

// Soffice runs headless LibreOffice once per call. Each call works in its own
// temp dir, so concurrent conversions never see each other's files.
type Soffice struct {
	bin     string
	timeout time.Duration
}

// NewSoffice creates a converter that invokes bin.
func NewSoffice(bin string, timeout time.Duration) *Soffice {
	return &Soffice{bin: bin, timeout: timeout}
}

func (s *Soffice) Convert(ctx context.Context, name string, docx []byte) ([]byte, error) {
	dir, err := os.MkdirTemp("", "letterapi-convert-*")
	if err != nil {
		return nil, apperr.Conversion("create work dir", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, name+".docx")
	if err := os.WriteFile(in, docx, 0o600); err != nil {
		return nil, apperr.Conversion("write input", err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	// A private profile keeps parallel soffice processes from fighting over
	// the user installation lock.
	profile := "-env:UserInstallation=file://" + filepath.ToSlash(filepath.Join(dir, "profile"))
	cmd := exec.CommandContext(ctx, s.bin, profile, "--headless", "--convert-to", "pdf", "--outdir", dir, in)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = 5 * time.Second

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperr.Conversion(fmt.Sprintf("converter timed out after %s", s.timeout), ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "converter failed"
		}
		return nil, apperr.Conversion(msg, err)
	}

	pdf, err := os.ReadFile(filepath.Join(dir, name+".pdf"))
	if err != nil {
		return nil, apperr.Conversion("converter produced no output", err)
	}
	if len(pdf) == 0 {
		return nil, apperr.Conversion("converter produced an empty file", nil)
	}
	return pdf, nil
}
