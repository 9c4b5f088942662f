package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("EMAIL_USER", "letters@example.com")
	t.Setenv("EMAIL_PASS", "secret")
	t.Setenv("MAIL_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "letters@example.com", cfg.Mail.Username)
	assert.Equal(t, "letters@example.com", cfg.Mail.From)
	assert.Equal(t, "secret", cfg.Mail.Password)
	assert.Equal(t, 5*time.Second, cfg.Mail.Timeout)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "he", cfg.Templates.DefaultLanguage)
	assert.Equal(t, "legal_warning", cfg.Templates.DefaultDocType)
	assert.Equal(t, "templates", cfg.Templates.Dir)
	assert.Equal(t, "local", cfg.Output.Backend)
	assert.Equal(t, "output", cfg.Output.Dir)
	assert.True(t, cfg.Output.Retain)
	assert.Equal(t, "smtp", cfg.Mail.Provider)
	assert.Equal(t, "smtp.gmail.com", cfg.Mail.SMTPHost)
	assert.Equal(t, 587, cfg.Mail.SMTPPort)
	assert.Equal(t, 60*time.Second, cfg.Converter.Timeout)
	assert.False(t, cfg.Database.Enabled())
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"7000\"\nconverter_backend: gotenberg\ngotenberg_url: http://gotenberg:3000\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7100")

	cfg, err := Load()
	require.NoError(t, err)

	// environment wins over the file
	assert.Equal(t, "7100", cfg.Port)
	assert.Equal(t, "gotenberg", cfg.Converter.Backend)
	assert.Equal(t, "http://gotenberg:3000", cfg.Converter.GotenbergURL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "output backend", key: "OUTPUT_BACKEND", val: "ftp"},
		{name: "converter backend", key: "CONVERTER_BACKEND", val: "word"},
		{name: "gotenberg without url", key: "CONVERTER_BACKEND", val: "gotenberg"},
		{name: "mail provider", key: "MAIL_PROVIDER", val: "pigeon"},
		{name: "smtp port", key: "SMTP_PORT", val: "70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}
