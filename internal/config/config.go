package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL database connection settings.
// An empty Host disables generation records.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// Enabled reports whether a database was configured.
func (c DatabaseConfig) Enabled() bool { return c.Host != "" }

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// LogConfig selects the zap level and encoding.
type LogConfig struct {
	Level  string
	Format string
}

// TemplateConfig locates the template store and the request defaults.
type TemplateConfig struct {
	Dir             string
	DefaultLanguage string
	DefaultDocType  string
}

// OutputConfig selects where intermediate and final artifacts are written.
type OutputConfig struct {
	Backend string // local | minio
	Dir     string
	Retain  bool
}

// ConverterConfig selects the DOCX to PDF engine.
type ConverterConfig struct {
	Backend      string // soffice | gotenberg
	SofficeBin   string
	GotenbergURL string
	Timeout      time.Duration
}

// MailConfig holds outbound mail credentials and transport settings.
// It is read once at startup and never per request.
type MailConfig struct {
	Provider     string // smtp | ses | resend
	SMTPHost     string
	SMTPPort     int
	Username     string
	Password     string
	From         string
	Timeout      time.Duration
	SESRegion    string
	ResendAPIKey string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost   string
	Port      string
	Log       LogConfig
	Database  DatabaseConfig
	MinIO     MinIOConfig
	Templates TemplateConfig
	Output    OutputConfig
	Converter ConverterConfig
	Mail      MailConfig
}

var defaults = map[string]any{
	"APP_HOST":                 "localhost:5000",
	"PORT":                     "5000",
	"LOG_LEVEL":                "info",
	"LOG_FORMAT":               "json",
	"DB_PORT":                  "5432",
	"DB_SSLMODE":               "disable",
	"DB_MAX_OPEN_CONNS":        10,
	"DB_MAX_IDLE_CONNS":        5,
	"DB_CONN_MAX_LIFETIME_SEC": 300,
	"MINIO_USE_SSL":            false,
	"TEMPLATES_DIR":            "templates",
	"DEFAULT_LANGUAGE":         "he",
	"DEFAULT_DOC_TYPE":         "legal_warning",
	"OUTPUT_BACKEND":           "local",
	"OUTPUT_DIR":               "output",
	"OUTPUT_RETAIN":            true,
	"CONVERTER_BACKEND":        "soffice",
	"SOFFICE_BIN":              "soffice",
	"CONVERTER_TIMEOUT":        "60s",
	"MAIL_PROVIDER":            "smtp",
	"SMTP_HOST":                "smtp.gmail.com",
	"SMTP_PORT":                587,
	"MAIL_TIMEOUT":             "30s",
	"SES_REGION":               "us-east-1",
}

// Load reads configuration from environment variables and, when CONFIG_FILE
// names one, a YAML file whose keys match the variable names.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence over the file.
func Load() (*AppConfig, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	cfg := &AppConfig{
		AppHost: v.GetString("APP_HOST"),
		Port:    v.GetString("PORT"),
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Database: DatabaseConfig{
			Host:               v.GetString("DB_HOST"),
			Port:               v.GetString("DB_PORT"),
			User:               v.GetString("DB_USER"),
			Password:           v.GetString("DB_PASSWORD"),
			Name:               v.GetString("DB_NAME"),
			SSLMode:            v.GetString("DB_SSLMODE"),
			MaxOpenConns:       v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:       v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetimeSec: v.GetInt("DB_CONN_MAX_LIFETIME_SEC"),
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
		},
		Templates: TemplateConfig{
			Dir:             v.GetString("TEMPLATES_DIR"),
			DefaultLanguage: v.GetString("DEFAULT_LANGUAGE"),
			DefaultDocType:  v.GetString("DEFAULT_DOC_TYPE"),
		},
		Output: OutputConfig{
			Backend: v.GetString("OUTPUT_BACKEND"),
			Dir:     v.GetString("OUTPUT_DIR"),
			Retain:  v.GetBool("OUTPUT_RETAIN"),
		},
		Converter: ConverterConfig{
			Backend:      v.GetString("CONVERTER_BACKEND"),
			SofficeBin:   v.GetString("SOFFICE_BIN"),
			GotenbergURL: v.GetString("GOTENBERG_URL"),
			Timeout:      v.GetDuration("CONVERTER_TIMEOUT"),
		},
		Mail: MailConfig{
			Provider:     v.GetString("MAIL_PROVIDER"),
			SMTPHost:     v.GetString("SMTP_HOST"),
			SMTPPort:     v.GetInt("SMTP_PORT"),
			Username:     v.GetString("EMAIL_USER"),
			Password:     v.GetString("EMAIL_PASS"),
			From:         v.GetString("MAIL_FROM"),
			Timeout:      v.GetDuration("MAIL_TIMEOUT"),
			SESRegion:    v.GetString("SES_REGION"),
			ResendAPIKey: v.GetString("RESEND_API_KEY"),
		},
	}
	if cfg.Mail.From == "" {
		cfg.Mail.From = cfg.Mail.Username
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks enum values and durations. Mail credentials are only
// checked for the providers that need them at send time, so a service
// without mail configured still starts and reports delivery errors per request.
func (c *AppConfig) Validate() error {
	switch c.Output.Backend {
	case "local":
		if c.Output.Dir == "" {
			return fmt.Errorf("OUTPUT_DIR is required for the local output backend")
		}
	case "minio":
	default:
		return fmt.Errorf("unsupported OUTPUT_BACKEND %q", c.Output.Backend)
	}

	switch c.Converter.Backend {
	case "soffice":
		if c.Converter.SofficeBin == "" {
			return fmt.Errorf("SOFFICE_BIN is required for the soffice converter")
		}
	case "gotenberg":
		if c.Converter.GotenbergURL == "" {
			return fmt.Errorf("GOTENBERG_URL is required for the gotenberg converter")
		}
	default:
		return fmt.Errorf("unsupported CONVERTER_BACKEND %q", c.Converter.Backend)
	}
	if c.Converter.Timeout <= 0 {
		return fmt.Errorf("CONVERTER_TIMEOUT must be positive")
	}

	switch c.Mail.Provider {
	case "smtp":
		if c.Mail.SMTPPort <= 0 || c.Mail.SMTPPort > 65535 {
			return fmt.Errorf("SMTP_PORT must be between 1 and 65535")
		}
	case "ses", "resend":
	default:
		return fmt.Errorf("unsupported MAIL_PROVIDER %q", c.Mail.Provider)
	}
	if c.Mail.Timeout <= 0 {
		return fmt.Errorf("MAIL_TIMEOUT must be positive")
	}
	return nil
}
