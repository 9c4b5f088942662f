package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"letterapi/docs"
	"letterapi/internal/binder"
	"letterapi/internal/config"
	"letterapi/internal/converter"
	"letterapi/internal/database"
	handlers "letterapi/internal/http/handler"
	"letterapi/internal/http/middleware"
	"letterapi/internal/logger"
	"letterapi/internal/mailer"
	"letterapi/internal/mailer/resend"
	"letterapi/internal/mailer/ses"
	"letterapi/internal/mailer/smtp"
	"letterapi/internal/model"
	tracing "letterapi/internal/otel"
	"letterapi/internal/repository"
	"letterapi/internal/repository/postgres"
	"letterapi/internal/service"
	"letterapi/internal/storage"
	"letterapi/internal/template"
)

const shutdownTimeout = 15 * time.Second

// @title Letter API
// @version 1.0
// @description Generates legal letters from language-tagged DOCX templates.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	lg, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer lg.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, lg)
	if err != nil {
		lg.Fatal("failed to initialize tracing", zap.Error(err))
	}

	// Generation records are optional; without DB_HOST the service runs stateless
	db, err := database.Connect(ctx, cfg.Database, lg)
	if err != nil {
		lg.Fatal("failed to connect to database", zap.Error(err))
	}
	var repo repository.GenerationRepository
	if db != nil {
		defer db.Close()
		repo = postgres.NewGenerationPostgres(db)
	}

	store, err := storage.New(cfg)
	if err != nil {
		lg.Fatal("failed to initialize output storage", zap.Error(err))
	}

	conv, err := converter.New(cfg.Converter)
	if err != nil {
		lg.Fatal("failed to initialize converter", zap.Error(err))
	}

	sender, err := newSender(ctx, cfg.Mail)
	if err != nil {
		lg.Fatal("failed to initialize mail sender", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := service.NewMetrics(reg)
	if err != nil {
		lg.Fatal("failed to register metrics", zap.Error(err))
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		lg.Fatal("failed to register http metrics", zap.Error(err))
	}

	templates := os.DirFS(cfg.Templates.Dir)
	svc := service.NewGenerationService(service.Deps{
		Resolver:   template.NewResolver(templates),
		Renderer:   template.NewRenderer(templates),
		Binder:     binder.New(nil),
		Converter:  conv,
		Dispatcher: service.NewDispatcher(store, sender, cfg.Mail.Provider, lg),
		Store:      store,
		Repo:       repo,
		Metrics:    metrics,
		Log:        lg,
		Retain:     cfg.Output.Retain,
	})

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(lg))
	app.Use(httpMetrics.Handler())

	handlers.RegisterRoutes(app, db, svc, model.RequestDefaults{
		Language:     cfg.Templates.DefaultLanguage,
		DocumentType: cfg.Templates.DefaultDocType,
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port
	errc := make(chan error, 1)
	go func() {
		lg.Info("server_started", zap.String("addr", addr))
		errc <- app.Listen(addr)
	}()

	select {
	case err := <-errc:
		if err != nil {
			lg.Fatal("failed to start server", zap.Error(err))
		}
	case <-ctx.Done():
	}

	lg.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		lg.Error("server shutdown failed", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("tracing shutdown failed", zap.Error(err))
	}
}

// newSender builds the outbound mail transport once at startup.
func newSender(ctx context.Context, c config.MailConfig) (mailer.Sender, error) {
	switch c.Provider {
	case "ses":
		return ses.NewFromRegion(ctx, c.SESRegion, c.From)
	case "resend":
		return resend.New(c.ResendAPIKey, c.From), nil
	default:
		return smtp.New(smtp.Config{
			Host:     c.SMTPHost,
			Port:     c.SMTPPort,
			Username: c.Username,
			Password: c.Password,
			From:     c.From,
			Timeout:  c.Timeout,
		}), nil
	}
}
