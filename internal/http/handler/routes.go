package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"letterapi/internal/model"
	"letterapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// db may be nil when generation records are disabled.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.GenerationService, defs model.RequestDefaults) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/generate", GenerateLetter(svc, defs))
	app.Get("/generations", ListGenerations(svc))
	app.Get("/generations/:id", GetGeneration(svc))
}
