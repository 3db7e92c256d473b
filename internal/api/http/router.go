package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/inspection-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Reports *handlers.ReportsHandler
	Users   *handlers.UsersHandler
	Uploads *handlers.UploadsHandler
	Seed    *handlers.SeedHandler
}

// RegisterRoutes wires HTTP routes. /reports/* and /defects/* are aliases of
// the same report operations for the web console and the mobile app.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	users := api.Group("/users")
	users.Get("/", cfg.Users.List)
	users.Get("/maintenance", cfg.Users.ListMaintenance)
	users.Post("/", cfg.Users.Create)
	users.Put("/:id/status", cfg.Users.UpdateStatus)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)

	reports := api.Group("/reports")
	reports.Get("/", cfg.Reports.List)
	// Static stats routes must precede the :id parameter route.
	reports.Get("/stats/pie", cfg.Reports.PieStats)
	reports.Get("/stats", cfg.Reports.Stats)
	reports.Get("/:id", cfg.Reports.Get)
	reports.Post("/", cfg.Reports.Create)
	reports.Put("/:id", cfg.Reports.Update)
	reports.Delete("/:id", cfg.Reports.Delete)

	defects := api.Group("/defects")
	defects.Get("/", cfg.Reports.List)
	defects.Get("/:id", cfg.Reports.Get)
	defects.Post("/", cfg.Reports.Create)
	defects.Put("/:id/status", cfg.Reports.UpdateStatus)
	defects.Post("/:id/comments", cfg.Reports.AddComment)
	defects.Delete("/:id", cfg.Reports.Delete)

	api.Post("/upload", cfg.Uploads.Upload)
	api.Post("/upload/base64", cfg.Uploads.UploadBase64)

	api.Post("/seed", cfg.Seed.Seed)
}
