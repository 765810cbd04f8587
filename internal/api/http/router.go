package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/it-manager/internal/api/http/handlers"
	"github.com/spec-kit/it-manager/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Departments    *handlers.DepartmentsHandler
	Users          *handlers.UsersHandler
	Licenses       *handlers.LicensesHandler
	Printers       *handlers.PrintersHandler
	Sessions       *handlers.SessionsHandler
	AuthMiddleware *auth.AuthMiddleware
	// AuthRequired puts every mutating route behind a bearer token.
	AuthRequired bool
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	app.Post("/sessions", cfg.Sessions.Create)

	app.Get("/departments", cfg.Departments.List)
	app.Get("/departments/:id", cfg.Departments.Get)
	app.Get("/users", cfg.Users.List)
	app.Get("/users/:id", cfg.Users.Get)
	app.Get("/licenses", cfg.Licenses.List)
	app.Get("/licenses/:id", cfg.Licenses.Get)
	app.Get("/printers", cfg.Printers.List)
	app.Get("/printers/:id", cfg.Printers.Get)
	app.Get("/ink-stock-history", cfg.Printers.History)

	protect := func(h fiber.Handler) []fiber.Handler {
		if cfg.AuthRequired && cfg.AuthMiddleware != nil {
			return []fiber.Handler{cfg.AuthMiddleware.Handle, h}
		}
		return []fiber.Handler{h}
	}

	app.Post("/departments", protect(cfg.Departments.Create)...)
	app.Put("/departments/:id", protect(cfg.Departments.Edit)...)
	app.Delete("/departments/:id", protect(cfg.Departments.Delete)...)

	app.Post("/users", protect(cfg.Users.Register)...)
	app.Patch("/users/:userId/edit-department", protect(cfg.Users.EditDepartment)...)
	app.Delete("/users/:id", protect(cfg.Users.Delete)...)

	app.Post("/licenses", protect(cfg.Licenses.Create)...)
	app.Patch("/licenses/:licenseId/expire-date", protect(cfg.Licenses.EditExpireDate)...)
	app.Delete("/licenses/:id", protect(cfg.Licenses.Delete)...)

	app.Post("/printers", protect(cfg.Printers.Create)...)
	app.Put("/printers/:id", protect(cfg.Printers.Update)...)
}
