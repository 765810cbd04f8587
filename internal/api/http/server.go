package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/it-manager/internal/api/http/handlers"
	"github.com/spec-kit/it-manager/internal/auth"
	"github.com/spec-kit/it-manager/internal/observability"
	"github.com/spec-kit/it-manager/internal/service"
)

// ServerDependencies is everything the HTTP layer needs to serve requests.
type ServerDependencies struct {
	Name           string
	Version        string
	RequestTimeout time.Duration
	AuthRequired   bool

	Logger  *zap.Logger
	Metrics *observability.Metrics

	Departments *service.DepartmentService
	Users       *service.UserService
	Licenses    *service.LicenseService
	Printers    *service.PrinterService
	Sessions    *service.SessionService

	AuthMiddleware *auth.AuthMiddleware
	Readiness      map[string]handlers.Pinger
}

// NewServer builds the fiber app with middlewares and routes registered.
func NewServer(deps ServerDependencies) *fiber.App {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               deps.Name,
		Immutable:             true,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, logger, deps.Metrics, deps.RequestTimeout)

	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(deps.Name, deps.Version, deps.Readiness, deps.Metrics),
		Departments:    handlers.NewDepartmentsHandler(deps.Departments),
		Users:          handlers.NewUsersHandler(deps.Users),
		Licenses:       handlers.NewLicensesHandler(deps.Licenses),
		Printers:       handlers.NewPrintersHandler(deps.Printers),
		Sessions:       handlers.NewSessionsHandler(deps.Sessions),
		AuthMiddleware: deps.AuthMiddleware,
		AuthRequired:   deps.AuthRequired,
	})
	return app
}
