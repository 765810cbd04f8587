package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/it-manager/internal/api/http"
	"github.com/spec-kit/it-manager/internal/api/http/handlers"
	"github.com/spec-kit/it-manager/internal/auth"
	"github.com/spec-kit/it-manager/internal/config"
	"github.com/spec-kit/it-manager/internal/events"
	"github.com/spec-kit/it-manager/internal/observability"
	"github.com/spec-kit/it-manager/internal/persistence"
	"github.com/spec-kit/it-manager/internal/repository"
	"github.com/spec-kit/it-manager/internal/repository/memory"
	"github.com/spec-kit/it-manager/internal/service"
	"github.com/spec-kit/it-manager/internal/worker"
)

type repositories struct {
	departments repository.DepartmentRepository
	users       repository.UserRepository
	licenses    repository.LicenseRepository
	printers    repository.PrinterRepository
	history     repository.InkStockHistoryRepository
}

func newRepositories(pool *pgxpool.Pool) repositories {
	if pool == nil {
		printers := memory.NewPrinterRepository()
		return repositories{
			departments: memory.NewDepartmentRepository(),
			users:       memory.NewUserRepository(),
			licenses:    memory.NewLicenseRepository(),
			printers:    printers,
			history:     printers,
		}
	}
	return repositories{
		departments: repository.NewDepartmentRepository(pool),
		users:       repository.NewUserRepository(pool),
		licenses:    repository.NewLicenseRepository(pool),
		printers:    repository.NewPrinterRepository(pool),
		history:     repository.NewInkStockHistoryRepository(pool),
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	node, err := snowflake.NewNode(cfg.IDs.SnowflakeNode)
	if err != nil {
		logger.Fatal("invalid snowflake node", zap.Int64("node", cfg.IDs.SnowflakeNode), zap.Error(err))
	}

	repos := newRepositories(pg.Pool)
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	sessionService := service.NewSessionService(repos.users, auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes))

	var printerCache service.PrinterCache
	readiness := map[string]handlers.Pinger{}
	if pg.Enabled() {
		readiness["postgres"] = pg
	}
	if redis != nil {
		printerCache = persistence.NewPrinterCache(redis.Client, cfg.Redis.PrinterCacheTTL())
		readiness["redis"] = redis
	}

	departmentService := service.NewDepartmentService(service.DepartmentDependencies{
		DepartmentRepo: repos.departments,
		UserRepo:       repos.users,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	userService := service.NewUserService(service.UserDependencies{
		UserRepo:       repos.users,
		DepartmentRepo: repos.departments,
		Dispatcher:     dispatcher,
		Logger:         logger,
		BcryptCost:     cfg.Auth.BcryptCost,
	})
	licenseService := service.NewLicenseService(service.LicenseDependencies{
		LicenseRepo:    repos.licenses,
		DepartmentRepo: repos.departments,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	printerService := service.NewPrinterService(service.PrinterDependencies{
		PrinterRepo: repos.printers,
		HistoryRepo: repos.history,
		Cache:       printerCache,
		IDNode:      node,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	app := httptransport.NewServer(httptransport.ServerDependencies{
		Name:           cfg.App.Name,
		Version:        cfg.App.Version,
		RequestTimeout: cfg.App.RequestTimeout(),
		AuthRequired:   cfg.Auth.Required,
		Logger:         logger,
		Metrics:        metrics,
		Departments:    departmentService,
		Users:          userService,
		Licenses:       licenseService,
		Printers:       printerService,
		Sessions:       sessionService,
		AuthMiddleware: auth.NewAuthMiddleware(sessionService.TokenManager(), repos.users),
		Readiness:      readiness,
	})

	watcher := worker.NewLicenseWatcher(licenseService, cfg.Worker.LicenseScanInterval(), cfg.Worker.LicenseExpiryWindow(), logger)
	workerDone := worker.StartNotificationWorker(ctx, notificationService, watcher)

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("fiber shutdown", zap.Error(err))
	}
	cancel()
	<-workerDone
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
