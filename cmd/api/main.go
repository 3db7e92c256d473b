package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/inspection-service/internal/api/http"
	"github.com/spec-kit/inspection-service/internal/api/http/handlers"
	"github.com/spec-kit/inspection-service/internal/config"
	"github.com/spec-kit/inspection-service/internal/media"
	"github.com/spec-kit/inspection-service/internal/observability"
	"github.com/spec-kit/inspection-service/internal/persistence"
	"github.com/spec-kit/inspection-service/internal/repository"
	"github.com/spec-kit/inspection-service/internal/service"
	"github.com/spec-kit/inspection-service/internal/worker"
)

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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	mediaClient := media.NewClient(cfg.Media)

	pool := pg.PoolHandle()
	reportRepo := repository.NewReportRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	cleanupQueue := worker.NewCleanupQueue(redis.Client, cfg.Media.CleanupQueue)
	cleanupWorker := worker.NewCleanupWorker(cleanupQueue, mediaClient, logger)
	cleanupWorker.Start(ctx)

	reportService := service.NewReportService(service.ReportDependencies{
		ReportRepo: reportRepo,
		MediaHost:  mediaClient,
		Cleanup:    cleanupQueue,
		Logger:     logger,
		Folder:     cfg.Media.Folder,
	})
	userService := service.NewUserService(service.UserDependencies{
		UserRepo:   userRepo,
		BcryptCost: cfg.Security.BcryptCost,
	})
	mediaService := service.NewMediaService(mediaClient, cfg.Media)
	seedService := service.NewSeedService(reportRepo, userRepo, cfg.Security.BcryptCost, logger)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.App.BodyLimit(),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Reports: handlers.NewReportsHandler(reportService),
		Users:   handlers.NewUsersHandler(userService),
		Uploads: handlers.NewUploadsHandler(mediaService),
		Seed:    handlers.NewSeedHandler(seedService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	cancel()
	cleanupWorker.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
