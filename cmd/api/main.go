package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/dulieucongty68/pmql-be/internal/api/http"
	"github.com/dulieucongty68/pmql-be/internal/api/http/handlers"
	"github.com/dulieucongty68/pmql-be/internal/auth"
	"github.com/dulieucongty68/pmql-be/internal/config"
	"github.com/dulieucongty68/pmql-be/internal/events"
	"github.com/dulieucongty68/pmql-be/internal/observability"
	"github.com/dulieucongty68/pmql-be/internal/persistence"
	"github.com/dulieucongty68/pmql-be/internal/repository"
	"github.com/dulieucongty68/pmql-be/internal/service"
	"github.com/dulieucongty68/pmql-be/internal/worker"
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	teamRepo := repository.NewTeamRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	notifications := service.NewNotificationService(logger, cfg.Notification.WebhookURL)
	notifications.Register(dispatcher)

	authService := service.NewAuthService(*cfg, userRepo)
	customerService := service.NewCustomerService(service.CustomerDependencies{
		CustomerRepo: customerRepo,
		Dispatcher:   dispatcher,
	})
	employeeService := service.NewEmployeeService(*cfg, service.EmployeeDependencies{
		UserRepo:   userRepo,
		TeamRepo:   teamRepo,
		Dispatcher: dispatcher,
	})
	teamService := service.NewTeamService(teamRepo)
	statsService := service.NewStatsService(statsRepo, redis, cfg.Stats.CacheTTL(), logger)

	warmer := worker.NewStatsWarmer(statsService, cfg.Stats.WarmSchedule, logger)
	if err := warmer.Start(); err != nil {
		logger.Fatal("failed to start stats warmer", zap.Error(err))
	}
	defer warmer.Stop()

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Customers:      handlers.NewCustomersHandler(customerService),
		Employees:      handlers.NewEmployeesHandler(employeeService),
		Teams:          handlers.NewTeamsHandler(teamService),
		Stats:          handlers.NewStatsHandler(statsService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
