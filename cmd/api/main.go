package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/worker"
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
	itemRepo := repository.NewWorkItemRepository(pool)
	eventRepo := repository.NewWorkEventRepository(pool)
	discussionRepo := repository.NewDiscussionRepository(pool)
	breachRepo := repository.NewBreachRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	sessionStore := auth.NewRedisSessionStore(redis.Client)

	viewService := service.NewViewService(itemRepo, eventRepo)
	authService := service.NewAuthService(cfg.Auth, userRepo, sessionStore)
	workItemService := service.NewWorkItemService(cfg.SLA, service.WorkItemDependencies{
		UserRepo:     userRepo,
		WorkItemRepo: itemRepo,
		EventRepo:    eventRepo,
		Views:        viewService,
		Dispatcher:   dispatcher,
	})
	notificationService := service.NewNotificationService(cfg.SLA, service.NotificationDependencies{
		UserRepo:   userRepo,
		EventRepo:  eventRepo,
		Views:      viewService,
		BreachRepo: breachRepo,
	})
	discussionService := service.NewDiscussionService(userRepo, discussionRepo, dispatcher)

	notifier := service.NewLifecycleNotifier(dispatcher, logger, cfg.Notify)
	worker.StartNotificationWorker(notifier)

	sessionMiddleware := auth.NewSessionMiddleware(authService.TokenManager(), userRepo, sessionStore, cfg.Auth.CookieName)

	app := fiber.New()
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(pg, redis),
		Auth:          handlers.NewAuthHandler(authService, cfg.Auth),
		Tickets:       handlers.NewWorkItemsHandler(workItemService, domain.KindTicket),
		Assets:        handlers.NewWorkItemsHandler(workItemService, domain.KindAsset),
		Discussions:   handlers.NewDiscussionHandler(discussionService),
		Notifications: handlers.NewNotificationsHandler(notificationService),
		Session:       sessionMiddleware,
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
