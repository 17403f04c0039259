package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/member-center/internal/api/http"
	"github.com/spec-kit/member-center/internal/api/http/handlers"
	"github.com/spec-kit/member-center/internal/auth"
	"github.com/spec-kit/member-center/internal/config"
	"github.com/spec-kit/member-center/internal/events"
	"github.com/spec-kit/member-center/internal/observability"
	"github.com/spec-kit/member-center/internal/persistence"
	"github.com/spec-kit/member-center/internal/repository"
	"github.com/spec-kit/member-center/internal/service"
	"github.com/spec-kit/member-center/internal/worker"
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
	if cfg.Postgres.SeedDemoData {
		if err := persistence.SeedDemoData(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to seed demo data", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	memberRepo := repository.NewMemberRepository(pool)
	benefitRepo := repository.NewBenefitRepository(pool)
	enrollmentRepo := repository.NewEnrollmentRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	memberService := service.NewMemberService(*cfg, service.MemberDependencies{
		MemberRepo: memberRepo,
		Dispatcher: dispatcher,
	})
	benefitService := service.NewBenefitService(service.BenefitDependencies{
		BenefitRepo: benefitRepo,
		MemberRepo:  memberRepo,
	})
	enrollmentService := service.NewEnrollmentService(service.EnrollmentDependencies{
		MemberRepo:     memberRepo,
		BenefitRepo:    benefitRepo,
		EnrollmentRepo: enrollmentRepo,
		Dispatcher:     dispatcher,
	})
	coverageService := service.NewCoverageService(service.CoverageDependencies{
		MemberRepo:     memberRepo,
		EnrollmentRepo: enrollmentRepo,
	})
	assistantService := service.NewAssistantService(cfg.Assistant, coverageService, redis.Client, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(memberService.TokenManager(), memberRepo)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Members:        handlers.NewMembersHandler(memberService, coverageService),
		Benefits:       handlers.NewBenefitsHandler(benefitService),
		Enrollments:    handlers.NewEnrollmentsHandler(enrollmentService),
		Chat:           handlers.NewChatHandler(assistantService),
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
