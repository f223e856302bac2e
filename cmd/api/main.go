package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/campusflow/backend/internal/config"
	"github.com/campusflow/backend/internal/db"
	"github.com/campusflow/backend/internal/events"
	apphttp "github.com/campusflow/backend/internal/http"
	"github.com/campusflow/backend/internal/http/handlers"
	"github.com/campusflow/backend/internal/repositories"
	"github.com/campusflow/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, cfg.PostgresMaxConns, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	campusRepo := repositories.NewCampusRepo(pool)
	courseRepo := repositories.NewCourseRepo(pool)
	runRepo := repositories.NewCourseRunRepo(pool)
	enrollmentRepo := repositories.NewEnrollmentRepo(pool)
	campaignRepo := repositories.NewCampaignRepo(pool)
	leadRepo := repositories.NewLeadRepo(pool)
	templateRepo := repositories.NewAdsTemplateRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Services
	campusService := services.NewCampusService(campusRepo, auditRepo, log)
	courseService := services.NewCourseService(courseRepo, auditRepo, publisher, log)
	runService := services.NewCourseRunService(runRepo, courseRepo, campusRepo, auditRepo, publisher, log)
	enrollmentService := services.NewEnrollmentService(enrollmentRepo, runRepo, auditRepo, publisher, log)
	campaignService := services.NewCampaignService(campaignRepo, leadRepo, auditRepo, publisher, log)
	leadService := services.NewLeadService(leadRepo, campaignRepo, auditRepo, publisher, log)
	templateService := services.NewAdsTemplateService(templateRepo, campaignRepo, auditRepo, publisher, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, cfg, log)
	userHandler := handlers.NewUserHandler(userRepo, log)
	campusHandler := handlers.NewCampusHandler(campusService, log)
	courseHandler := handlers.NewCourseHandler(courseService, auditRepo, log)
	courseRunHandler := handlers.NewCourseRunHandler(runService, log)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentService, auditRepo, log)
	campaignHandler := handlers.NewCampaignHandler(campaignService, auditRepo, log)
	leadHandler := handlers.NewLeadHandler(leadService, log)
	templateHandler := handlers.NewAdsTemplateHandler(templateService, log)
	wsHub := handlers.NewWSHub(cfg, subscriber, log)

	// Start WS hub
	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(
		app, cfg, log, rdb,
		authHandler, userHandler, campusHandler, courseHandler, courseRunHandler,
		enrollmentHandler, campaignHandler, leadHandler, templateHandler, wsHub,
	)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
