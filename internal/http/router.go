package http

import (
	"strings"

	"github.com/campusflow/backend/internal/config"
	"github.com/campusflow/backend/internal/http/handlers"
	"github.com/campusflow/backend/internal/middleware"
	"github.com/campusflow/backend/internal/rbac"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	campusHandler *handlers.CampusHandler,
	courseHandler *handlers.CourseHandler,
	courseRunHandler *handlers.CourseRunHandler,
	enrollmentHandler *handlers.EnrollmentHandler,
	campaignHandler *handlers.CampaignHandler,
	leadHandler *handlers.LeadHandler,
	templateHandler *handlers.AdsTemplateHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORSAllowedOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Auth (public)
	api.Post("/auth/login", authHandler.Login)

	// Rate-limited public endpoints
	api.Use(middleware.RateLimitMiddleware(rdb, cfg.RateLimitMax, cfg.RateLimitWindow))

	// Lead capture from landing pages, no auth
	api.Post("/public/leads", leadHandler.CreatePublic)

	// Meta (public, no auth required)
	metaHandler := handlers.NewMetaHandler()
	api.Get("/meta/vocabularies", metaHandler.GetVocabularies)
	api.Get("/meta/transitions", metaHandler.GetTransitions)

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	// Current user
	protected.Get("/me", authHandler.GetMe)

	// User administration
	admin := protected.Group("/users", middleware.RequireRoles(rbac.RoleAdmin))
	admin.Post("", authHandler.RegisterUser)
	admin.Get("", userHandler.List)
	admin.Get("/:id", userHandler.Get)
	admin.Put("/:id/role", userHandler.UpdateRole)
	admin.Put("/:id/active", userHandler.SetActive)

	// Campuses
	protected.Post("/campuses", campusHandler.Create)
	protected.Get("/campuses", campusHandler.List)
	protected.Get("/campuses/:id", campusHandler.Get)
	protected.Put("/campuses/:id", campusHandler.Update)
	protected.Delete("/campuses/:id", campusHandler.Delete)

	// Courses
	protected.Post("/courses", courseHandler.Create)
	protected.Get("/courses", courseHandler.List)
	protected.Get("/courses/:id", courseHandler.Get)
	protected.Put("/courses/:id", courseHandler.Update)
	protected.Post("/courses/:id/status", courseHandler.ChangeStatus)
	protected.Delete("/courses/:id", courseHandler.Delete)
	protected.Get("/courses/:id/events", courseHandler.GetEvents)

	// Course runs
	protected.Post("/course-runs", courseRunHandler.Create)
	protected.Get("/course-runs", courseRunHandler.List)
	protected.Get("/course-runs/:id", courseRunHandler.Get)
	protected.Put("/course-runs/:id", courseRunHandler.Update)
	protected.Post("/course-runs/:id/status", courseRunHandler.ChangeStatus)
	protected.Delete("/course-runs/:id", courseRunHandler.Delete)

	// Enrollments
	protected.Post("/enrollments", enrollmentHandler.Create)
	protected.Get("/enrollments", enrollmentHandler.List)
	protected.Get("/enrollments/:id", enrollmentHandler.Get)
	protected.Put("/enrollments/:id", enrollmentHandler.Update)
	protected.Post("/enrollments/:id/status", enrollmentHandler.ChangeStatus)
	protected.Post("/enrollments/:id/payment-status", enrollmentHandler.SetPaymentStatus)
	protected.Delete("/enrollments/:id", enrollmentHandler.Delete)
	protected.Get("/enrollments/:id/events", enrollmentHandler.GetEvents)

	// Campaigns
	protected.Post("/campaigns", campaignHandler.Create)
	protected.Get("/campaigns", campaignHandler.List)
	protected.Get("/campaigns/:id", campaignHandler.Get)
	protected.Put("/campaigns/:id", campaignHandler.Update)
	protected.Post("/campaigns/:id/status", campaignHandler.ChangeStatus)
	protected.Delete("/campaigns/:id", campaignHandler.Delete)
	protected.Get("/campaigns/:id/metrics", campaignHandler.GetMetrics)
	protected.Get("/campaigns/:id/events", campaignHandler.GetEvents)

	// Leads
	protected.Post("/leads", leadHandler.Create)
	protected.Get("/leads", leadHandler.List)
	protected.Get("/leads/:id", leadHandler.Get)
	protected.Put("/leads/:id", leadHandler.Update)
	protected.Post("/leads/:id/status", leadHandler.ChangeStatus)

	// Ads templates
	protected.Post("/ads-templates", templateHandler.Create)
	protected.Get("/ads-templates", templateHandler.List)
	protected.Get("/ads-templates/:id", templateHandler.Get)
	protected.Put("/ads-templates/:id", templateHandler.Update)
	protected.Post("/ads-templates/:id/status", templateHandler.ChangeStatus)
	protected.Post("/ads-templates/:id/track-usage",
		middleware.RequireRoles(rbac.RoleAdmin, rbac.RoleGestor), templateHandler.TrackUsage)
	protected.Delete("/ads-templates/:id", templateHandler.Delete)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
