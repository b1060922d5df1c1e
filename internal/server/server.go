// Package server contains the HTTP handlers and routing for the CMS API.
package server

import (
	"context"
	"log"
	"time"

	"github.com/cfischer83/inkwell/internal/auth"
	"github.com/cfischer83/inkwell/internal/bootstrap"
	"github.com/cfischer83/inkwell/internal/config"
	"github.com/cfischer83/inkwell/internal/featureflags"
	"github.com/cfischer83/inkwell/internal/middleware"
	"github.com/cfischer83/inkwell/internal/models"
	"github.com/cfischer83/inkwell/internal/repository"
	"github.com/cfischer83/inkwell/internal/service"
	"github.com/cfischer83/inkwell/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo     repository.UserRepository
	postRepo     repository.PostRepository
	pageRepo     repository.PageRepository
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
	mediaRepo    repository.MediaRepository

	featureFlags *featureflags.Manager
	registry     *DisplayRegistry

	postService     *service.PostService
	pageService     *service.PageService
	taxonomyService *service.TaxonomyService
	mediaService    *service.MediaService
	userService     *service.UserService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(cfg)
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	pageRepo := repository.NewPageRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	tagRepo := repository.NewTagRepository(db)
	mediaRepo := repository.NewMediaRepository(db)

	prom := middleware.InitMetrics("inkwell-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		postRepo:       postRepo,
		pageRepo:       pageRepo,
		categoryRepo:   categoryRepo,
		tagRepo:        tagRepo,
		mediaRepo:      mediaRepo,
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		registry:       NewDisplayRegistry(),
	}

	store := storage.NewLocalStore(cfg.MediaUploadDir)
	server.postService = service.NewPostService(postRepo, categoryRepo, tagRepo)
	server.pageService = service.NewPageService(pageRepo)
	server.taxonomyService = service.NewTaxonomyService(categoryRepo, tagRepo, postRepo)
	server.mediaService = service.NewMediaService(mediaRepo, store, cfg.MediaMaxUploadSizeMB)
	server.userService = service.NewUserService(userRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Request spans (after requestid so the trace carries it)
	app.Use(middleware.TracingMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter) so
	// browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)
	api.Get("/", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Inkwell Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/refresh", s.Refresh)
	auth.Post("/logout", s.Logout)

	// Public aggregate views. OptionalAuth lets editors see unpublished
	// content on the detail paths without blocking anonymous visitors.
	api.Get("/home", s.Home)
	api.Get("/search", middleware.RateLimit(
		s.redis, 10, time.Minute, "search"), s.Search)
	api.Get("/menu", s.Menu)

	// Post routes. Specific paths before the generic /:slug routes.
	posts := api.Group("/posts", middleware.OptionalAuth)
	posts.Get("/", s.GetPosts)
	posts.Get("/mine", middleware.AuthRequired, s.GetMyPosts)
	posts.Post("/", middleware.AuthRequired, middleware.RateLimit(
		s.redis, 10, time.Minute, "create_post"), s.CreatePost)
	posts.Get("/:slug/related", s.GetRelatedPosts)
	posts.Get("/:slug", s.GetPost)
	posts.Put("/:slug", middleware.AuthRequired, s.UpdatePost)
	posts.Delete("/:slug", middleware.AuthRequired, s.DeletePost)

	// Page routes
	pages := api.Group("/pages", middleware.OptionalAuth)
	pages.Get("/", s.GetPages)
	pages.Post("/", middleware.AuthRequired, s.CreatePage)
	pages.Get("/:slug", s.GetPage)
	pages.Put("/:slug", middleware.AuthRequired, s.UpdatePage)
	pages.Delete("/:slug", middleware.AuthRequired, s.DeletePage)

	// Taxonomy routes; reads are public, writes need editor rank (enforced
	// in the service layer).
	categories := api.Group("/categories")
	categories.Get("/", s.GetCategories)
	categories.Post("/", middleware.AuthRequired, s.CreateCategory)
	categories.Get("/:slug/children", s.GetCategoryChildren)
	categories.Get("/:slug", s.GetCategory)
	categories.Put("/:slug", middleware.AuthRequired, s.UpdateCategory)
	categories.Delete("/:slug", middleware.AuthRequired, s.DeleteCategory)

	tags := api.Group("/tags")
	tags.Get("/", s.GetTags)
	tags.Post("/", middleware.AuthRequired, s.CreateTag)
	tags.Get("/:slug", s.GetTag)
	tags.Put("/:slug", middleware.AuthRequired, s.UpdateTag)
	tags.Delete("/:slug", middleware.AuthRequired, s.DeleteTag)

	// Stored files are served publicly; the library itself is auth-only.
	api.Get("/media/:id/file", s.ServeMediaFile)

	media := api.Group("/media", middleware.AuthRequired)
	media.Post("/", middleware.RateLimit(
		s.redis, 20, time.Minute, "upload_media"), s.UploadMedia)
	media.Get("/", s.GetMediaList)
	media.Get("/:id", s.GetMedia)
	media.Put("/:id", s.UpdateMedia)
	media.Delete("/:id", s.DeleteMedia)

	// Profile routes
	users := api.Group("/users", middleware.AuthRequired)
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)

	// Admin routes
	admin := api.Group("/admin", middleware.AuthRequired, s.AdminRequired())
	admin.Get("/users", s.GetUsers)
	admin.Put("/users/:id/role", s.AssignRole)
	admin.Get("/registry", s.GetRegistry)
	admin.Get("/feature-flags", s.GetFeatureFlags)
}

// HealthCheck is a legacy/simple alias for ReadinessCheck
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The service runs without Redis, just without caching.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := s.requireUser(c)
		if err != nil {
			return nil
		}
		if !auth.IsAdmin(user) {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewPermissionDeniedError("Admin access required"))
		}
		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName:   "Inkwell CMS API",
		BodyLimit: (s.config.MediaMaxUploadSizeMB + 1) * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
