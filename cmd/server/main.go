package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"plate-plan.backend/internal/config"
	"plate-plan.backend/internal/infrastructure/clients"
	"plate-plan.backend/internal/infrastructure/jobs"
	"plate-plan.backend/internal/infrastructure/repositories"
	"plate-plan.backend/internal/infrastructure/tasks"
	"plate-plan.backend/internal/interfaces/http/handlers"
	"plate-plan.backend/internal/interfaces/http/middleware"
	"plate-plan.backend/internal/usecases"
	"plate-plan.backend/pkg/jwt"
	"plate-plan.backend/pkg/logger"
	"plate-plan.backend/pkg/mail"
	"plate-plan.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	emailVerifRepo := repositories.NewEmailVerificationRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	profileRepo := repositories.NewProfileRepository(db)

	// Initialize outbound clients
	llmClient := clients.NewLLMClient(cfg.OpenAI)
	cartClient := clients.NewCartClient(cfg.Instacart)
	placesClient := clients.NewPlacesClient(cfg.Places)
	scraperClient := clients.NewScraperClient(cfg.Scraper)

	// Initialize mailer
	mailer := mail.NewSMTPSender(cfg.SMTP)

	// Initialize task queue and workers
	queue := tasks.NewQueue()
	mealPlanTask := tasks.NewMealPlanTask(profileRepo, llmClient, cartClient)
	storeScrapeTask := tasks.NewStoreScrapeTask(profileRepo, placesClient, scraperClient)
	mealPlanPool := tasks.NewPool(queue, tasks.KindMealPlan, mealPlanTask, cfg.Worker.MealPlanWorkers)
	scrapePool := tasks.NewPool(queue, tasks.KindStoreScrape, storeScrapeTask, cfg.Worker.ScrapeWorkers)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mealPlanPool.Start(ctx)
	scrapePool.Start(ctx)

	cleanupJob := jobs.NewCleanupJob(emailVerifRepo, refreshTokenRepo, profileRepo)
	go cleanupJob.Start(ctx)

	// Initialize usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, emailVerifRepo, refreshTokenRepo, profileRepo, jwtService, mailer, cfg.JWT.RefreshExpiry)
	profileUsecase := usecases.NewProfileUsecase(profileRepo)
	plannerUsecase := usecases.NewPlannerUsecase(profileRepo, queue)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	profileHandler := handlers.NewProfileHandler(profileUsecase, authUsecase)
	plannerHandler := handlers.NewPlannerHandler(plannerUsecase)

	// Create auth middleware
	authMiddleware := middleware.AuthMiddleware(jwtService)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:             authHandler,
		profileHandler:          profileHandler,
		plannerHandler:          plannerHandler,
		authMiddleware:          authMiddleware,
		verifiedEmailMiddleware: middleware.RequireVerifiedEmail(userRepo),
		registerLimiter:         middleware.RateLimitMiddleware("register", cfg.RateLimit.RegisterPerHour, time.Hour, middleware.KeyByIP),
		loginLimiter:            middleware.RateLimitMiddleware("login", cfg.RateLimit.LoginPerMinute, time.Minute, middleware.KeyByIP),
		resendLimiter:           middleware.RateLimitMiddleware("resend", cfg.RateLimit.ResendPerHour, time.Hour, middleware.KeyByUser),
	})

	// Print all registered routes for debugging
	log.Println("📋 Registered Routes:")
	for _, route := range r.Routes() {
		log.Printf("   %s %s", route.Method, route.Path)
	}

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		cleanupJob.Stop()
		cancel()
		mealPlanPool.Stop()
		scrapePool.Stop()
	}()

	// Start server
	log.Printf("🚀 Plate-Plan Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
