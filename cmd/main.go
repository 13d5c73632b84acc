package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"trznica/internal/caching"
	"trznica/internal/handlers"
	"trznica/internal/jobs"
	"trznica/internal/jobs/background"
	"trznica/internal/middleware"
	"trznica/internal/models"
	"trznica/internal/repositories"
	"trznica/internal/services"
	"trznica/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: JWT_SECRET not set, using a generated secret; tokens will not survive restarts")
	}
	accessTTL := envInt("ACCESS_TOKEN_TTL", 900)       // 15 minutes
	refreshTTL := envInt("REFRESH_TOKEN_TTL", 2592000) // 30 days

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := envInt("REDIS_DB", 0)

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"
	bucketName := os.Getenv("MINIO_BUCKET")
	if bucketName == "" {
		bucketName = "trznica-images"
	}

	minioSvc, err := services.NewMinioService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}
	if err := minioSvc.EnsureBucketExists(context.Background(), bucketName); err != nil {
		log.Printf("WARNING: could not ensure bucket %s exists: %v", bucketName, err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	farmRepo := repositories.NewFarmRepository(pool)
	categoryRepo := repositories.NewCategoryRepository(pool)
	productRepo := repositories.NewProductRepository(pool)
	orderRepo := repositories.NewOrderRepository(pool)
	orderItemRepo := repositories.NewOrderItemRepository(pool)
	favoriteRepo := repositories.NewFavoriteRepository(pool)
	reviewRepo := repositories.NewReviewRepository(pool)
	waitlistRepo := repositories.NewWaitlistRepository(pool)

	// Cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Services
	authSvc := services.NewAuthService(cacheSvc, jwtSecret, accessTTL, refreshTTL)
	accountSvc := services.NewAccountService(userRepo)
	productSvc := services.NewProductService(productRepo, farmRepo, categoryRepo, cacheSvc, minioSvc, bucketName)
	farmSvc := services.NewFarmService(farmRepo, productRepo, reviewRepo)
	checkoutSvc := services.NewCheckoutService(orderRepo, productRepo, cacheSvc)
	orderSvc := services.NewOrderService(orderRepo, orderItemRepo, farmRepo, cacheSvc)
	favoriteSvc := services.NewFavoriteService(favoriteRepo, productRepo, cacheSvc)
	statsSvc := services.NewStatsService(orderRepo, orderItemRepo, productRepo, farmRepo, favoriteRepo, reviewRepo, cacheSvc)
	receiptSvc := services.NewReceiptService()
	waitlistSvc := services.NewWaitlistService(waitlistRepo)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(accountSvc, authSvc)
	productHandlers := handlers.NewProductHandlers(productSvc)
	farmHandlers := handlers.NewFarmHandlers(farmSvc)
	orderHandlers := handlers.NewOrderHandlers(checkoutSvc, orderSvc, farmSvc, receiptSvc, accountSvc)
	favoriteHandlers := handlers.NewFavoriteHandlers(favoriteSvc)
	statsHandlers := handlers.NewStatsHandlers(statsSvc)
	waitlistHandlers := handlers.NewWaitlistHandlers(waitlistSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Background jobs
	stockChecker := jobs.NewStockAlertChecker(productRepo, envInt("LOW_STOCK_THRESHOLD", 5))
	scheduler := background.NewJobScheduler(stockChecker)
	if err := scheduler.Start(); err != nil {
		log.Printf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Echo instance
	e := echo.New()
	e.HideBanner = true

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	versionMiddleware := middleware.NewVersionMiddleware()
	e.Use(versionMiddleware.APIVersionResolver())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)

	// API routes
	v1 := e.Group("/v1")
	v1.Use(versionMiddleware.VersionHeader("v1"))

	// Public routes. The credential endpoints are rate limited per IP.
	authLimiter := middleware.RateLimit(cacheSvc, envInt("AUTH_RATE_LIMIT", 10), time.Minute)
	auth := v1.Group("/auth")
	auth.POST("/register", authHandlers.Register, authLimiter)
	auth.POST("/login", authHandlers.Login, authLimiter)
	auth.POST("/refresh", authHandlers.Refresh)
	auth.POST("/logout", authHandlers.Logout)

	v1.GET("/stats", statsHandlers.GetPublicStats)
	v1.GET("/products", productHandlers.ListCatalog)
	v1.GET("/products/:id", productHandlers.GetProduct)
	v1.GET("/farms", farmHandlers.ListFarms)
	v1.GET("/farms/:id", farmHandlers.GetFarm)
	v1.POST("/waitlist", waitlistHandlers.Join)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.JWTMiddleware(authSvc))

	protected.GET("/me", authHandlers.Me)
	protected.PUT("/me", authHandlers.UpdateMe)
	protected.PUT("/me/password", authHandlers.ChangePassword)

	protected.POST("/orders", orderHandlers.Checkout)
	protected.GET("/orders/:id", orderHandlers.GetOrder)
	protected.PATCH("/orders/:id/status", orderHandlers.UpdateStatus)
	protected.GET("/orders/:id/receipt", orderHandlers.Receipt)

	protected.GET("/favorites", favoriteHandlers.List)
	protected.POST("/favorites/:id", favoriteHandlers.Toggle)

	// Dashboard routes
	dashboard := protected.Group("/dashboard")
	dashboard.GET("/orders", orderHandlers.ListDashboardOrders)
	dashboard.GET("/stats", statsHandlers.GetDashboardStats)

	farmer := dashboard.Group("", middleware.RequireRole(models.RoleFarmer, models.RoleAdmin))
	farmer.GET("/farm", farmHandlers.GetMyFarm)
	farmer.PUT("/farm", farmHandlers.UpsertMyFarm)
	farmer.GET("/products", productHandlers.ListMine)
	farmer.POST("/products", productHandlers.Create)
	farmer.PUT("/products/:id", productHandlers.Update)
	farmer.DELETE("/products/:id", productHandlers.Delete)
	farmer.POST("/products/:id/image", productHandlers.UploadImage)

	// Start server
	port := envInt("PORT", 8080)
	log.Printf("Trznica server v%s starting on port %d", version, port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
