package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging
	"os"      // Filesystem access for the upload directory

	"shop_system/internal/api"        // Custom package for API handlers
	"shop_system/internal/config"     // Custom package for configuration
	"shop_system/internal/middleware" // Custom package for middleware
	"shop_system/internal/notifier"   // Custom package for the notification channel

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Ensure the upload directory exists
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logrus.Fatalf("failed to create upload directory: %v", err)
	}

	// Pick the notification transport
	var mail notifier.Notifier // Notification channel for payment screenshots
	if cfg.UseSMTP {
		mail = notifier.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword) // Real SMTP transport
	} else {
		mail = notifier.NewConsoleNotifier() // Console stand-in
		logrus.Info("Email is using console mode; set USE_SMTP=true for real delivery")
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Public routes
	r.POST("/signup", api.SignupHandler(db, redisClient))     // Signup endpoint
	r.POST("/login", api.LoginHandler(db, cfg.JWTSecret))     // Login endpoint
	r.GET("/items", api.ListItemsHandler(db, redisClient))    // Catalog listing endpoint
	r.GET("/uploads/:filename", api.ServeUploadHandler(cfg.UploadDir)) // Stored artifact endpoint

	// Authenticated routes (login required)
	authGroup := r.Group("")
	authGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret, redisClient))
	authGroup.POST("/logout", api.LogoutHandler(cfg.JWTSecret, redisClient)) // Logout endpoint

	// Cart routes
	cartGroup := authGroup.Group("/cart")
	cartGroup.GET("", api.ViewCartHandler(db, redisClient))                   // View cart endpoint
	cartGroup.POST("/items/:itemID", api.AddToCartHandler(db, redisClient))   // Add to cart endpoint
	cartGroup.PATCH("/items/:entryID", api.UpdateCartHandler(db, redisClient)) // Update quantity endpoint

	// Checkout routes
	checkoutGroup := authGroup.Group("/checkout")
	checkoutGroup.POST("/payment", api.AcknowledgePaymentHandler()) // Payment acknowledgement endpoint
	checkoutGroup.POST("/screenshot", api.UploadScreenshotHandler(
		db, mail, cfg.AdminEmail, cfg.UploadDir, cfg.MaxUploadBytes, cfg.ClearOnRelayFailure)) // Screenshot upload endpoint
	checkoutGroup.POST("/complete", api.CompleteCheckoutHandler(db, redisClient)) // Completion endpoint

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret, redisClient), middleware.AdminOnlyMiddleware(db))
	adminGroup.GET("/users", api.ListUsersHandler(db, redisClient))         // List users endpoint
	adminGroup.POST("/items", api.CreateItemHandler(db, redisClient))       // Add item endpoint
	adminGroup.DELETE("/items/:id", api.DeleteItemHandler(db, redisClient)) // Delete item endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
