package main

import (
	"context" // Context for store and Redis lifecycle
	"log"     // log package is needed for logging
	"time"    // Connection timeouts

	"invoiceflow/internal/api"        // Custom package for API handlers
	"invoiceflow/internal/config"     // Custom package for configuration
	"invoiceflow/internal/middleware" // Custom package for middleware
	"invoiceflow/internal/storage"    // Custom package for local file storage
	"invoiceflow/internal/store"      // Custom package for the document store

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the document store with an explicit startup timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	st, err := store.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logrus.Fatalf("failed to connect to MongoDB: %v", err) // Fatal error if store connection fails
	}
	defer st.Close(context.Background()) // Disconnect on shutdown

	// Setup the local file store for uploads and CSV exports
	files, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		logrus.Fatalf("failed to prepare upload dir: %v", err)
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Pick the identity mechanism; handlers never see the difference
	var auth middleware.Authenticator = middleware.HeaderAuthenticator{}
	if cfg.AuthMode == "jwt" {
		auth = middleware.JWTAuthenticator{Secret: cfg.JWTSecret}
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

	r.Use(middleware.CORS()) // Permissive CORS for browser frontends

	// Public routes
	r.GET("/health", api.HealthHandler())                        // Liveness endpoint
	r.GET("/", api.RootHandler())                                // Service identity endpoint
	r.GET("/test", api.TestDatabaseHandler(st))                  // Store connectivity probe
	r.POST("/api/users", api.CreateUserHandler(st, redisClient)) // Registration endpoint

	// Admin routes (identity read but not verified)
	r.GET("/api/admin/overview", middleware.OptionalIdentity(auth), api.AdminOverviewHandler(st, redisClient))

	// Invoice routes (protected by the identity middleware)
	invoiceGroup := r.Group("/api/invoices")
	invoiceGroup.Use(middleware.RequireIdentity(auth))
	invoiceGroup.POST("/upload", api.UploadInvoiceHandler(st, files, redisClient)) // Upload and extract endpoint
	invoiceGroup.GET("", api.ListInvoicesHandler(st, redisClient))                 // List endpoint
	invoiceGroup.POST("/update", api.UpdateInvoiceHandler(st, redisClient))        // Partial update endpoint
	invoiceGroup.GET("/export", api.ExportInvoicesHandler(st, files))              // CSV export endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
