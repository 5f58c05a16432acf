package main

import (
	"context" // context package is needed for Redis operations
	"time"    // Token lifetime

	"auth_pay_service/internal/api"               // Custom package for API handlers
	"auth_pay_service/internal/config"            // Custom package for configuration
	"auth_pay_service/internal/db"                // Database connection
	"auth_pay_service/internal/events/kafka"      // Payment event publisher
	"auth_pay_service/internal/middleware"        // Custom package for middleware
	"auth_pay_service/internal/payment"           // Payment webhook processing
	"auth_pay_service/internal/storage/gormstore" // Relational ledger store

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET must be set")
	}

	// Connect to the database
	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client, caching is skipped when REDIS_ADDR is empty
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	}

	// Payment events go to Kafka when brokers are configured
	var publisher payment.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kp.Close()
		publisher = kp
	}

	processor := payment.NewProcessor(gormstore.New(gdb), payment.NewSigner(cfg.WebhookSecret), publisher)

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

	auth := middleware.JWTAuthMiddleware(cfg.JWTSecret) // Bearer token check
	admin := middleware.AdminOnlyMiddleware(gdb)        // Admin flag check

	// Auth routes
	r.POST("/auth/token", api.LoginHandler(gdb, cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute))

	// User routes (protected by JWT)
	users := r.Group("/users", auth)
	users.POST("/", admin, api.CreateUserHandler(gdb))                                    // Create user and account
	users.GET("/users-with-accounts", admin, api.ListUsersWithAccountsHandler(gdb))       // Users with balances
	users.GET("/:user_id", api.RetrieveUserHandler(gdb))                                  // Single user
	users.GET("/:user_id/accounts", api.GetUserAccountsHandler(gdb, redisClient))         // User accounts
	users.GET("/:user_id/transactions", api.GetUserTransactionsHandler(gdb, redisClient)) // User payments

	// Payment webhook (protected by JWT)
	r.POST("/transaction/payment", auth, api.PaymentHandler(processor, redisClient))

	logrus.Info("Server running on " + cfg.AppPort) // Log server start
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
