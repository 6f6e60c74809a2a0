package main

import (
	"context"                         // Signal-aware root context
	"errors"                          // Shutdown error matching
	"net/http"                        // HTTP server
	"os"                              // Signals
	"os/signal"                       // Graceful shutdown
	"storefront_auth/internal/api"    // Custom package for API handlers
	"storefront_auth/internal/auth"   // Auth orchestrator
	"storefront_auth/internal/config" // Custom package for configuration
	"storefront_auth/internal/db"     // Database bootstrap
	"storefront_auth/internal/store"  // Credential store and locks
	"storefront_auth/internal/utils"  // Token service and password hasher
	"syscall"                         // Signals
	"time"                            // Shutdown deadline

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err) // Missing secrets are fatal at startup
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the database, retrying while it starts
	conn, err := db.Open(ctx, cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	users := store.New(conn)

	// Setup Redis client when configured
	var redisClient *redis.Client
	var locker store.Locker = store.NewLocalLocker()
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		locker = store.NewRedisLocker(redisClient)
	} else {
		logrus.Warn("REDIS_ADDR not set, using in-process login lock and no cache")
	}

	tokens, err := utils.NewTokenService(cfg.JWTSecret)
	if err != nil {
		logrus.Fatalf("failed to create token service: %v", err)
	}
	svc, err := auth.NewService(auth.Config{
		AdminEmail:    cfg.AdminEmail,     // Privileged identity email
		AdminPassword: cfg.AdminPassword,  // Privileged identity password
		Location:      cfg.StreakLocation, // Streak calendar
	}, users, utils.NewBcryptHasher(utils.PasswordCost), tokens, auth.WithLocker(locker))
	if err != nil {
		logrus.Fatalf("failed to create auth service: %v", err)
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

	api.RegisterRoutes(r, api.Deps{
		Auth:           svc,                // Auth orchestrator
		Store:          users,              // Coin and admin views
		Redis:          redisClient,        // Optional cache
		RequestTimeout: cfg.RequestTimeout, // Per-request deadline
	})

	srv := &http.Server{Addr: ":" + cfg.AppPort, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logrus.Info("Server running on " + cfg.AppPort) // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("shutdown failed: %v", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := conn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
