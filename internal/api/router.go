package api

import (
	"storefront_auth/internal/domain"     // Importing domain models
	"storefront_auth/internal/middleware" // Custom package for middleware
	"time"                                // Request timeout

	"github.com/gin-gonic/gin"                                // Gin web framework
	"github.com/prometheus/client_golang/prometheus/promhttp" // Metrics endpoint
	"github.com/redis/go-redis/v9"                            // Redis client
)

// Service is everything the routes need from the auth orchestrator
type Service interface {
	AuthService
	middleware.Authenticator
	middleware.Authorizer
}

// Deps are the collaborators wired into the routes
type Deps struct {
	Auth           Service       // Auth orchestrator
	Store          CoinStore     // Read side for coin and admin views
	Redis          *redis.Client // Optional cache, nil disables caching
	RequestTimeout time.Duration // Per-request deadline, zero disables it
}

// RegisterRoutes mounts every endpoint on r
func RegisterRoutes(r gin.IRouter, d Deps) {
	if d.RequestTimeout > 0 {
		r.Use(middleware.TimeoutMiddleware(d.RequestTimeout))
	}

	// Auth routes
	r.POST("/auth/login", LoginHandler(d.Auth, d.Redis))       // Login endpoint
	r.POST("/auth/register", RegisterHandler(d.Auth, d.Redis)) // Registration endpoint

	authed := r.Group("")
	authed.Use(middleware.AuthMiddleware(d.Auth))
	authed.GET("/auth/me", MeHandler())                         // Identity endpoint
	authed.PUT("/auth/password", ChangePasswordHandler(d.Auth)) // Password change endpoint

	// Coin routes (protected by bearer token)
	coins := authed.Group("/coins")
	coins.GET("", GetCoinsHandler(d.Store, d.Redis))                    // Balance endpoint
	coins.GET("/transactions", GetCoinHistoryHandler(d.Store, d.Redis)) // Coin history endpoint

	// Admin routes (protected, admin only)
	admin := authed.Group("/admin")
	admin.Use(middleware.RequireRoles(d.Auth, domain.RoleAdmin))
	admin.GET("/users", ListUsersHandler(d.Store, d.Redis))                        // List users endpoint
	admin.GET("/coin-transactions", ListCoinTransactionsHandler(d.Store, d.Redis)) // List coin transactions endpoint

	r.GET("/metrics", gin.WrapH(promhttp.Handler())) // Prometheus scrape endpoint
}
