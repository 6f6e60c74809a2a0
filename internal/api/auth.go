package api

import (
	"context"                             // Context for service calls
	"net/http"                            // HTTP status codes
	"storefront_auth/internal/auth"       // Auth orchestrator
	"storefront_auth/internal/domain"     // Importing domain models
	"storefront_auth/internal/middleware" // Identity from context

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// AuthService is the part of the auth orchestrator used by the handlers
type AuthService interface {
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
	Register(ctx context.Context, in auth.RegisterInput) (*domain.User, error)
	ChangePassword(ctx context.Context, identity domain.Identity, current, next string) error
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email"`    // Account email
	Password string `json:"password"` // Account password
}

// Request struct for registration
type RegisterRequest struct {
	Name     string `json:"name"`     // Display name
	Email    string `json:"email"`    // Account email
	Password string `json:"password"` // Account password
}

// Request struct for password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"` // Password being replaced
	NewPassword     string `json:"newPassword"`     // Replacement password
}

// LoginHandler authenticates a caller and returns a session token
func LoginHandler(svc AuthService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		res, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err) // Credential failures share one message
			return
		}
		// A reward changed the balance shown by cached views
		if res.CoinsAwarded > 0 {
			InvalidateUserCache(c.Request.Context(), rdb, res.Identity.ID)
		}
		c.JSON(http.StatusOK, res) // Return identity, token and reward
	}
}

// RegisterHandler creates a regular user account
func RegisterHandler(svc AuthService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		user, err := svc.Register(c.Request.Context(), auth.RegisterInput{
			Name:     req.Name,     // Display name
			Email:    req.Email,    // Account email
			Password: req.Password, // Account password
		})
		if err != nil {
			respondError(c, err) // Field-specific validation messages
			return
		}
		InvalidateUserCache(c.Request.Context(), rdb, user.ID) // Admin user listing changed
		c.JSON(http.StatusCreated, gin.H{"user": user.Profile()})
	}
}

// MeHandler returns the caller's identity
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.IdentityFrom(c) // Get identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": auth.MsgUnauthenticated})
			return
		}
		c.JSON(http.StatusOK, gin.H{"identity": identity.Profile()})
	}
}

// ChangePasswordHandler replaces the caller's password
func ChangePasswordHandler(svc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.IdentityFrom(c) // Get identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": auth.MsgUnauthenticated})
			return
		}
		var req ChangePasswordRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		if err := svc.ChangePassword(c.Request.Context(), identity, req.CurrentPassword, req.NewPassword); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
	}
}
