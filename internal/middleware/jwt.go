package middleware

import (
	"context"                         // Context for identity resolution
	"storefront_auth/internal/auth"   // Error mapping
	"storefront_auth/internal/domain" // Importing domain models
	"strings"                         // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework
)

// identityKey is the gin context key holding the resolved identity
const identityKey = "identity"

// Authenticator resolves bearer tokens to identities
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
}

// AuthMiddleware validates the bearer token and stores the caller's identity
func AuthMiddleware(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := BearerToken(c.GetHeader("Authorization"))              // Extract the token string
		identity, err := authn.Authenticate(c.Request.Context(), tokenStr) // Verify and resolve identity
		if err != nil {
			// If resolution fails, abort with the mapped status
			AbortWithError(c, err)
			return
		}
		c.Set(identityKey, identity) // Store identity in context
		c.Next()                     // Proceed to the next handler
	}
}

// BearerToken returns the token of an "Authorization: Bearer <token>" header, or ""
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// IdentityFrom returns the identity stored by AuthMiddleware
func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	identity, ok := v.(domain.Identity)
	return identity, ok
}

// AbortWithError stops the chain with the status and public message for err
func AbortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(auth.HTTPStatus(err), gin.H{"message": auth.PublicMessage(err)})
}
