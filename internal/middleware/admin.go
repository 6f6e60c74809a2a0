package middleware

import (
	"storefront_auth/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
)

// Authorizer checks an identity against allowed roles
type Authorizer interface {
	Authorize(identity domain.Identity, allowed ...domain.Role) error
}

// RequireRoles lets the request through only if the caller holds one of roles.
// It must run after AuthMiddleware.
func RequireRoles(authz Authorizer, roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := IdentityFrom(c) // Nil when authentication did not run
		if err := authz.Authorize(identity, roles...); err != nil {
			// If not allowed, abort with the mapped status
			AbortWithError(c, err)
			return
		}
		c.Next() // Proceed to the next handler
	}
}
