package utils

import (
	"errors" // Sentinel errors
	"time"   // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// TokenTTL is the lifetime of a session token
const TokenTTL = 30 * 24 * time.Hour

var (
	ErrInvalidToken = errors.New("invalid or expired token")      // Returned by Verify for any rejected token
	ErrEmptySecret  = errors.New("token signing secret is empty") // Returned when no signing key is configured
)

// JWT Claims
type Claims struct {
	Email                string `json:"email,omitempty"` // Only set for the privileged identity
	jwt.RegisteredClaims        // Standard JWT claims, Subject carries the identity id
}

// TokenService issues and verifies signed session tokens
type TokenService struct {
	secret []byte           // HMAC signing key
	ttl    time.Duration    // Token lifetime
	now    func() time.Time // Clock used for issuance and expiry checks
}

// TokenOption customizes a TokenService
type TokenOption func(*TokenService)

// WithClock overrides the clock used for issuing and verifying tokens
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService creates a token service signing with secret
func NewTokenService(secret string, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, ErrEmptySecret // Refuse to sign with an empty key
	}
	s := &TokenService{secret: []byte(secret), ttl: TokenTTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue creates a token for subjectID; email is embedded only when non-empty
func (s *TokenService) Issue(subjectID, email string) (string, error) {
	now := s.now()
	// Set token claims
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,                          // Identity id
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)), // Token expires in 30 days
			IssuedAt:  jwt.NewNumericDate(now),            // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString(s.secret)                        // Sign the token with the secret
}

// Verify parses and validates a token string. Any failure yields ErrInvalidToken.
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return s.secret, nil // Return the secret key for validation
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), // Reject alg switching
		jwt.WithExpirationRequired(),                                 // Tokens without exp are invalid
		jwt.WithTimeFunc(s.now),                                      // Check expiry against our clock
	)
	// Check for parsing errors
	if err != nil {
		return nil, ErrInvalidToken
	}
	// Validate token and extract claims
	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.Subject != "" {
		return claims, nil // Return claims if valid
	}
	return nil, ErrInvalidToken
}
