package middleware

import (
	"errors"   // Sentinel errors
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework

	"invoiceflow/internal/utils" // JWT utility functions
)

// IdentityKey is the context key under which the caller's user id is stored
const IdentityKey = "userID"

// IdentityHeader is the header carrying the caller-supplied user id
const IdentityHeader = "X-User-Id"

// ErrNoIdentity is returned when a request carries no resolvable identity
var ErrNoIdentity = errors.New("missing x-user-id header")

// Authenticator resolves a caller identity from a request. The default
// implementation trusts a client-supplied header verbatim; swapping in a
// real mechanism (e.g. JWT) requires no handler changes.
type Authenticator interface {
	Identify(c *gin.Context) (string, error) // Resolve the caller's user id
}

// HeaderAuthenticator reads the identity header and trusts it without
// verification. Any caller may claim any identity.
type HeaderAuthenticator struct{}

// Identify returns the raw header value
func (HeaderAuthenticator) Identify(c *gin.Context) (string, error) {
	id := c.GetHeader(IdentityHeader) // Read the identity header
	if id == "" {
		return "", ErrNoIdentity // No identity supplied
	}
	return id, nil
}

// JWTAuthenticator resolves the identity from a Bearer token signed with
// the configured secret.
type JWTAuthenticator struct {
	Secret string // HMAC signing secret
}

// Identify parses and validates the Authorization bearer token
func (a JWTAuthenticator) Identify(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization") // Get Authorization header
	// Check if the Authorization header is present and properly formatted
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", ErrNoIdentity // No token supplied
	}
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string
	claims, err := utils.ParseJWT(tokenStr, a.Secret)     // Parse the JWT token
	if err != nil {
		return "", err // Invalid or expired token
	}
	return claims.UserID, nil
}

// RequireIdentity aborts with 401 when no identity can be resolved,
// otherwise stores the user id in the request context.
func RequireIdentity(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := auth.Identify(c) // Resolve the caller identity
		if err != nil || id == "" {
			// If unresolved, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing x-user-id header"})
			return
		}
		c.Set(IdentityKey, id) // Store userID in context
		c.Next()               // Proceed to the next handler
	}
}

// OptionalIdentity records the identity when present but never aborts.
// The admin overview reads the identity without verifying the admin role.
func OptionalIdentity(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := auth.Identify(c); err == nil && id != "" {
			c.Set(IdentityKey, id) // Store userID in context if supplied
		}
		c.Next() // Proceed regardless
	}
}
