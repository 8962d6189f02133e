package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clausewise/core/internal/pkg/jwt"
	"github.com/clausewise/core/internal/pkg/response"
)

const (
	// ContextKeySubject holds the verified subject identifier of the caller.
	ContextKeySubject = "subject"

	// AnonymousSubject is the literal folder segment used for unauthenticated
	// uploads, matching the historical bucket layout.
	AnonymousSubject = "None"
)

// Auth returns a middleware that enforces bearer-token authentication.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		subject, err := VerifyToken(extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeySubject, subject)
		c.Next()
	}
}

// OptionalAuth sets the subject if a valid token is present, but does not
// block the request.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if subject, err := VerifyToken(extractToken(c)); err == nil && subject != "" {
			c.Set(ContextKeySubject, subject)
		}
		c.Next()
	}
}

// VerifyToken validates a bearer token and returns the subject identifier.
// The subject is opaque to the rest of the system.
func VerifyToken(rawToken string) (string, error) {
	token := NormalizeToken(rawToken)
	if token == "" {
		return "", errors.New("token is required")
	}
	claims, err := jwt.Parse(token)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

// CurrentSubject extracts the authenticated subject from context, or ""
// when the request is anonymous.
func CurrentSubject(c *gin.Context) string {
	v, _ := c.Get(ContextKeySubject)
	id, _ := v.(string)
	return id
}

// StorageSubject returns the subject used for blob path partitioning,
// substituting the anonymous placeholder when unauthenticated.
func StorageSubject(c *gin.Context) string {
	if s := CurrentSubject(c); s != "" {
		return s
	}
	return AnonymousSubject
}

// IsAuthenticated returns true if the request has a valid auth token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentSubject(c) != ""
}

func extractToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if auth != "" {
		return NormalizeToken(auth)
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
