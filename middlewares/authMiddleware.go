package middlewares

import (
	"log/slog"
	"net/http"
	"strings"

	"civicsync-triage/models"
	authUtils "civicsync-triage/utils"

	"github.com/gin-gonic/gin"
)

const (
	AuthCookie = "auth_token"

	userIDKey = "user_id"
	emailKey  = "email"
	nameKey   = "name"
	roleKey   = "role"
)

// Identity is the authenticated caller as stored on the gin context.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Role   models.Role
}

// CurrentIdentity returns the caller set by AuthMiddleware or OptionalAuth.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	email := c.GetString(emailKey)
	if email == "" {
		return Identity{}, false
	}
	return Identity{
		UserID: c.GetString(userIDKey),
		Email:  email,
		Name:   c.GetString(nameKey),
		Role:   models.Role(c.GetString(roleKey)),
	}, true
}

func tokenFromRequest(c *gin.Context) string {
	authHeader := c.Request.Header.Get("Authorization")
	if authHeader != "" {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie(AuthCookie); err == nil {
		return cookie
	}
	return ""
}

func setIdentity(c *gin.Context, claims authUtils.Claims) {
	c.Set(userIDKey, claims.UserID)
	c.Set(emailKey, claims.Email)
	c.Set(nameKey, claims.Name)
	c.Set(roleKey, claims.Role)
}

// AuthMiddleware rejects requests without a valid bearer token or auth cookie
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No authorization token provided"})
			return
		}

		claims, err := authUtils.ParseToken(secret, tokenString)
		if err != nil {
			slog.WarnContext(c.Request.Context(), "token validation failed", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization token"})
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := tokenFromRequest(c); tokenString != "" {
			if claims, err := authUtils.ParseToken(secret, tokenString); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

// RequireTriage lets through callers whose role may triage issues. It must
// run after AuthMiddleware.
func RequireTriage() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}
		if !identity.Role.CanTriage() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You are not authorized to perform this action"})
			return
		}
		c.Next()
	}
}

// RequireRole lets through callers whose role is one of roles. It must run
// after AuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}
		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You are not authorized to perform this action"})
	}
}
