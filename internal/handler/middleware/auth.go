package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"slotbooker/internal/domain/client"
	"slotbooker/internal/pkg/cookie"
	"slotbooker/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

const (
	ctxClientIDKey   = "client_id"
	ctxClientRoleKey = "client_role"
)

var roleHierarchy = map[client.Role]int{
	client.RoleClient:   1,
	client.RoleOperator: 2,
	client.RoleAdmin:    3,
}

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func extractToken(c *gin.Context) string {
	if token := cookie.GetAccessToken(c); token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		clientID, role, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxClientIDKey, clientID)
		c.Set(ctxClientRoleKey, role)
		c.Set("jwt_claims", map[string]any{
			"client_id": clientID.String(),
			"role":      string(role),
		})
		c.Next()
	}
}

func hasMinimumRole(clientRole, minRole client.Role) bool {
	clientLevel, clientExists := roleHierarchy[clientRole]
	minLevel, minExists := roleHierarchy[minRole]
	return clientExists && minExists && clientLevel >= minLevel
}

// RequireRoleAtLeast must run after RequireAuth.
func (m *AuthMiddleware) RequireRoleAtLeast(minRole client.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetClientRole(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			c.Abort()
			return
		}

		if !hasMinimumRole(role, minRole) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func GetClientID(c *gin.Context) (uuid.UUID, bool) {
	clientID, exists := c.Get(ctxClientIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := clientID.(uuid.UUID)
	return id, ok
}

func GetClientRole(c *gin.Context) (client.Role, bool) {
	clientRole, exists := c.Get(ctxClientRoleKey)
	if !exists {
		return "", false
	}

	role, ok := clientRole.(client.Role)
	return role, ok
}
