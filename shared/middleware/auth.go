package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Principal is the caller identity forwarded by the API gateway. The gateway
// has already authenticated the caller; handlers take it as given.
type Principal struct {
	UserID string
	Role   string
}

// GatewayHeaders names the headers the gateway uses to forward identity.
type GatewayHeaders struct {
	Identity string
	Role     string
}

// DefaultGatewayHeaders are the header names set by the gateway.
var DefaultGatewayHeaders = GatewayHeaders{Identity: "X-User", Role: "X-Role"}

// GatewayIdentity attaches the forwarded Principal to every request. It never
// rejects; RequireUser and RequireRole enforce presence per route.
func GatewayIdentity(headers GatewayHeaders) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(principalKey, Principal{
			UserID: strings.TrimSpace(c.GetHeader(headers.Identity)),
			Role:   strings.TrimSpace(c.GetHeader(headers.Role)),
		})
		c.Next()
	}
}

// RequireUser rejects requests without a forwarded identity.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserID(c); !ok {
			RespondWithError(c, http.StatusUnauthorized, "User not authenticated")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole rejects requests whose forwarded role is not role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := GetPrincipal(c)
		if p.Role != role {
			RespondWithError(c, http.StatusForbidden, role+" access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func GetPrincipal(c *gin.Context) (Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

func GetUserID(c *gin.Context) (string, bool) {
	p, ok := GetPrincipal(c)
	if !ok || p.UserID == "" {
		return "", false
	}
	return p.UserID, true
}

// WithPrincipal sets p directly. Intended for tests and internal callers
// that bypass the gateway headers.
func WithPrincipal(p Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(principalKey, p)
		c.Next()
	}
}
