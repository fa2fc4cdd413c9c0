package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/berekarkirti/Fruit-Inventory/internal/apierror"
	"github.com/berekarkirti/Fruit-Inventory/internal/utils"
	"github.com/berekarkirti/Fruit-Inventory/internal/workflow"
)

const IdentityKey = "identity"

// JWTAuth validates the Bearer token and stores the verified identity in
// the request context. The role comes from the token claims, which were
// populated from the database at login — never from request input.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				apierror.New("Authentication required. Please provide a valid token."))
			return
		}

		claims, err := utils.ParseToken([]byte(secret), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				apierror.New("Invalid or expired token"))
			return
		}

		identity := workflow.Identity{
			Username: claims.Username,
			Role:     workflow.Role(claims.Role),
		}
		if identity.Username == "" || !identity.Role.Valid() {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				apierror.New("Authentication required. Please provide a valid token."))
			return
		}

		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// RequireRole rejects callers whose role is not in the allowed set. The
// message enumerates the acceptable roles and the caller's actual role.
func RequireRole(roles ...workflow.Role) gin.HandlerFunc {
	names := make([]string, len(roles))
	allowed := make(map[workflow.Role]bool, len(roles))
	for i, r := range roles {
		names[i] = string(r)
		allowed[r] = true
	}
	required := strings.Join(names, " or ")

	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if !allowed[identity.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden,
				apierror.New("Access denied. Required role: "+required+". Your role: "+string(identity.Role)))
			return
		}
		c.Next()
	}
}

func GetIdentity(c *gin.Context) workflow.Identity {
	identity, _ := c.MustGet(IdentityKey).(workflow.Identity)
	return identity
}
