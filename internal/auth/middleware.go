package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Claim headers are injected by the identity-aware gateway in front of this
// service; they are trusted here and nowhere else.
const (
	HeaderBadge = "X-Auth-Badge"
	HeaderEmail = "X-Auth-Email"
	CookieBadge = "badge"
)

func Middleware(resolver *Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims{
			Badge: c.GetHeader(HeaderBadge),
			Email: c.GetHeader(HeaderEmail),
		}
		if cookie, err := c.Cookie(CookieBadge); err == nil {
			claims.CookieBadge = cookie
		}

		authCtx, err := resolver.Resolve(c.Request.Context(), claims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Caller identity could not be resolved"})
			return
		}

		SetContext(c, authCtx)
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		authCtx, ok := FromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Caller identity could not be resolved"})
			return
		}
		if !authCtx.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Administrator access required"})
			return
		}
		c.Next()
	}
}
