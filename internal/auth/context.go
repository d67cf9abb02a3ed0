package auth

import "github.com/gin-gonic/gin"

const contextKey = "auth_context"

// AuthContext is the per-request resolved identity. It is built once by the
// middleware and read explicitly by handlers; no handler re-walks the claim
// fallback chain.
type AuthContext struct {
	Badge       string
	Email       string
	DisplayName string
	IsAdmin     bool
}

func SetContext(c *gin.Context, authCtx *AuthContext) {
	c.Set(contextKey, authCtx)
}

func FromContext(c *gin.Context) (*AuthContext, bool) {
	value, ok := c.Get(contextKey)
	if !ok {
		return nil, false
	}
	authCtx, ok := value.(*AuthContext)
	return authCtx, ok
}
