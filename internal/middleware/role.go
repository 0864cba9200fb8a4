package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jornageo/registration/internal/auth"
	"github.com/jornageo/registration/pkg/response"
)

// RequireRole allows only tokens whose role is one of roles. It must run after JWT.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{})
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		v, _ := c.Get(ContextClaims)
		claims, ok := v.(*auth.Claims)
		if !ok {
			response.Unauthorized(c, "Missing bearer token")
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Forbidden(c, "Insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ForMethods applies mw only to the listed methods and passes every other request through.
func ForMethods(methods []string, mw gin.HandlerFunc) gin.HandlerFunc {
	set := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		set[m] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := set[c.Request.Method]; !ok {
			c.Next()
			return
		}
		mw(c)
	}
}
