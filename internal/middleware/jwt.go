package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jornageo/registration/internal/auth"
	"github.com/jornageo/registration/pkg/response"
)

// ContextClaims is the gin context key holding the validated *auth.Claims.
const ContextClaims = "admin_claims"

// JWT rejects requests without a valid bearer token signed by jwtService.
func JWT(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Unauthorized(c, "Missing bearer token")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(token)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
