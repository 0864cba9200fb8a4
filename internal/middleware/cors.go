package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jornageo/registration/pkg/response"
)

const (
	// AllowHeaders is the request header list browsers may send through API Gateway.
	AllowHeaders = "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token"
	// AllowMethods is the set of methods the form endpoint answers.
	AllowMethods = "GET,POST,OPTIONS"
)

// CORSHeaders returns the headers set on every response for origin "*".
func CORSHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": AllowHeaders,
		"Access-Control-Allow-Methods": AllowMethods,
	}
}

// CORS sets CORS headers on every response and answers preflight requests with 200.
// AllowedOrigins can be "*" or a comma-separated list (e.g. "https://jornageo.example").
func CORS(allowedOrigins string) gin.HandlerFunc {
	origins := parseOrigins(allowedOrigins)
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowOrigin := ""
		if len(origins) == 0 || origins["*"] {
			allowOrigin = "*"
		} else if origin != "" && origins[origin] {
			allowOrigin = origin
			c.Header("Vary", "Origin")
		}
		if allowOrigin != "" {
			c.Header("Access-Control-Allow-Origin", allowOrigin)
			c.Header("Access-Control-Allow-Headers", AllowHeaders)
			c.Header("Access-Control-Allow-Methods", AllowMethods)
		}
		if c.Request.Method == http.MethodOptions {
			response.Message(c, "CORS preflight")
			c.Abort()
			return
		}
		c.Next()
	}
}

func parseOrigins(s string) map[string]bool {
	m := make(map[string]bool)
	for _, o := range strings.Split(strings.TrimSpace(s), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			m[o] = true
		}
	}
	return m
}
