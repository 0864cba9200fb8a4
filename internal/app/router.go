package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jornageo/registration/internal/auth"
	"github.com/jornageo/registration/internal/metrics"
	"github.com/jornageo/registration/internal/middleware"
	"github.com/jornageo/registration/internal/registrations"
	"github.com/jornageo/registration/pkg/response"
)

// RouterOptions configures the shared gin engine.
type RouterOptions struct {
	CORSAllowedOrigins string
	// Admin, when set, requires an admin bearer token for GET.
	Admin   *auth.JWTService
	Metrics *metrics.Metrics
}

// NewRouter builds the engine used by both the Lambda and the standalone server.
// Every path is served by the registrations handler; the method decides the action.
func NewRouter(h *registrations.Handler, logger *zap.Logger, opts RouterOptions) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	router := gin.New()
	router.Use(gin.CustomRecovery(func(c *gin.Context, rec any) {
		logger.Error("panic recovered", zap.Any("panic", rec), zap.String("path", c.Request.URL.Path))
		response.Internal(c, "Internal server error")
		c.Abort()
	}))
	router.Use(middleware.CORS(opts.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Collect())
	}

	var chain []gin.HandlerFunc
	if opts.Admin != nil {
		get := []string{http.MethodGet}
		chain = append(chain,
			middleware.ForMethods(get, middleware.JWT(opts.Admin)),
			middleware.ForMethods(get, middleware.RequireRole(auth.RoleAdmin)),
		)
	}
	chain = append(chain, h.Dispatch)
	router.NoRoute(chain...)
	return router
}
