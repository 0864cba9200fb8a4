package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jornageo/registration/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r http.Handler, method, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"Bearer", "", false},
		{"Bearer   ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := bearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.want, got, tt.header)
	}
}

// TestAdminGuard_OnlyOnListedMethods verifies the guard runs for GET and leaves POST open.
func TestAdminGuard_OnlyOnListedMethods(t *testing.T) {
	jwtSvc := auth.NewJWTService("secret", 1)
	get := []string{http.MethodGet}

	r := gin.New()
	var seenRole string
	r.NoRoute(
		ForMethods(get, JWT(jwtSvc)),
		ForMethods(get, RequireRole(auth.RoleAdmin)),
		func(c *gin.Context) {
			if v, ok := c.Get(ContextClaims); ok {
				seenRole = v.(*auth.Claims).Role
			}
			c.Status(http.StatusNoContent)
		},
	)

	require.Equal(t, http.StatusNoContent, serve(r, http.MethodPost, "").Code)
	require.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "").Code)
	require.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "Bearer junk").Code)

	other, err := auth.NewJWTService("other-secret", 1).Generate("ops@jornageo.org", auth.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "Bearer "+other).Code)

	viewer, err := jwtSvc.Generate("ops@jornageo.org", "viewer")
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "Bearer "+viewer).Code)

	admin, err := jwtSvc.Generate("ops@jornageo.org", auth.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, serve(r, http.MethodGet, "Bearer "+admin).Code)
	require.Equal(t, auth.RoleAdmin, seenRole)
}

func TestRequireRole_WithoutClaims(t *testing.T) {
	r := gin.New()
	r.NoRoute(RequireRole(auth.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	require.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "").Code)
}

func TestCORS_PreflightStopsChain(t *testing.T) {
	r := gin.New()
	r.Use(CORS("*"))
	reached := false
	r.NoRoute(func(c *gin.Context) { reached = true })

	w := serve(r, http.MethodOptions, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, reached)
	for k, v := range CORSHeaders() {
		assert.Equal(t, v, w.Header().Get(k), k)
	}
}
