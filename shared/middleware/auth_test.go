package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(LoggingMiddleware(), GatewayIdentity(DefaultGatewayHeaders))
	r.GET("/user", RequireUser(), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		c.String(http.StatusOK, userID)
	})
	r.GET("/admin", RequireRole("Admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(router *gin.Engine, path string, headers map[string]string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireUser(t *testing.T) {
	tests := []struct {
		name           string
		headers        map[string]string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success - identity header present",
			headers:        map[string]string{"X-User": "alice"},
			expectedStatus: http.StatusOK,
			expectedBody:   "alice",
		},
		{
			name:           "unauthorized - identity header missing",
			headers:        nil,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unauthorized - identity header blank",
			headers:        map[string]string{"X-User": "   "},
			expectedStatus: http.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(newAuthTestRouter(), "/user", tt.headers)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedBody != "" {
				assert.Equal(t, tt.expectedBody, w.Body.String())
			}
			assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name           string
		headers        map[string]string
		expectedStatus int
	}{
		{"success - admin role", map[string]string{"X-Role": "Admin"}, http.StatusOK},
		{"forbidden - no role", map[string]string{"X-User": "alice"}, http.StatusForbidden},
		{"forbidden - other role", map[string]string{"X-User": "alice", "X-Role": "User"}, http.StatusForbidden},
		{"forbidden - role is case sensitive", map[string]string{"X-Role": "admin"}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(newAuthTestRouter(), "/admin", tt.headers)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}
}

func TestLoggingMiddleware_PropagatesRequestID(t *testing.T) {
	w := doRequest(newAuthTestRouter(), "/user", map[string]string{
		"X-User":        "alice",
		RequestIDHeader: "req-123",
	})
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
}

func TestGatewayIdentity_CustomHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GatewayIdentity(GatewayHeaders{Identity: "X-User-ID", Role: "X-User-Role"}))
	r.GET("/whoami", func(c *gin.Context) {
		p, _ := GetPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"user": p.UserID, "role": p.Role})
	})

	w := doRequest(r, "/whoami", map[string]string{"X-User-ID": "usr-001", "X-User-Role": "Admin"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"usr-001","role":"Admin"}`, w.Body.String())
}
