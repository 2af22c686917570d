package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_backend/internal/models"
	"stock_backend/pkg/utils"
)

var testSecret = []byte("middleware-secret")

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", handlers...)
	return r
}

func echoActor(c *gin.Context) {
	c.JSON(http.StatusOK, ActorFromContext(c))
}

func TestAuthMiddleware(t *testing.T) {
	token, err := utils.GenerateAccessToken(testSecret, time.Hour, "a1", "marta", "admin", "Marta")
	require.NoError(t, err)
	expired, err := utils.GenerateAccessToken(testSecret, -time.Minute, "a1", "marta", "admin", "Marta")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(AuthMiddleware(testSecret), echoActor)
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAuthMiddleware_SetsActor(t *testing.T) {
	token, err := utils.GenerateAccessToken(testSecret, time.Hour, "a1", "marta", "admin", "Marta")
	require.NoError(t, err)

	r := newTestRouter(AuthMiddleware(testSecret), echoActor)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var actor models.Actor
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &actor))
	assert.Equal(t, models.Actor{ID: "a1", Name: "Marta", Role: "admin"}, actor)
}

func TestRoleAuthMiddleware(t *testing.T) {
	for _, role := range []string{"admin", "viewer"} {
		token, err := utils.GenerateAccessToken(testSecret, time.Hour, "a1", "marta", role, "Marta")
		require.NoError(t, err)

		r := newTestRouter(AuthMiddleware(testSecret), RoleAuthMiddleware("Admin"), echoActor)
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if role == "admin" {
			assert.Equal(t, http.StatusOK, w.Code)
		} else {
			assert.Equal(t, http.StatusForbidden, w.Code)
		}
	}
}
