package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-for-middleware"

func setupMiddlewareTest() (*gin.Engine, *AuthMiddleware) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	middleware := NewAuthMiddleware(testJWTSecret)
	return router, middleware
}

func generateTestToken(t *testing.T, userID uint, expiry time.Duration) string {
	token, err := util.GenerateToken(userID, "cook@example.com", testJWTSecret, expiry)
	require.NoError(t, err)
	return token
}

func principalHandler(c *gin.Context) {
	principal := GetPrincipal(c)
	c.JSON(http.StatusOK, gin.H{
		"user_id":   principal.UserID,
		"anonymous": principal.IsAnonymous(),
	})
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errors.ErrorResponse {
	var body errors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest()
	router.GET("/test", authMiddleware.Authenticate(), principalHandler)

	tests := []struct {
		name       string
		header     string
		query      string
		wantStatus int
		wantCode   string
	}{
		{"valid header", "Bearer " + generateTestToken(t, 7, time.Minute), "", http.StatusOK, ""},
		{"valid query token", "", generateTestToken(t, 7, time.Minute), http.StatusOK, ""},
		{"no token", "", "", http.StatusUnauthorized, errors.AuthUnauthorized},
		{"wrong scheme", "Token abc", "", http.StatusUnauthorized, errors.AuthTokenInvalid},
		{"missing token part", "Bearer", "", http.StatusUnauthorized, errors.AuthTokenInvalid},
		{"garbage token", "Bearer not-a-jwt", "", http.StatusUnauthorized, errors.AuthTokenInvalid},
		{"expired token", "Bearer " + generateTestToken(t, 7, -time.Minute), "", http.StatusUnauthorized, errors.AuthTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/test"
			if tt.query != "" {
				target += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, w).Error)
			} else {
				assert.JSONEq(t, `{"user_id": 7, "anonymous": false}`, w.Body.String())
			}
		})
	}
}

func TestAuthMiddleware_OptionalAuthenticate(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest()
	router.GET("/test", authMiddleware.OptionalAuthenticate(), principalHandler)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"valid token", "Bearer " + generateTestToken(t, 3, time.Minute), `{"user_id": 3, "anonymous": false}`},
		{"no token", "", `{"user_id": 0, "anonymous": true}`},
		{"invalid token", "Bearer broken", `{"user_id": 0, "anonymous": true}`},
		{"wrong scheme", "Basic abc", `{"user_id": 0, "anonymous": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetUserID(c)
	assert.False(t, ok)

	c.Set(UserIDKey, uint(5))
	id, ok := GetUserID(c)
	assert.True(t, ok)
	assert.Equal(t, uint(5), id)

	c.Set(UserEmailKey, "cook@example.com")
	email, ok := GetUserEmail(c)
	assert.True(t, ok)
	assert.Equal(t, "cook@example.com", email)
}
