package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-management-backend/app/model"
	"task-management-backend/app/service"
	"task-management-backend/middleware"
	"task-management-backend/utils"
)

func newRouter(t *testing.T) (*gin.Engine, *utils.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := utils.NewTokenManager("rahasia-test", time.Hour)
	require.NoError(t, err)
	auth := service.NewAuthService(nil, tokens, nil)

	r := gin.New()
	r.Use(middleware.CORSMiddleware([]string{"http://localhost:3000"}))
	r.GET("/me", middleware.AuthMiddleware(auth), func(c *gin.Context) {
		actor, ok := middleware.CurrentActor(c)
		require.True(t, ok)
		assert.Equal(t, actor.ID, c.MustGet(middleware.ContextUserID))
		c.JSON(http.StatusOK, actor)
	})
	return r, tokens
}

func TestAuthMiddleware(t *testing.T) {
	r, tokens := newRouter(t)
	id := uuid.New()
	token, err := tokens.GenerateToken(id, "1001", model.RoleTeacher)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"tanpa header", "", http.StatusUnauthorized},
		{"bukan bearer", "Basic abc", http.StatusUnauthorized},
		{"token rusak", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"token valid", "Bearer " + token, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tc.code, rec.Code)
			if tc.code == http.StatusOK {
				assert.Contains(t, rec.Body.String(), id.String())
				assert.Contains(t, rec.Body.String(), `"role":"teacher"`)
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	r, _ := newRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/me", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/me", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
