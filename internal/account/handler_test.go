package account

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ashutosh-Mohanty/wowb/internal/session"
	"github.com/Ashutosh-Mohanty/wowb/internal/tenant"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(store *memoryStore, tenants stubTenants) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(newTestService(store, tenants))

	r := gin.New()
	r.POST("/auth/login", h.Login)
	protected := r.Group("/")
	protected.Use(session.Middleware(testSecret, store))
	protected.POST("/auth/logout", h.Logout)
	protected.GET("/me", h.GetMe)
	return r
}

func postLogin(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_LoginMeLogout(t *testing.T) {
	store := newMemoryStore()
	router := setupRouter(store, defaultTenants())

	w := postLogin(t, router, `{"role":"MANAGER","gym_id":"GYM001","password":"gym-secret"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var login LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.AccessToken)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "GYM001")

	req = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_Login_Errors(t *testing.T) {
	tests := []struct {
		name    string
		tenants stubTenants
		body    string
		code    int
	}{
		{"bad json", defaultTenants(), `{"role":`, http.StatusBadRequest},
		{"unknown role", defaultTenants(), `{"role":"TRAINER","password":"x"}`, http.StatusBadRequest},
		{"missing gym", defaultTenants(), `{"role":"MEMBER","username":"M-1","password":"1234"}`, http.StatusBadRequest},
		{"bad credentials", defaultTenants(), `{"role":"SUPER_ADMIN","username":"super","password":"x"}`, http.StatusUnauthorized},
		{"paused", stubTenants{accessErr: tenant.ErrTenantPaused}, `{"role":"MANAGER","gym_id":"GYM001","password":"gym-secret"}`, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(newMemoryStore(), tt.tenants)
			w := postLogin(t, router, tt.body)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}
