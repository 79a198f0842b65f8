package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ashutosh-Mohanty/wowb/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type memoryStore struct {
	sessions map[string]*Session
}

func (m *memoryStore) Create(_ context.Context, p Principal) (*Session, error) {
	s := &Session{ID: "sess-" + p.Subject(), Principal: p}
	m.sessions[s.ID] = s
	return s, nil
}

func (m *memoryStore) Get(_ context.Context, id string) (*Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func newRouter(store Store, roles ...auth.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware(testSecret, store))
	if len(roles) > 0 {
		router.Use(RequireRole(roles...))
	}
	router.GET("/protected", func(c *gin.Context) {
		sess, _ := FromContext(c)
		c.JSON(http.StatusOK, gin.H{"subject": sess.Principal.Subject()})
	})
	return router
}

func tokenFor(t *testing.T, store Store, p Principal) string {
	sess, err := store.Create(context.Background(), p)
	require.NoError(t, err)
	token, err := auth.GenerateToken(sess.ID, p.Subject(), p.Role, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func do(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMiddleware_ValidSession(t *testing.T) {
	store := &memoryStore{sessions: map[string]*Session{}}
	token := tokenFor(t, store, NewManager("GYM001", "Iron Temple"))

	w := do(newRouter(store), token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "GYM001")
}

func TestMiddleware_MissingToken(t *testing.T) {
	store := &memoryStore{sessions: map[string]*Session{}}

	w := do(newRouter(store), "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_InvalidToken(t *testing.T) {
	store := &memoryStore{sessions: map[string]*Session{}}

	w := do(newRouter(store), "invalid-token")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_LoggedOutSession(t *testing.T) {
	store := &memoryStore{sessions: map[string]*Session{}}
	token := tokenFor(t, store, NewManager("GYM001", "Iron Temple"))
	require.NoError(t, store.Delete(context.Background(), "sess-GYM001"))

	w := do(newRouter(store), token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	store := &memoryStore{sessions: map[string]*Session{}}
	admin := tokenFor(t, store, NewAdmin("Platform Admin"))
	member := tokenFor(t, store, NewMember("9876543210", "GYM001", "Asha"))

	router := newRouter(store, auth.RoleSuperAdmin)

	assert.Equal(t, http.StatusOK, do(router, admin).Code)
	assert.Equal(t, http.StatusForbidden, do(router, member).Code)
}

func TestManagerFrom(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := ManagerFrom(c)
	assert.False(t, ok)

	c.Set(contextKey, &Session{ID: "s", Principal: NewManager("GYM001", "Iron Temple")})
	m, ok := ManagerFrom(c)
	require.True(t, ok)
	assert.Equal(t, "GYM001", m.TenantID)

	_, ok = MemberFrom(c)
	assert.False(t, ok)
}
