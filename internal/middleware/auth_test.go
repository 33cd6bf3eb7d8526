package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"skill_console/internal/access"
	"skill_console/internal/config"
	"skill_console/internal/model"
	"skill_console/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct {
	sessions  map[string]*model.Session
	tokens    map[string]string
	loggedOut []string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{
		sessions: map[string]*model.Session{
			"hod-sid":   {SubjectID: "3", Email: "hod@example.com", Role: model.RoleHOD},
			"admin-sid": {SubjectID: "1", Email: "admin@example.com", Role: model.RoleAdmin},
			"orphan":    {SubjectID: "9", Email: "x@example.com", Role: model.RoleHR},
		},
		tokens: map[string]string{"hod-sid": "hod-token", "admin-sid": "admin-token"},
	}
}

func (f *fakeSessions) CurrentSession(ctx context.Context, sid string) *model.Session {
	return f.sessions[sid]
}

func (f *fakeSessions) Token(ctx context.Context, sid string) (string, error) {
	token, ok := f.tokens[sid]
	if !ok {
		return "", util.ErrNoSession
	}
	return token, nil
}

func (f *fakeSessions) Logout(ctx context.Context, sid string) error {
	f.loggedOut = append(f.loggedOut, sid)
	delete(f.sessions, sid)
	delete(f.tokens, sid)
	return nil
}

func testPolicy() *access.Policy {
	return access.NewPolicy(config.AccessConfig{
		LandingPaths: map[string]string{"hod": "/hod/skill-matrix"},
		FallbackPath: "/",
	}, access.DefaultRoutes())
}

func newRouter(src SessionSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SessionMiddleware(src, "console_sid"))
	r.Use(LogoutOnUnauthorized(src))

	adminHR := model.NewRoleSet(model.RoleAdmin, model.RoleHR)
	ok := func(c *gin.Context) {
		util.Success(c, gin.H{"token": util.GetTokenFromContext(c)})
	}
	r.GET("/open", ok)
	authed := r.Group("", RequireSession())
	authed.GET("/private", ok)
	authed.GET("/admin", RequireRoles(testPolicy(), adminHR), ok)
	authed.GET("/admin/print", RequireRoles(testPolicy(), adminHR), ok)
	r.GET("/proxy", func(c *gin.Context) {
		util.HandleError(c, &util.RequestError{Status: http.StatusUnauthorized, Message: "expired"})
	})
	r.GET("/login-failed", func(c *gin.Context) {
		util.HandleError(c, &util.AuthError{Reason: "credentials rejected", Err: &util.RequestError{Status: http.StatusUnauthorized}})
	})
	return r
}

func do(r http.Handler, path, sid string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "console_sid", Value: sid})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSessionMiddlewareLoadsToken(t *testing.T) {
	r := newRouter(newFakeSessions())

	w := do(r, "/private", "admin-sid")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin-token", decode(t, w)["data"].(map[string]any)["token"])

	w = do(r, "/open", "")
	assert.Equal(t, http.StatusOK, w.Code, "public routes work without a cookie")
}

func TestRequireSession(t *testing.T) {
	r := newRouter(newFakeSessions())

	assert.Equal(t, http.StatusUnauthorized, do(r, "/private", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/private", "unknown").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/private", "orphan").Code, "a session without a token is not usable")
}

func TestRequireRoles(t *testing.T) {
	r := newRouter(newFakeSessions())

	assert.Equal(t, http.StatusOK, do(r, "/admin", "admin-sid").Code)

	w := do(r, "/admin", "hod-sid")
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "/hod/skill-matrix", decode(t, w)["data"].(map[string]any)["redirect"])

	w = do(r, "/admin/print", "hod-sid")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/hod/skill-matrix", w.Header().Get("Location"))

	w = do(r, "/admin/print", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestLogoutOnBackendUnauthorized(t *testing.T) {
	src := newFakeSessions()
	r := newRouter(src)

	w := do(r, "/proxy", "hod-sid")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, []string{"hod-sid"}, src.loggedOut)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/private", "hod-sid").Code)
}

func TestLogoutIgnoresLoginFailures(t *testing.T) {
	src := newFakeSessions()
	r := newRouter(src)

	w := do(r, "/login-failed", "admin-sid")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, src.loggedOut)
}
