package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-authgate/idgate/internal/cache"
	"github.com/go-authgate/idgate/internal/identity"
	"github.com/go-authgate/idgate/internal/kit"
	"github.com/go-authgate/idgate/internal/metrics"
	"github.com/go-authgate/idgate/internal/middleware"
	"github.com/go-authgate/idgate/internal/services"
	"github.com/go-authgate/idgate/internal/store"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testResumeCookie = "ory_kratos_session"

// recordingKit captures everything forwarded to it.
type recordingKit struct {
	mu       sync.Mutex
	screens  []string
	events   []kit.Event
	commerce []kit.CommerceEvent
	attrs    map[string]any
}

func (k *recordingKit) Name() string { return "recording" }

func (k *recordingKit) LogScreen(_ context.Context, _ identity.User, name string, _ map[string]string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.screens = append(k.screens, name)
	return nil
}

func (k *recordingKit) LogEvent(_ context.Context, _ identity.User, event kit.Event) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.events = append(k.events, event)
	return nil
}

func (k *recordingKit) LogCommerceEvent(_ context.Context, _ identity.User, event kit.CommerceEvent) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.commerce = append(k.commerce, event)
	return nil
}

func (k *recordingKit) OnSetUserAttribute(_ context.Context, _ identity.User, key string, value any) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.attrs == nil {
		k.attrs = map[string]any{}
	}
	k.attrs[key] = value
	return nil
}

func (k *recordingKit) WillHandlePushMessage(payload map[string]string) bool {
	_, ok := payload[kit.AttrMessageUUID]
	return ok
}

func (k *recordingKit) OnPushMessageReceived(context.Context, identity.User, map[string]string) error {
	return nil
}

func (k *recordingKit) OnPushRegistration(context.Context, identity.User, string) bool { return false }

func (k *recordingKit) Shutdown(context.Context) error { return nil }

type testEnv struct {
	store  *store.Store
	login  *services.LoginService
	events *services.EventService
	kit    *recordingKit
	router *gin.Engine
}

// newTestEnv wires the web and API routes the way the server does, minus
// CSRF protection, around provider. A nil lookup uses the login service.
func newTestEnv(t *testing.T, provider func(*store.Store) identity.Provider, lookup middleware.SessionLookup) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := store.New("sqlite", filepath.Join(t.TempDir(), "handlers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	if provider == nil {
		provider = func(s *store.Store) identity.Provider { return identity.NewLocalProvider(s, false) }
	}

	audit := services.NewAuditService(db, true, 100)
	t.Cleanup(func() { _ = audit.Shutdown(context.Background()) })

	login := services.NewLoginService(
		db,
		provider(db),
		identity.NewTokenIssuer("test-secret", "idgate-test", time.Hour),
		cache.NewMemoryCache[identity.Session](),
		time.Minute,
		metrics.NewNoopMetrics(),
		audit,
	)
	rec := &recordingKit{}
	events := services.NewEventService(audit, rec)
	if lookup == nil {
		lookup = login
	}

	r := gin.New()
	r.Use(sessions.Sessions("idgate_test", cookie.NewStore([]byte("cookie-secret"))))
	r.Use(middleware.DeviceMiddleware(), middleware.LoadSession(lookup))

	loginHandler := NewLoginHandler(login, testResumeCookie)
	dashboard := NewDashboardHandler(login, events)
	identityAPI := NewIdentityAPIHandler(login)
	eventAPI := NewEventAPIHandler(events)
	auditHandler := NewAuditHandler(audit)

	r.GET("/login", loginHandler.ShowLogin)
	r.POST("/login", loginHandler.Login)

	protected := r.Group("", middleware.RequireSession())
	protected.GET("/dashboard", dashboard.Show)
	protected.POST("/dashboard/events", dashboard.LogEvent)
	protected.POST("/dashboard/purchase", dashboard.LogPurchase)
	protected.POST("/logout", dashboard.Logout)

	api := r.Group("/api/v1")
	api.GET("/identity/current", identityAPI.Current)
	api.POST("/identity/login", identityAPI.Login)
	api.POST("/identity/identify", identityAPI.Identify)
	api.POST("/identity/logout", middleware.RequireAPISession(), identityAPI.Logout)
	api.POST("/identity/modify", identityAPI.Modify)
	api.POST("/events", eventAPI.LogEvent)
	api.POST("/events/commerce", eventAPI.LogCommerceEvent)
	api.POST("/events/attributes", eventAPI.SetUserAttribute)
	api.POST("/push/registration", eventAPI.RegisterPush)
	api.POST("/push/message", eventAPI.PushMessage)
	api.GET("/audit", auditHandler.ListAuditLogs)
	api.GET("/audit/export", auditHandler.ExportAuditLogs)

	return &testEnv{store: db, login: login, events: events, kit: rec, router: r}
}

// browser keeps cookies between requests like a user agent would.
type browser struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, r *gin.Engine) *browser {
	return &browser{t: t, router: r, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, ck := range b.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	b.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		b.cookies[ck.Name] = ck
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) setCookie(name, value string) {
	b.cookies[name] = &http.Cookie{Name: name, Value: value}
}

func jsonRequest(method, path, body, token string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// emailIs matches an identity.Request by its email only.
type emailIs string

func (m emailIs) Matches(x any) bool {
	req, ok := x.(identity.Request)
	return ok && req.Email == string(m)
}

func (m emailIs) String() string {
	return fmt.Sprintf("request with email %q", string(m))
}
