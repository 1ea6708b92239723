//nolint:revive // "api" package name is intentionally concise for this layer.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ashureev/folio/internal/auth"
	"github.com/ashureev/folio/internal/domain"
	"github.com/ashureev/folio/internal/site"
	"github.com/ashureev/folio/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const placeholder = "https://picsum.photos/800/450"

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"foo": "bar"}

	JSON(w, http.StatusOK, data)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if got["foo"] != "bar" {
		t.Errorf("Expected foo=bar, got %v", got["foo"])
	}
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, http.StatusTeapot, "short and stout")

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"short and stout"}`, w.Body.String())
}

type testServer struct {
	repo     *store.SQLiteStore
	sessions *auth.Manager
	router   chi.Router
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	repo, err := store.NewSQLite(store.MemoryPath, store.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	sessions := auth.NewManager(time.Hour)
	base := NewHandler(repo, site.NewResolver(repo, placeholder))

	r := chi.NewRouter()
	NewHealthHandler(repo).RegisterHealth(r)
	NewPortfolioHandler(base, sessions).RegisterRoutes(r)
	NewImageHandler(base).RegisterRoutes(r)

	return &testServer{repo: repo, sessions: sessions, router: r}
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) adminCookie(t *testing.T) *http.Cookie {
	t.Helper()
	s, err := ts.sessions.Open("admin", domain.DefaultPortfolio())
	require.NoError(t, err)
	return &http.Cookie{Name: auth.CookieName, Value: s.Token}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"ok"`)

	require.NoError(t, ts.repo.Close())
	w = ts.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "degraded")
}

func TestGetPublic_HidesTelegramAndResolvesImages(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	p := domain.DefaultPortfolio()
	p.PersonalInfo.TelegramBotToken = "123:secret"
	p.PersonalInfo.TelegramChatID = "42"
	p.PersonalInfo.ProfileImageURL = domain.LocalImageRef("profile-x")
	p.Projects[0].ImageURL = domain.LocalImageRef("project-gone")
	require.NoError(t, ts.repo.SavePortfolio(ctx, p))
	require.NoError(t, ts.repo.PutImage(ctx, &domain.Image{ID: "profile-x", ContentType: "image/png", Data: []byte{1}}))

	w := ts.do(httptest.NewRequest(http.MethodGet, "/api/portfolio", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var got domain.Portfolio
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Empty(t, got.PersonalInfo.TelegramBotToken)
	assert.Empty(t, got.PersonalInfo.TelegramChatID)
	assert.Equal(t, "/images/profile-x", got.PersonalInfo.ProfileImageURL)
	assert.Equal(t, placeholder, got.Projects[0].ImageURL)
}

func TestAdminPortfolio_RequiresSession(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(httptest.NewRequest(http.MethodGet, "/api/admin/portfolio", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(httptest.NewRequest(http.MethodPut, "/api/admin/portfolio", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminPortfolio_PutThenGet(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.adminCookie(t)

	body := `{"personalInfo":{"name":"Sam Okafor","telegramChatId":"7"},"projects":[{"id":"p1","title":"Only"}]}`
	req := httptest.NewRequest(http.MethodPut, "/api/admin/portfolio", strings.NewReader(body))
	req.AddCookie(cookie)
	w := ts.do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/admin/portfolio", nil)
	req.AddCookie(cookie)
	w = ts.do(req)
	require.Equal(t, http.StatusOK, w.Code)

	var got domain.Portfolio
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "Sam Okafor", got.PersonalInfo.Name)
	assert.Equal(t, "7", got.PersonalInfo.TelegramChatID)
	require.Len(t, got.Projects, 1)
	assert.Equal(t, "Only", got.Projects[0].Title)
	assert.NotNil(t, got.Projects[0].Technologies)

	s := ts.sessions.Get(cookie.Value)
	require.NotNil(t, s)
	assert.Equal(t, "Sam Okafor", s.Draft().PersonalInfo.Name)
}

func TestAdminPortfolio_PutRejectsGarbage(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.adminCookie(t)

	for _, body := range []string{`{"personalInfo":`, `{"unknownField":1}`} {
		req := httptest.NewRequest(http.MethodPut, "/api/admin/portfolio", strings.NewReader(body))
		req.AddCookie(cookie)
		assert.Equal(t, http.StatusBadRequest, ts.do(req).Code, body)
	}
}

func TestServeImage(t *testing.T) {
	ts := newTestServer(t)
	data := []byte("\x89PNG\r\n\x1a\nfake")
	require.NoError(t, ts.repo.PutImage(context.Background(), &domain.Image{ID: "project-1", ContentType: "image/png", Data: data}))

	w := ts.do(httptest.NewRequest(http.MethodGet, "/images/project-1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, data, w.Body.Bytes())

	w = ts.do(httptest.NewRequest(http.MethodGet, "/images/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
