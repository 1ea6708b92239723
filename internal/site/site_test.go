package site

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ashureev/folio/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const placeholder = "https://picsum.photos/800/450"

type fakeImages map[string]bool

func (f fakeImages) HasImage(_ context.Context, id string) (bool, error) {
	return f[id], nil
}

type fakeSource struct {
	p   *domain.Portfolio
	err error
}

func (f fakeSource) GetPortfolio(context.Context) (*domain.Portfolio, error) {
	return f.p, f.err
}

func TestResolver_Portfolio(t *testing.T) {
	res := NewResolver(fakeImages{"profile-1": true}, placeholder)

	p := domain.DefaultPortfolio()
	p.PersonalInfo.ProfileImageURL = domain.LocalImageRef("profile-1")
	p.Projects[0].ImageURL = domain.LocalImageRef("project-missing")
	p.Projects[1].ImageURL = ""
	remote := p.Projects[2].ImageURL

	out := res.Portfolio(context.Background(), p)

	assert.Equal(t, "/images/profile-1", out.PersonalInfo.ProfileImageURL)
	assert.Equal(t, placeholder, out.Projects[0].ImageURL)
	assert.Empty(t, out.Projects[1].ImageURL)
	assert.Equal(t, remote, out.Projects[2].ImageURL)

	// The input keeps its references.
	assert.Equal(t, domain.LocalImageRef("profile-1"), p.PersonalInfo.ProfileImageURL)
}

func TestSplitName(t *testing.T) {
	first, rest := splitName("Alex Rivera")
	assert.Equal(t, "Alex", first)
	assert.Equal(t, "Rivera", rest)

	first, rest = splitName("Cher")
	assert.Equal(t, "Cher", first)
	assert.Empty(t, rest)

	first, rest = splitName("Mary Ann  Evans ")
	assert.Equal(t, "Mary", first)
	assert.Equal(t, "Ann  Evans", rest)
}

func newRenderer(t *testing.T, images fakeImages) *Renderer {
	t.Helper()
	rd, err := NewRenderer(NewResolver(images, placeholder))
	require.NoError(t, err)
	return rd
}

func TestHome_RendersContent(t *testing.T) {
	p := domain.DefaultPortfolio()
	p.PersonalInfo.TelegramBotToken = "123:secret"
	p.Projects[0].ImageURL = domain.LocalImageRef("project-abc")

	r := chi.NewRouter()
	NewHandler(fakeSource{p: p}, newRenderer(t, fakeImages{"project-abc": true})).RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?status=saved", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, body, "Alex")
	assert.Contains(t, body, "Rivera")
	assert.Contains(t, body, p.Projects[1].Title)
	assert.Contains(t, body, "/images/project-abc")
	assert.Contains(t, body, "<strong>dependable software infrastructure</strong>")
	assert.Contains(t, body, "System state updated.")
	assert.NotContains(t, body, "123:secret")
}

func TestHome_LoadFailure(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(fakeSource{err: errors.New("disk gone")}, newRenderer(t, nil)).RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAdminTemplate_AllTabsRender(t *testing.T) {
	rd := newRenderer(t, nil)
	draft := domain.DefaultPortfolio()

	for _, tab := range append(append([]string{}, Tabs...), "account") {
		t.Run(tab, func(t *testing.T) {
			view := rd.Admin(context.Background(), tab, "admin", draft)
			w := httptest.NewRecorder()
			rd.Render(w, http.StatusOK, "admin.html", view)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), "Admin Core")
		})
	}
}

func TestLoginTemplate_ShowsError(t *testing.T) {
	rd := newRenderer(t, nil)
	w := httptest.NewRecorder()
	rd.Render(w, http.StatusUnauthorized, "login.html", LoginView{Error: "Unauthorized access."})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized access.")
}

func TestValidTabAndFlash(t *testing.T) {
	assert.True(t, ValidTab("skills"))
	assert.True(t, ValidTab("account"))
	assert.False(t, ValidTab("billing"))
	assert.Equal(t, "System state updated.", FlashMessage("saved"))
	assert.Empty(t, FlashMessage("whatever"))
}
