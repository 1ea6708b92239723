// Package admin serves the form-based content editor. Every form post edits
// the session's draft; nothing is stored until Commit.
package admin

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ashureev/folio/internal/auth"
	"github.com/ashureev/folio/internal/domain"
	"github.com/ashureev/folio/internal/site"
	"github.com/ashureev/folio/internal/store"
	"github.com/go-chi/chi/v5"
)

// Config tunes the editor.
type Config struct {
	// MaxUploadBytes caps a single image upload.
	MaxUploadBytes int64
	// SecureCookies marks the session cookie Secure.
	SecureCookies bool
}

// Handler serves /admin.
type Handler struct {
	repo     store.Repository
	sessions *auth.Manager
	rd       *site.Renderer
	cfg      Config
}

// NewHandler creates an admin handler.
func NewHandler(repo store.Repository, sessions *auth.Manager, rd *site.Renderer, cfg Config) *Handler {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 5 << 20
	}
	return &Handler{repo: repo, sessions: sessions, rd: rd, cfg: cfg}
}

// RegisterRoutes registers editor routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Get("/", h.Show)
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.Require(h.sessions, h.toLogin))

			r.Post("/logout", h.Exit)
			r.Post("/commit", h.Commit)
			r.Post("/reset", h.Reset)
			r.Post("/credentials", h.UpdateCredentials)

			r.Post("/info", h.UpdateInfo)
			r.Post("/info/image", h.UploadProfileImage)

			r.Post("/projects", h.AddProject)
			r.Post("/projects/{id}", h.UpdateProject)
			r.Post("/projects/{id}/delete", h.DeleteProject)
			r.Post("/projects/{id}/image", h.UploadProjectImage)

			r.Post("/skills/{idx}", h.UpdateSkills)

			r.Post("/experience", h.AddExperience)
			r.Post("/experience/{idx}", h.UpdateExperience)
			r.Post("/experience/{idx}/delete", h.DeleteExperience)
		})
	})
}

func (h *Handler) toLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func redirectTab(w http.ResponseWriter, r *http.Request, tab string) {
	http.Redirect(w, r, "/admin?tab="+url.QueryEscape(tab), http.StatusSeeOther)
}

// Show renders the login form or, for a signed-in admin, the editor.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.FromRequest(r)
	if s == nil {
		h.rd.Render(w, http.StatusOK, "login.html", site.LoginView{})
		return
	}

	tab := r.URL.Query().Get("tab")
	if !site.ValidTab(tab) {
		tab = site.Tabs[0]
	}
	h.renderEditor(w, r, s, http.StatusOK, tab, site.FlashMessage(r.URL.Query().Get("status")), "")
}

func (h *Handler) renderEditor(w http.ResponseWriter, r *http.Request, s *auth.Session, status int, tab, flash, errMsg string) {
	view := h.rd.Admin(r.Context(), tab, s.Username, s.Draft())
	view.Flash = flash
	view.Error = errMsg
	h.rd.Render(w, status, "admin.html", view)
}

// Login checks the submitted credentials and opens an editing session
// holding a draft of the stored portfolio.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.rd.Render(w, http.StatusBadRequest, "login.html", site.LoginView{Error: "Invalid form."})
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")

	ok, err := auth.Authenticate(r.Context(), h.repo, username, password)
	if err != nil {
		slog.Error("Failed to check admin credentials", "error", err)
		h.rd.Render(w, http.StatusInternalServerError, "login.html", site.LoginView{Error: "Credential store unavailable."})
		return
	}
	if !ok {
		slog.Warn("Admin login rejected", "username", username)
		h.rd.Render(w, http.StatusUnauthorized, "login.html", site.LoginView{Error: "Unauthorized access."})
		return
	}

	draft, err := h.repo.GetPortfolio(r.Context())
	if err != nil {
		slog.Error("Failed to load portfolio for editing", "error", err)
		h.rd.Render(w, http.StatusInternalServerError, "login.html", site.LoginView{Error: "Portfolio unavailable."})
		return
	}

	s, err := h.sessions.Open(username, draft)
	if err != nil {
		slog.Error("Failed to open admin session", "error", err)
		h.rd.Render(w, http.StatusInternalServerError, "login.html", site.LoginView{Error: "Could not start session."})
		return
	}
	auth.SetCookie(w, s, h.cfg.SecureCookies)
	redirectTab(w, r, site.Tabs[0])
}

func (h *Handler) endSession(w http.ResponseWriter, s *auth.Session) {
	h.sessions.Close(s.Token)
	auth.ClearCookie(w, h.cfg.SecureCookies)
}

// Exit discards the draft.
func (h *Handler) Exit(w http.ResponseWriter, r *http.Request) {
	h.endSession(w, auth.SessionFromContext(r.Context()))
	http.Redirect(w, r, "/?status=exited", http.StatusSeeOther)
}

// Commit stores the draft wholesale and closes the editor.
func (h *Handler) Commit(w http.ResponseWriter, r *http.Request) {
	s := auth.SessionFromContext(r.Context())
	draft := s.Draft()

	if err := h.repo.SavePortfolio(r.Context(), draft); err != nil {
		slog.Error("Failed to commit portfolio", "error", err)
		h.renderEditor(w, r, s, http.StatusInternalServerError, site.Tabs[0], "", "Save failed. Your draft is still open.")
		return
	}

	slog.Info("Portfolio committed", "username", s.Username, "projects", len(draft.Projects))
	h.endSession(w, s)
	http.Redirect(w, r, "/?status=saved", http.StatusSeeOther)
}

// Reset removes the stored portfolio and every uploaded image, then ends
// every editing session. Credentials are kept.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	s := auth.SessionFromContext(r.Context())
	if err := h.repo.ResetPortfolio(r.Context()); err != nil {
		slog.Error("Failed to reset portfolio", "error", err)
		h.renderEditor(w, r, s, http.StatusInternalServerError, "account", "", "Reset failed.")
		return
	}

	// Every open draft may point at images that no longer exist.
	closed := h.sessions.CloseAll()
	auth.ClearCookie(w, h.cfg.SecureCookies)
	slog.Info("Portfolio reset", "username", s.Username, "sessions_closed", closed)
	http.Redirect(w, r, "/?status=reset", http.StatusSeeOther)
}

// UpdateCredentials replaces the stored admin credentials.
func (h *Handler) UpdateCredentials(w http.ResponseWriter, r *http.Request) {
	s := auth.SessionFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		h.renderEditor(w, r, s, http.StatusBadRequest, "account", "", "Invalid form.")
		return
	}

	creds := domain.Credentials{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}
	switch {
	case creds.Username == "" || creds.Password == "":
		h.renderEditor(w, r, s, http.StatusBadRequest, "account", "", "Identifier and access key are required.")
		return
	case creds.Password != r.PostForm.Get("confirm"):
		h.renderEditor(w, r, s, http.StatusBadRequest, "account", "", "Access keys do not match.")
		return
	}

	if err := h.repo.SaveCredentials(r.Context(), &creds); err != nil {
		slog.Error("Failed to save credentials", "error", err)
		h.renderEditor(w, r, s, http.StatusInternalServerError, "account", "", "Could not save credentials.")
		return
	}

	slog.Info("Admin credentials changed", "username", creds.Username)
	http.Redirect(w, r, "/admin?tab=account&status=credentials", http.StatusSeeOther)
}

// edit applies fn to the session draft and redirects back to tab. Unknown
// records render the editor with a 404.
func (h *Handler) edit(w http.ResponseWriter, r *http.Request, tab string, fn func(p *domain.Portfolio) error) {
	s := auth.SessionFromContext(r.Context())
	if err := s.Edit(fn); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrProjectNotFound) ||
			errors.Is(err, domain.ErrExperienceNotFound) ||
			errors.Is(err, domain.ErrSkillGroupNotFound) {
			status = http.StatusNotFound
		}
		h.renderEditor(w, r, s, status, tab, "", err.Error())
		return
	}
	redirectTab(w, r, tab)
}

func indexParam(r *http.Request) (int, error) {
	idx, err := strconv.Atoi(chi.URLParam(r, "idx"))
	if err != nil {
		return -1, errors.New("invalid index")
	}
	return idx, nil
}
