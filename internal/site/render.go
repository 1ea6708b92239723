package site

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ashureev/folio/internal/content"
	"github.com/ashureev/folio/internal/domain"
	"github.com/ashureev/folio/web"
)

// Admin editor tabs, in display order.
var Tabs = []string{"info", "projects", "skills", "experience"}

// ProjectView is a project with its image resolved for display.
type ProjectView struct {
	domain.Project
	ImageURL     string
	LearningHTML template.HTML
}

// PageView is the data behind the public page.
type PageView struct {
	Info         domain.PersonalInfo
	FirstName    string
	LastName     string
	IntroHTML    template.HTML
	ProfileImage string
	Projects     []ProjectView
	Skills       []domain.SkillGroup
	Experience   []domain.Experience
	Education    []domain.EducationEntry
	Flash        string
	Year         int
}

// AdminView is the data behind the editor.
type AdminView struct {
	Tab          string
	Tabs         []string
	Username     string
	Draft        *domain.Portfolio
	ProfileImage string
	Projects     []ProjectView
	Flash        string
	Error        string
}

// LoginView is the data behind the login form.
type LoginView struct {
	Error string
}

// Renderer executes the embedded page templates.
type Renderer struct {
	tmpl     *template.Template
	resolver *Resolver
}

// NewRenderer parses the page templates.
func NewRenderer(resolver *Resolver) (*Renderer, error) {
	tmpl, err := web.Templates(template.FuncMap{
		"join":     strings.Join,
		"markdown": content.RenderMarkdown,
	})
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl, resolver: resolver}, nil
}

// splitName splits "First Last Names" at the first space.
func splitName(name string) (first, rest string) {
	name = strings.TrimSpace(name)
	if i := strings.IndexByte(name, ' '); i >= 0 {
		return name[:i], strings.TrimSpace(name[i+1:])
	}
	return name, ""
}

func (rd *Renderer) projectViews(ctx context.Context, projects []domain.Project) []ProjectView {
	views := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, ProjectView{
			Project:      p,
			ImageURL:     rd.resolver.ImageURL(ctx, p.ImageURL),
			LearningHTML: content.RenderMarkdown(p.Learning),
		})
	}
	return views
}

// Page builds the public page view for p.
func (rd *Renderer) Page(ctx context.Context, p *domain.Portfolio, flash string) PageView {
	first, last := splitName(p.PersonalInfo.Name)
	return PageView{
		Info:         p.Public().PersonalInfo,
		FirstName:    first,
		LastName:     last,
		IntroHTML:    content.RenderMarkdown(p.PersonalInfo.Intro),
		ProfileImage: rd.resolver.ImageURL(ctx, p.PersonalInfo.ProfileImageURL),
		Projects:     rd.projectViews(ctx, p.Projects),
		Skills:       p.Skills,
		Experience:   p.Experience,
		Education:    p.Education,
		Flash:        flash,
		Year:         time.Now().Year(),
	}
}

// Admin builds the editor view for a draft.
func (rd *Renderer) Admin(ctx context.Context, tab, username string, draft *domain.Portfolio) AdminView {
	return AdminView{
		Tab:          tab,
		Tabs:         Tabs,
		Username:     username,
		Draft:        draft,
		ProfileImage: rd.resolver.ImageURL(ctx, draft.PersonalInfo.ProfileImageURL),
		Projects:     rd.projectViews(ctx, draft.Projects),
	}
}

// Render executes the named template into w with the given status.
// Output is buffered so a template error never leaves a half-written page.
func (rd *Renderer) Render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := rd.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("Failed to render template", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("Failed to write page", "template", name, "error", err)
	}
}

// ValidTab reports whether tab names an editor tab.
func ValidTab(tab string) bool {
	for _, t := range Tabs {
		if t == tab {
			return true
		}
	}
	return tab == "account"
}

// FlashMessage maps a status query value to its banner text.
func FlashMessage(status string) string {
	switch status {
	case "saved":
		return "System state updated."
	case "reset":
		return "Content reset to defaults."
	case "exited":
		return "Changes discarded."
	case "credentials":
		return "Access keys updated."
	}
	return ""
}
