package admin

import (
	"net/http"

	"github.com/ashureev/folio/internal/auth"
	"github.com/ashureev/folio/internal/domain"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request, tab string) bool {
	if err := r.ParseForm(); err != nil {
		h.renderEditor(w, r, auth.SessionFromContext(r.Context()), http.StatusBadRequest, tab, "", "Invalid form.")
		return false
	}
	return true
}

// UpdateInfo replaces the personal info fields present in the form.
func (h *Handler) UpdateInfo(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r, "info") {
		return
	}
	f := r.PostForm
	h.edit(w, r, "info", func(p *domain.Portfolio) error {
		info := &p.PersonalInfo
		set := func(dst *string, key string) {
			if _, ok := f[key]; ok {
				*dst = f.Get(key)
			}
		}
		set(&info.Name, "name")
		set(&info.Tagline, "tagline")
		set(&info.Intro, "intro")
		set(&info.Email, "email")
		set(&info.Location, "location")
		set(&info.LinkedIn, "linkedin")
		set(&info.GitHub, "github")
		set(&info.TelegramBotToken, "telegramBotToken")
		set(&info.TelegramChatID, "telegramChatId")
		set(&info.ProfileImageURL, "profileImageUrl")
		return nil
	})
}

// AddProject prepends a blank project.
func (h *Handler) AddProject(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, "projects", func(p *domain.Portfolio) error {
		p.AddProject()
		return nil
	})
}

// UpdateProject applies the project form to the draft.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r, "projects") {
		return
	}
	f := r.PostForm
	id := chi.URLParam(r, "id")
	h.edit(w, r, "projects", func(p *domain.Portfolio) error {
		return p.UpdateProject(id, func(proj *domain.Project) {
			proj.Title = f.Get("title")
			proj.Description = f.Get("description")
			proj.Technologies = domain.SplitCommaList(f.Get("technologies"))
			proj.Features = domain.SplitLines(f.Get("features"))
			proj.Learning = f.Get("learning")
			proj.ImageURL = f.Get("imageUrl")
			proj.GitHubURL = f.Get("githubUrl")
			proj.LiveURL = f.Get("liveUrl")
		})
	})
}

// DeleteProject removes a project from the draft.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.edit(w, r, "projects", func(p *domain.Portfolio) error {
		return p.RemoveProject(id)
	})
}

// UpdateSkills applies a skill group form. Skills are a comma list.
func (h *Handler) UpdateSkills(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r, "skills") {
		return
	}
	f := r.PostForm
	idx, err := indexParam(r)
	h.edit(w, r, "skills", func(p *domain.Portfolio) error {
		if err != nil {
			return err
		}
		return p.UpdateSkillGroup(idx, func(g *domain.SkillGroup) {
			g.Category = f.Get("category")
			if _, ok := f["icon"]; ok {
				g.Icon = f.Get("icon")
			}
			g.Skills = domain.SplitCommaList(f.Get("skills"))
		})
	})
}

// AddExperience prepends a placeholder entry.
func (h *Handler) AddExperience(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, "experience", func(p *domain.Portfolio) error {
		p.AddExperience()
		return nil
	})
}

// UpdateExperience applies an experience form. Achievements and
// responsibilities are one per line.
func (h *Handler) UpdateExperience(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r, "experience") {
		return
	}
	f := r.PostForm
	idx, err := indexParam(r)
	h.edit(w, r, "experience", func(p *domain.Portfolio) error {
		if err != nil {
			return err
		}
		return p.UpdateExperience(idx, func(e *domain.Experience) {
			e.Company = f.Get("company")
			e.Role = f.Get("role")
			e.Period = f.Get("period")
			if _, ok := f["responsibilities"]; ok {
				e.Responsibilities = domain.SplitLines(f.Get("responsibilities"))
			}
			e.Achievements = domain.SplitLines(f.Get("achievements"))
		})
	})
}

// DeleteExperience removes an experience entry.
func (h *Handler) DeleteExperience(w http.ResponseWriter, r *http.Request) {
	idx, err := indexParam(r)
	h.edit(w, r, "experience", func(p *domain.Portfolio) error {
		if err != nil {
			return err
		}
		return p.RemoveExperience(idx)
	})
}
