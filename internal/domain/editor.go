package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Editor errors.
var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrExperienceNotFound = errors.New("experience entry not found")
	ErrSkillGroupNotFound = errors.New("skill group not found")
)

// NewProjectID returns a fresh project identifier.
func NewProjectID() string {
	return uuid.NewString()
}

// AddProject prepends a blank project and returns its id.
func (p *Portfolio) AddProject() string {
	proj := Project{
		ID:           NewProjectID(),
		Title:        "New",
		Technologies: []string{},
		Features:     []string{},
	}
	p.Projects = append([]Project{proj}, p.Projects...)
	return proj.ID
}

// HasProject reports whether a project with the given id exists.
func (p *Portfolio) HasProject(id string) bool {
	for i := range p.Projects {
		if p.Projects[i].ID == id {
			return true
		}
	}
	return false
}

// RemoveProject deletes the project with the given id.
func (p *Portfolio) RemoveProject(id string) error {
	for i := range p.Projects {
		if p.Projects[i].ID == id {
			p.Projects = append(p.Projects[:i], p.Projects[i+1:]...)
			return nil
		}
	}
	return ErrProjectNotFound
}

// UpdateProject applies fn to the project with the given id.
func (p *Portfolio) UpdateProject(id string, fn func(*Project)) error {
	for i := range p.Projects {
		if p.Projects[i].ID == id {
			fn(&p.Projects[i])
			return nil
		}
	}
	return ErrProjectNotFound
}

// AddExperience prepends a placeholder experience entry.
func (p *Portfolio) AddExperience() {
	exp := Experience{
		Company:          "Co",
		Role:             "Role",
		Period:           "2024",
		Responsibilities: []string{},
		Achievements:     []string{},
	}
	p.Experience = append([]Experience{exp}, p.Experience...)
}

// RemoveExperience deletes the experience entry at idx.
func (p *Portfolio) RemoveExperience(idx int) error {
	if idx < 0 || idx >= len(p.Experience) {
		return ErrExperienceNotFound
	}
	p.Experience = append(p.Experience[:idx], p.Experience[idx+1:]...)
	return nil
}

// UpdateExperience applies fn to the experience entry at idx.
func (p *Portfolio) UpdateExperience(idx int, fn func(*Experience)) error {
	if idx < 0 || idx >= len(p.Experience) {
		return ErrExperienceNotFound
	}
	fn(&p.Experience[idx])
	return nil
}

// UpdateSkillGroup applies fn to the skill group at idx.
func (p *Portfolio) UpdateSkillGroup(idx int, fn func(*SkillGroup)) error {
	if idx < 0 || idx >= len(p.Skills) {
		return ErrSkillGroupNotFound
	}
	fn(&p.Skills[idx])
	return nil
}

// SplitCommaList splits "a, b ,c" into trimmed items, dropping empties.
func SplitCommaList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// SplitLines splits a textarea value into one item per line.
// Blank lines are dropped, other lines are kept as typed.
func SplitLines(s string) []string {
	out := []string{}
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
