// Package domain contains core domain types for the portfolio.
package domain

// PersonalInfo is the singleton identity block shown in the hero and contact
// sections. The Telegram fields configure the contact relay.
type PersonalInfo struct {
	Name             string `json:"name" yaml:"name"`
	Tagline          string `json:"tagline" yaml:"tagline"`
	Intro            string `json:"intro" yaml:"intro"`
	Email            string `json:"email" yaml:"email"`
	LinkedIn         string `json:"linkedin" yaml:"linkedin"`
	GitHub           string `json:"github" yaml:"github"`
	Location         string `json:"location" yaml:"location"`
	ProfileImageURL  string `json:"profileImageUrl" yaml:"profileImageUrl"`
	TelegramBotToken string `json:"telegramBotToken,omitempty" yaml:"telegramBotToken,omitempty"`
	TelegramChatID   string `json:"telegramChatId,omitempty" yaml:"telegramChatId,omitempty"`
}

// Project is a portfolio artifact.
type Project struct {
	ID           string   `json:"id" yaml:"id"`
	Title        string   `json:"title" yaml:"title"`
	Description  string   `json:"description" yaml:"description"`
	Technologies []string `json:"technologies" yaml:"technologies"`
	Features     []string `json:"features" yaml:"features"`
	Learning     string   `json:"learning" yaml:"learning"`
	ImageURL     string   `json:"imageUrl" yaml:"imageUrl"`
	GitHubURL    string   `json:"githubUrl,omitempty" yaml:"githubUrl,omitempty"`
	LiveURL      string   `json:"liveUrl,omitempty" yaml:"liveUrl,omitempty"`
}

// Experience is one entry of the work history.
type Experience struct {
	Company          string   `json:"company" yaml:"company"`
	Role             string   `json:"role" yaml:"role"`
	Period           string   `json:"period" yaml:"period"`
	Responsibilities []string `json:"responsibilities" yaml:"responsibilities"`
	Achievements     []string `json:"achievements" yaml:"achievements"`
}

// SkillGroup is a labelled list of skills with an icon name.
type SkillGroup struct {
	Category string   `json:"category" yaml:"category"`
	Icon     string   `json:"icon" yaml:"icon"`
	Skills   []string `json:"skills" yaml:"skills"`
}

// EducationEntry is a short education or certification note.
type EducationEntry struct {
	Title  string `json:"title" yaml:"title"`
	Detail string `json:"detail" yaml:"detail"`
}

// Portfolio is the aggregate data object holding all site content.
// It is always read and written as a whole.
type Portfolio struct {
	PersonalInfo PersonalInfo     `json:"personalInfo" yaml:"personalInfo"`
	Projects     []Project        `json:"projects" yaml:"projects"`
	Skills       []SkillGroup     `json:"skills" yaml:"skills"`
	Experience   []Experience     `json:"experience" yaml:"experience"`
	Education    []EducationEntry `json:"education" yaml:"education"`
}

// Clone returns a deep copy of the portfolio.
func (p *Portfolio) Clone() *Portfolio {
	if p == nil {
		return nil
	}
	out := &Portfolio{PersonalInfo: p.PersonalInfo}

	out.Projects = make([]Project, len(p.Projects))
	for i, proj := range p.Projects {
		proj.Technologies = cloneStrings(proj.Technologies)
		proj.Features = cloneStrings(proj.Features)
		out.Projects[i] = proj
	}

	out.Skills = make([]SkillGroup, len(p.Skills))
	for i, g := range p.Skills {
		g.Skills = cloneStrings(g.Skills)
		out.Skills[i] = g
	}

	out.Experience = make([]Experience, len(p.Experience))
	for i, e := range p.Experience {
		e.Responsibilities = cloneStrings(e.Responsibilities)
		e.Achievements = cloneStrings(e.Achievements)
		out.Experience[i] = e
	}

	out.Education = append([]EducationEntry{}, p.Education...)
	return out
}

// Normalize replaces nil lists with empty ones so the aggregate never
// serializes partially undefined.
func (p *Portfolio) Normalize() {
	if p.Projects == nil {
		p.Projects = []Project{}
	}
	if p.Skills == nil {
		p.Skills = []SkillGroup{}
	}
	if p.Experience == nil {
		p.Experience = []Experience{}
	}
	if p.Education == nil {
		p.Education = []EducationEntry{}
	}
	for i := range p.Projects {
		p.Projects[i].Technologies = nonNil(p.Projects[i].Technologies)
		p.Projects[i].Features = nonNil(p.Projects[i].Features)
	}
	for i := range p.Skills {
		p.Skills[i].Skills = nonNil(p.Skills[i].Skills)
	}
	for i := range p.Experience {
		p.Experience[i].Responsibilities = nonNil(p.Experience[i].Responsibilities)
		p.Experience[i].Achievements = nonNil(p.Experience[i].Achievements)
	}
}

// Public returns a copy safe to hand to anonymous visitors: the contact
// relay credentials are blanked.
func (p *Portfolio) Public() *Portfolio {
	out := p.Clone()
	out.PersonalInfo.TelegramBotToken = ""
	out.PersonalInfo.TelegramChatID = ""
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
