package content

import (
	"fmt"
	"strings"

	"github.com/ashureev/folio/internal/domain"
)

// BuildSystemPrompt assembles the assistant instruction from portfolio content.
func BuildSystemPrompt(p *domain.Portfolio) string {
	name := p.PersonalInfo.Name
	if name == "" {
		name = "the site owner"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are the AI Assistant for %s's professional developer portfolio.\n", name)
	fmt.Fprintf(&b, "Your goal is to answer questions about %s's background, skills, projects, and professional experience.\n", name)
	b.WriteString("Be professional, friendly, and concise.\n\n")

	fmt.Fprintf(&b, "CONTEXT ABOUT %s:\n", strings.ToUpper(name))
	fmt.Fprintf(&b, "- Name: %s\n", p.PersonalInfo.Name)
	fmt.Fprintf(&b, "- Tagline: %s\n", p.PersonalInfo.Tagline)
	fmt.Fprintf(&b, "- Intro: %s\n", p.PersonalInfo.Intro)
	if p.PersonalInfo.Location != "" {
		fmt.Fprintf(&b, "- Location: %s\n", p.PersonalInfo.Location)
	}

	skills := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		skills = append(skills, fmt.Sprintf("%s: %s", s.Category, strings.Join(s.Skills, ", ")))
	}
	fmt.Fprintf(&b, "- Core Skills: %s\n", strings.Join(skills, "\n"))

	projects := make([]string, 0, len(p.Projects))
	for _, proj := range p.Projects {
		projects = append(projects, fmt.Sprintf("- %s: %s. Tech: %s. Key Features: %s.",
			proj.Title, proj.Description, strings.Join(proj.Technologies, ", "), strings.Join(proj.Features, ", ")))
	}
	fmt.Fprintf(&b, "- Projects: %s\n", strings.Join(projects, "\n"))

	work := make([]string, 0, len(p.Experience))
	for _, w := range p.Experience {
		work = append(work, fmt.Sprintf("%s (%s, %s). Achievements: %s.",
			w.Company, w.Role, w.Period, strings.Join(w.Achievements, ", ")))
	}
	fmt.Fprintf(&b, "- Work Experience: %s\n", strings.Join(work, "\n"))

	if len(p.Education) > 0 {
		edu := make([]string, 0, len(p.Education))
		for _, e := range p.Education {
			edu = append(edu, fmt.Sprintf("%s (%s)", e.Title, e.Detail))
		}
		fmt.Fprintf(&b, "- Education: %s\n", strings.Join(edu, "; "))
	}

	fmt.Fprintf(&b, "\nIf asked about something not in this context, politely mention that you can only provide information about %s's professional background but can help with questions about their tech stack or projects.\n", name)
	return b.String()
}

// Greeting is the first assistant message a visitor sees.
func Greeting(name string) string {
	if name == "" {
		return "Hello. I'm an AI representative for this portfolio. How can I help you?"
	}
	return fmt.Sprintf("Hello. I'm %s's AI representative. How can I help you learn more about their professional work?", name)
}
