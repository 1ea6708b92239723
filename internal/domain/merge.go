package domain

import (
	"encoding/json"
	"fmt"
)

// storedPortfolio mirrors Portfolio with pointer sections so absent and
// null keys can be told apart from empty ones.
type storedPortfolio struct {
	PersonalInfo json.RawMessage   `json:"personalInfo"`
	Projects     *[]Project        `json:"projects"`
	Skills       *[]SkillGroup     `json:"skills"`
	Experience   *[]Experience     `json:"experience"`
	Education    *[]EducationEntry `json:"education"`
}

// MergeStored overlays a stored JSON aggregate on top of defaults.
// Top-level sections that are missing or null keep the default value;
// personalInfo merges field by field. The defaults are not modified.
// On a parse error a normalized copy of defaults is returned with the error.
func MergeStored(defaults *Portfolio, raw []byte) (*Portfolio, error) {
	out := defaults.Clone()
	out.Normalize()

	var stored storedPortfolio
	if err := json.Unmarshal(raw, &stored); err != nil {
		return out, fmt.Errorf("decode stored portfolio: %w", err)
	}

	if len(stored.PersonalInfo) > 0 && string(stored.PersonalInfo) != "null" {
		info := out.PersonalInfo
		if err := json.Unmarshal(stored.PersonalInfo, &info); err != nil {
			fallback := defaults.Clone()
			fallback.Normalize()
			return fallback, fmt.Errorf("decode stored personal info: %w", err)
		}
		out.PersonalInfo = info
	}
	if stored.Projects != nil {
		out.Projects = *stored.Projects
	}
	if stored.Skills != nil {
		out.Skills = *stored.Skills
	}
	if stored.Experience != nil {
		out.Experience = *stored.Experience
	}
	if stored.Education != nil {
		out.Education = *stored.Education
	}

	out.Normalize()
	return out, nil
}
