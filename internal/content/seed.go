// Package content builds the text the site and the assistant are made of:
// seed content, the assistant's system prompt and markdown rendering.
package content

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ashureev/folio/internal/domain"
	"gopkg.in/yaml.v3"
)

// LoadSeed returns the default portfolio, replaced by the file at path when
// path is non-empty. Sections missing from the file keep the built-in values.
func LoadSeed(path string) (*domain.Portfolio, error) {
	if path == "" {
		return domain.DefaultPortfolio(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	p, err := Decode(path, data)
	if err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return p, nil
}

// Decode parses a portfolio document in JSON or YAML and merges it over the
// built-in defaults.
func Decode(name string, data []byte) (*domain.Portfolio, error) {
	return DecodeOver(domain.DefaultPortfolio(), name, data)
}

// DecodeOver parses a portfolio document in JSON or YAML and merges it over
// defaults with the same rules as stored data: absent or null sections keep
// the default, personalInfo merges field by field. The format is chosen by
// extension, then by sniffing.
func DecodeOver(defaults *domain.Portfolio, name string, data []byte) (*domain.Portfolio, error) {
	if isJSON(name, data) {
		p, err := domain.MergeStored(defaults, data)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return mergeYAML(defaults, data)
}

func isJSON(name string, data []byte) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".json" {
		return true
	}
	trimmed := bytes.TrimSpace(data)
	return ext == "" && len(trimmed) > 0 && trimmed[0] == '{'
}

// yamlPortfolio mirrors domain.Portfolio with presence-aware sections.
// Decoding straight into the domain types lets yaml.v3 accept unquoted
// scalars such as `period: 2024` for string fields.
type yamlPortfolio struct {
	PersonalInfo yaml.Node                `yaml:"personalInfo"`
	Projects     *[]domain.Project        `yaml:"projects"`
	Skills       *[]domain.SkillGroup     `yaml:"skills"`
	Experience   *[]domain.Experience     `yaml:"experience"`
	Education    *[]domain.EducationEntry `yaml:"education"`
}

func mergeYAML(defaults *domain.Portfolio, data []byte) (*domain.Portfolio, error) {
	var doc yamlPortfolio
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	out := defaults.Clone()
	if doc.PersonalInfo.Kind != 0 && doc.PersonalInfo.ShortTag() != "!!null" {
		info := out.PersonalInfo
		if err := doc.PersonalInfo.Decode(&info); err != nil {
			return nil, fmt.Errorf("parse yaml personalInfo: %w", err)
		}
		out.PersonalInfo = info
	}
	if doc.Projects != nil {
		out.Projects = *doc.Projects
	}
	if doc.Skills != nil {
		out.Skills = *doc.Skills
	}
	if doc.Experience != nil {
		out.Experience = *doc.Experience
	}
	if doc.Education != nil {
		out.Education = *doc.Education
	}

	out.Normalize()
	return out, nil
}

// EncodeYAML renders a portfolio as YAML.
func EncodeYAML(p *domain.Portfolio) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}
