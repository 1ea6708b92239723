package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeStored_MissingSectionsKeepDefaults(t *testing.T) {
	defaults := DefaultPortfolio()
	raw := []byte(`{"projects":[{"id":"x","title":"Only"}]}`)

	got, err := MergeStored(defaults, raw)
	require.NoError(t, err)

	require.Len(t, got.Projects, 1)
	assert.Equal(t, "Only", got.Projects[0].Title)
	assert.NotNil(t, got.Projects[0].Technologies)
	assert.NotNil(t, got.Projects[0].Features)
	assert.Equal(t, defaults.Skills, got.Skills)
	assert.Equal(t, defaults.Experience, got.Experience)
	assert.Equal(t, defaults.Education, got.Education)
	assert.Equal(t, defaults.PersonalInfo, got.PersonalInfo)
}

func TestMergeStored_PersonalInfoMergesFieldByField(t *testing.T) {
	defaults := DefaultPortfolio()
	raw := []byte(`{"personalInfo":{"name":"Sam","telegramChatId":"42"}}`)

	got, err := MergeStored(defaults, raw)
	require.NoError(t, err)

	assert.Equal(t, "Sam", got.PersonalInfo.Name)
	assert.Equal(t, "42", got.PersonalInfo.TelegramChatID)
	assert.Equal(t, defaults.PersonalInfo.Tagline, got.PersonalInfo.Tagline)
	assert.Equal(t, defaults.PersonalInfo.Email, got.PersonalInfo.Email)
}

func TestMergeStored_NullAndEmptySections(t *testing.T) {
	defaults := DefaultPortfolio()
	raw := []byte(`{"projects":null,"skills":[]}`)

	got, err := MergeStored(defaults, raw)
	require.NoError(t, err)

	assert.Equal(t, defaults.Projects, got.Projects)
	assert.NotNil(t, got.Skills)
	assert.Empty(t, got.Skills)
}

func TestMergeStored_CorruptFallsBackToDefaults(t *testing.T) {
	defaults := DefaultPortfolio()

	for _, raw := range []string{`{not json`, `{"personalInfo":"oops"}`, `[]`} {
		got, err := MergeStored(defaults, []byte(raw))
		assert.Error(t, err, raw)
		assert.Equal(t, defaults, got, raw)
	}
}

func TestMergeStored_DoesNotMutateDefaults(t *testing.T) {
	defaults := DefaultPortfolio()
	before := defaults.Clone()

	_, err := MergeStored(defaults, []byte(`{"personalInfo":{"name":"Changed"}}`))
	require.NoError(t, err)
	assert.Equal(t, before, defaults)
}

func TestSaveReloadRoundTrip(t *testing.T) {
	p := DefaultPortfolio()
	p.AddProject()
	require.NoError(t, p.UpdateProject(p.Projects[0].ID, func(proj *Project) {
		proj.Title = "Round Trip"
		proj.Technologies = []string{"Go"}
	}))

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	got, err := MergeStored(DefaultPortfolio(), raw)
	require.NoError(t, err)
	assert.Equal(t, p.Projects, got.Projects)
}

func TestClone_IsDeep(t *testing.T) {
	p := DefaultPortfolio()
	c := p.Clone()
	c.Projects[0].Technologies[0] = "changed"
	c.Skills[0].Skills[0] = "changed"
	c.Experience[0].Achievements[0] = "changed"

	assert.NotEqual(t, "changed", p.Projects[0].Technologies[0])
	assert.NotEqual(t, "changed", p.Skills[0].Skills[0])
	assert.NotEqual(t, "changed", p.Experience[0].Achievements[0])
}

func TestPublic_BlanksTelegram(t *testing.T) {
	p := DefaultPortfolio()
	p.PersonalInfo.TelegramBotToken = "secret"
	p.PersonalInfo.TelegramChatID = "1"

	pub := p.Public()
	assert.Empty(t, pub.PersonalInfo.TelegramBotToken)
	assert.Empty(t, pub.PersonalInfo.TelegramChatID)
	assert.Equal(t, "secret", p.PersonalInfo.TelegramBotToken)
}

func TestResolveImageURL(t *testing.T) {
	exists := func(id string) bool { return id == "present" }
	urlFor := func(id string) string { return "/images/" + id }
	const placeholder = "https://picsum.photos/800/450"

	tests := []struct {
		ref  string
		want string
	}{
		{"", ""},
		{"https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"local-blob:present", "/images/present"},
		{"local-blob:missing", placeholder},
		{"local-blob:", placeholder},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveImageURL(tt.ref, exists, urlFor, placeholder), tt.ref)
	}
}

func TestReferencedImageIDs(t *testing.T) {
	p := DefaultPortfolio()
	p.PersonalInfo.ProfileImageURL = LocalImageRef("profile-1")
	p.Projects[1].ImageURL = LocalImageRef("project-2")

	ids := p.ReferencedImageIDs()
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, "profile-1")
	assert.Contains(t, ids, "project-2")
}

func TestEditorMutations(t *testing.T) {
	p := DefaultPortfolio()
	n := len(p.Projects)

	id := p.AddProject()
	require.Len(t, p.Projects, n+1)
	assert.Equal(t, id, p.Projects[0].ID)
	assert.Equal(t, "New", p.Projects[0].Title)
	assert.True(t, p.HasProject(id))

	require.NoError(t, p.RemoveProject(id))
	assert.False(t, p.HasProject(id))
	assert.Len(t, p.Projects, n)
	assert.ErrorIs(t, p.RemoveProject(id), ErrProjectNotFound)

	p.AddExperience()
	assert.Equal(t, "Co", p.Experience[0].Company)
	require.NoError(t, p.RemoveExperience(0))
	assert.ErrorIs(t, p.RemoveExperience(99), ErrExperienceNotFound)
	assert.ErrorIs(t, p.UpdateSkillGroup(-1, func(*SkillGroup) {}), ErrSkillGroupNotFound)
}

func TestSplitHelpers(t *testing.T) {
	assert.Equal(t, []string{"Go", "Rust", "SQL"}, SplitCommaList(" Go, Rust ,,SQL "))
	assert.Equal(t, []string{}, SplitCommaList(""))
	assert.Equal(t, []string{"first", "  second"}, SplitLines("first\r\n\n  second\n"))
}

func TestCredentialsMatches(t *testing.T) {
	c := DefaultCredentials()
	assert.True(t, c.Matches("admin", "password123"))
	assert.False(t, c.Matches("admin", "wrong"))
	assert.False(t, c.Matches("", ""))
}
