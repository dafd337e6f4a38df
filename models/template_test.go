package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builtinTemplates() []ProjectTemplate {
	return []ProjectTemplate{
		{ID: "pt-1", Name: "Product Backlog", Category: "agile"},
		{ID: "pt-2", Name: "Sprint Board", Category: "scrum"},
		{ID: "pt-3", Name: "Kanban Board", Category: "kanban"},
		{ID: "pt-4", Name: "Bug Tracking", Category: "engineering"},
		{ID: "pt-5", Name: "Feature Development", Category: "product"},
		{ID: "pt-6", Name: "Content Calendar", Category: "marketing"},
		{ID: "pt-7", Name: "Event Planning", Category: "operations"},
	}
}

func TestMatchExplicitID(t *testing.T) {
	m := MatchProjectTemplate(builtinTemplates(), "pt-4", "whatever name", "whatever category")
	require.NotNil(t, m)
	assert.Equal(t, "Bug Tracking", m.Name)
}

func TestMatchExplicitIDMissing(t *testing.T) {
	// An explicit id that resolves to nothing does not fall through to the
	// name cascade.
	m := MatchProjectTemplate(builtinTemplates(), "pt-404", "Sprint Board", "scrum")
	assert.Nil(t, m)
}

func TestMatchExactNameCaseInsensitive(t *testing.T) {
	m := MatchProjectTemplate(builtinTemplates(), "", "sprint board", "")
	require.NotNil(t, m)
	assert.Equal(t, "pt-2", m.ID)
}

func TestMatchKeywordInName(t *testing.T) {
	cases := map[string]string{
		"Q4 backlog grooming":  "Product Backlog",
		"sprint 42":            "Sprint Board",
		"team kanban flow":     "Kanban Board",
		"bug bash":             "Bug Tracking",
		"feature rollout plan": "Feature Development",
		"content pipeline":     "Content Calendar",
		"event launch":         "Event Planning",
	}
	for name, want := range cases {
		m := MatchProjectTemplate(builtinTemplates(), "", name, "")
		require.NotNil(t, m, "name %q", name)
		assert.Equal(t, want, m.Name, "name %q", name)
	}
}

func TestMatchKeywordOrderWins(t *testing.T) {
	// "backlog" is checked before "sprint", so a name containing both maps
	// to Product Backlog.
	m := MatchProjectTemplate(builtinTemplates(), "", "sprint backlog", "")
	require.NotNil(t, m)
	assert.Equal(t, "Product Backlog", m.Name)
}

func TestMatchCategoryDefault(t *testing.T) {
	m := MatchProjectTemplate(builtinTemplates(), "", "totally unrelated", "marketing")
	require.NotNil(t, m)
	assert.Equal(t, "Content Calendar", m.Name)
}

func TestMatchFuzzySubstring(t *testing.T) {
	m := MatchProjectTemplate(builtinTemplates(), "", "planning", "")
	require.NotNil(t, m)
	assert.Equal(t, "Event Planning", m.Name)
}

func TestMatchNothing(t *testing.T) {
	m := MatchProjectTemplate(builtinTemplates(), "", "zzz", "zzz")
	assert.Nil(t, m)
}
