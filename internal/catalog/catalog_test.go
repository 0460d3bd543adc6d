package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	require.NotNil(t, c)

	phrases := c.Phrases()
	assert.NotEmpty(t, phrases)
	assert.Equal(t, Phrase{Text: "it's important to note", Category: "hedging"}, phrases[0])

	assert.Len(t, c.ScanHedging, 7)
	assert.Contains(t, c.FormulaicOpeners, "let's")
	assert.Equal(t, "LLM favorites", c.Label("phrase_llm_favorite"))
	assert.Equal(t, "mystery", c.Label("mystery"))
	assert.Equal(t, "complete, full, thorough", c.Alternative("Comprehensive"))
	assert.Equal(t, "explore, look at, examine", c.Alternative("delve"))
	assert.Empty(t, c.Alternative("cat"))
	assert.Equal(t, "Also, And, delete and merge sentences", c.Alternative("Additionally"))
	assert.Equal(t, []string{"Note", "delete entirely", "just state the fact"}, c.Suggestions("it's important to note"))
	assert.Same(t, c, Default())
}

func TestExcluded(t *testing.T) {
	c := Default()

	tests := []struct {
		item      string
		technical bool
		want      bool
	}{
		{"##", false, true},
		{"Marcus", false, true},
		{"**the", false, true},
		{"python", true, true},
		{"Python", true, true},
		{"python", false, false},
		{"error handling", true, true},
		{"comprehensive", true, false},
	}
	for _, tt := range tests {
		if got := c.Excluded(tt.item, tt.technical); got != tt.want {
			t.Fatalf("Excluded(%q, %v) = %v, want %v", tt.item, tt.technical, got, tt.want)
		}
	}
}

func TestIsPassive(t *testing.T) {
	c := Default()
	assert.True(t, c.IsPassive("The report was written by the committee."))
	assert.True(t, c.IsPassive("It will be completed tomorrow."))
	assert.True(t, c.IsPassive("The results were shown to the board."))
	assert.False(t, c.IsPassive("The committee wrote the report."))
}

func TestLoadSubstituteCatalog(t *testing.T) {
	c, err := Load([]byte(`
phrase_groups:
  - category: test
    phrases: [alpha, beta]
technical_terms: [gamma]
`))
	require.NoError(t, err)
	assert.Len(t, c.Phrases(), 2)
	assert.True(t, c.Excluded("gamma", true))
	assert.False(t, c.Excluded("python", true))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load([]byte("phrase_groups:\n  - phrases: [x]\n"))
	assert.Error(t, err)

	_, err = Load([]byte("passive_patterns: ['(unclosed']\n"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("formulaic_openers: [hello]\n"), 0o644))
	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, c.FormulaicOpeners)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
