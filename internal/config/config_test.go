package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 60, cfg.MinScore)
	assert.True(t, cfg.Technical)
	assert.Empty(t, cfg.IgnorePatterns)
	assert.Empty(t, cfg.Exclude)
}

func TestLoadMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".prose-check.yaml")
	writeFile(t, path, "min_score: 75\nignore_patterns:\n  - robust\nexclude: [\"*.log\", \"drafts/*\"]\ncatalog: custom.yaml\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 75, cfg.MinScore)
	assert.True(t, cfg.Technical, "unset keys keep defaults")
	assert.Equal(t, []string{"robust"}, cfg.IgnorePatterns)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "custom.yaml"), cfg.Catalog)
}

func TestLoadTechnicalFalse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	writeFile(t, path, "technical: false\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Technical)
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"bad yaml": "min_score: [",
		"range":    "min_score: 140\n",
		"bad glob": "exclude: [\"[\"]\n",
		"neg pool": "workers: -2\n",
		"bad type": "min_score: high\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			writeFile(t, path, body)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestDiscover(t *testing.T) {
	empty := t.TempDir()
	withYML := t.TempDir()
	writeFile(t, filepath.Join(withYML, ".prose-check.yml"), "min_score: 80\n")

	cfg, path, err := Discover(empty, withYML)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(withYML, ".prose-check.yml"), path)
	assert.Equal(t, 80, cfg.MinScore)

	cfg, path, err = Discover(empty)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, DefaultMinScore, cfg.MinScore)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PROSECHECK_MIN_SCORE", "45")
	t.Setenv("PROSECHECK_TECHNICAL", "off")
	t.Setenv("PROSECHECK_WORKERS", "3")

	cfg, _, err := Discover(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.MinScore)
	assert.False(t, cfg.Technical)
	assert.Equal(t, 3, cfg.Workers)

	t.Setenv("PROSECHECK_MIN_SCORE", "not-a-number")
	cfg, _, err = Discover(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultMinScore, cfg.MinScore)
}

func TestShouldExclude(t *testing.T) {
	cfg := Default()
	cfg.Exclude = []string{"*.log", "drafts/*", "README.md"}

	assert.True(t, cfg.ShouldExclude("build/output.log"))
	assert.True(t, cfg.ShouldExclude("drafts/idea.md"))
	assert.True(t, cfg.ShouldExclude("/repo/docs/README.md"))
	assert.False(t, cfg.ShouldExclude("docs/guide.md"))
	assert.False(t, Default().ShouldExclude("anything.txt"))
}
