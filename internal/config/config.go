package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileNames are the config file names Discover looks for, in order.
var FileNames = []string{".prose-check.yaml", ".prose-check.yml"}

const DefaultMinScore = 60

type Config struct {
	MinScore       int      `yaml:"min_score"`
	Technical      bool     `yaml:"technical"`
	IgnorePatterns []string `yaml:"ignore_patterns"`
	Exclude        []string `yaml:"exclude"`
	Workers        int      `yaml:"workers"`
	// Catalog optionally points at a replacement catalog.yaml.
	Catalog string `yaml:"catalog,omitempty"`
}

func Default() *Config {
	return &Config{
		MinScore:       DefaultMinScore,
		Technical:      true,
		IgnorePatterns: []string{},
		Exclude:        []string{},
	}
}

// Load reads a YAML file over the defaults; keys missing from the file
// keep their default value. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Catalog != "" && !filepath.IsAbs(cfg.Catalog) {
		cfg.Catalog = filepath.Join(filepath.Dir(path), cfg.Catalog)
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

// Discover loads the first config file found in dirs. With no file it
// returns the defaults and an empty path.
func Discover(dirs ...string) (*Config, string, error) {
	for _, dir := range dirs {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				return nil, "", fmt.Errorf("stat config: %w", err)
			}
			cfg, err := Load(path)
			return cfg, path, err
		}
	}
	cfg := Default()
	cfg.applyEnv()
	return cfg, "", cfg.Validate()
}

func (c *Config) Validate() error {
	if c.MinScore < 0 || c.MinScore > 100 {
		return fmt.Errorf("min_score must be between 0 and 100, got %d", c.MinScore)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	for _, p := range c.Exclude {
		if _, err := filepath.Match(p, ""); err != nil {
			return fmt.Errorf("exclude pattern %q: %w", p, err)
		}
	}
	return nil
}

// ShouldExclude matches the exclude globs against the path and its base
// name.
func (c *Config) ShouldExclude(path string) bool {
	base := filepath.Base(path)
	for _, p := range c.Exclude {
		if ok, _ := filepath.Match(p, path); ok {
			return true
		}
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
	}
	return false
}

func (c *Config) applyEnv() {
	c.MinScore = getenvInt("PROSECHECK_MIN_SCORE", c.MinScore)
	c.Technical = getenvBool("PROSECHECK_TECHNICAL", c.Technical)
	c.Workers = getenvInt("PROSECHECK_WORKERS", c.Workers)
}

func getenvInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func getenvBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	return raw == "1" || raw == "true" || raw == "yes" || raw == "on"
}
