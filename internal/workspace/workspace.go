package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"styleguide/internal/config"
	"styleguide/internal/markers"
)

const (
	BaseDirName = ".prose-check"
	MarkersFile = "markers.json"
	HistoryFile = "history.db"
	ConfigFile  = "config.yaml"
	SharedDir   = "/usr/local/share/prose-check"
)

func DefaultRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return filepath.Join(home, BaseDirName), nil
}

func EnsureDefault() (string, error) {
	root, err := DefaultRoot()
	if err != nil {
		return "", err
	}
	return EnsureAt(root)
}

// EnsureAt creates the workspace layout under base and writes a default
// config.yaml if none exists.
func EnsureAt(base string) (string, error) {
	paths := []string{
		base,
		filepath.Join(base, "reports"),
	}
	for _, p := range paths {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", p, err)
		}
	}

	configPath := filepath.Join(base, ConfigFile)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		raw, marshalErr := yaml.Marshal(config.Default())
		if marshalErr != nil {
			return "", fmt.Errorf("marshal config: %w", marshalErr)
		}
		if writeErr := os.WriteFile(configPath, raw, 0o644); writeErr != nil {
			return "", fmt.Errorf("write config: %w", writeErr)
		}
	}

	return base, nil
}

// ConfigPath is the workspace config.yaml, read when no project config
// is found.
func ConfigPath() (string, error) {
	root, err := DefaultRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, ConfigFile), nil
}

func DefaultDBPath() (string, error) {
	root, err := DefaultRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, HistoryFile), nil
}

// MarkerCandidates lists where a marker set is looked for, in order: the
// explicit flag, $PROSECHECK_MARKERS, ./results, the user workspace and
// the shared install directory.
func MarkerCandidates(flag string) []string {
	var out []string
	if flag = strings.TrimSpace(flag); flag != "" {
		out = append(out, flag)
	}
	if env := strings.TrimSpace(os.Getenv("PROSECHECK_MARKERS")); env != "" {
		out = append(out, env)
	}
	out = append(out, filepath.Join("results", MarkersFile))
	if root, err := DefaultRoot(); err == nil {
		out = append(out, filepath.Join(root, MarkersFile))
	}
	return append(out, filepath.Join(SharedDir, MarkersFile))
}

// ResolveMarkers returns the marker set path to use. An explicit flag is
// returned as is so that a wrong path is reported by the loader.
func ResolveMarkers(flag string) (string, error) {
	if flag = strings.TrimSpace(flag); flag != "" {
		return flag, nil
	}
	candidates := MarkerCandidates("")
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", p, err)
		}
	}
	return "", fmt.Errorf("%w; searched %s", markers.ErrMarkersNotFound, strings.Join(candidates, ", "))
}
