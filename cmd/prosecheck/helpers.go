package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"styleguide/internal/catalog"
	"styleguide/internal/config"
	"styleguide/internal/markers"
	"styleguide/internal/workspace"
)

// loadConfig reads an explicit config file, else one discovered in the
// working directory, else the workspace config.yaml.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getwd: %w", err)
	}
	cfg, found, err := config.Discover(wd)
	if err != nil || found != "" {
		return cfg, err
	}
	wsPath, err := workspace.ConfigPath()
	if err != nil {
		return cfg, nil
	}
	if _, err := os.Stat(wsPath); errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	} else if err != nil {
		return nil, fmt.Errorf("stat %s: %w", wsPath, err)
	}
	return config.Load(wsPath)
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(path)
}

// loadMarkers resolves the marker set location and loads it.
func loadMarkers(flag string) (string, *markers.Set, error) {
	path, err := workspace.ResolveMarkers(flag)
	if err != nil {
		return "", nil, err
	}
	set, err := markers.Load(path)
	if err != nil {
		return "", nil, err
	}
	return path, set, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
