// Package home manages the chispa home directory (~/.chispa).
package home

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultDirName is the default name for the chispa home directory.
	DefaultDirName = ".chispa"

	// DecksDirName is the subdirectory for custom deck definitions.
	DecksDirName = "decks"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Dir represents the chispa home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.chispa).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// DecksPath returns the path to the decks directory.
func (d *Dir) DecksPath() string {
	return filepath.Join(d.path, DecksDirName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// DeckPath resolves a deck reference. Bare names such as "marseille" map to
// decks/marseille.yaml; anything with a separator or extension is a path.
func (d *Dir) DeckPath(ref string) string {
	if ref == "" || strings.ContainsRune(ref, filepath.Separator) || filepath.Ext(ref) != "" {
		return ref
	}
	return filepath.Join(d.DecksPath(), ref+".yaml")
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	// Create decks directory (this also creates the parent)
	if err := os.MkdirAll(d.DecksPath(), 0o755); err != nil {
		return fmt.Errorf("failed to create decks directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

// ListDecks returns the names of deck files in the decks directory.
func (d *Dir) ListDecks() ([]string, error) {
	entries, err := os.ReadDir(d.DecksPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read decks directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch ext := filepath.Ext(e.Name()); ext {
		case ".yaml", ".yml", ".json":
			names = append(names, strings.TrimSuffix(e.Name(), ext))
		}
	}
	return names, nil
}
