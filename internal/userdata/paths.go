package userdata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/apotek-labs/apotek/internal/branding"
)

// Directory and file name constants for the working directory.
const (
	CommandsDir  = "commands"
	TemplatesDir = "templates"
	ConfigFile   = "config.yaml"
)

// Permission constants.
const (
	DirPermNormal  os.FileMode = 0755
	FilePermNormal os.FileMode = 0644
)

// Root returns the working directory. It checks the APOTEK_HOME environment
// variable first, then falls back to ~/.pastaga.
func Root() (string, error) {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, branding.HomeDir()), nil
}

// CommandsRoot returns the default commands folder.
func CommandsRoot() (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, CommandsDir), nil
}

// TemplatesRoot returns the default templates folder.
func TemplatesRoot() (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, TemplatesDir), nil
}

// ConfigPath returns the path of config.yaml.
func ConfigPath() (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, ConfigFile), nil
}
