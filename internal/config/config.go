package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/apotek-labs/apotek/internal/branding"
	"github.com/apotek-labs/apotek/internal/logging"
	"github.com/apotek-labs/apotek/internal/userdata"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Keys understood by the config file and the APOTEK_* environment.
const (
	KeyCommandFolder   = "command_folder"
	KeyTemplatesFolder = "templates_folder"
	KeyStartCommand    = "start_command"
	KeyLogLevel        = "log_level"
)

// Keys lists every known key.
var Keys = []string{KeyCommandFolder, KeyTemplatesFolder, KeyStartCommand, KeyLogLevel}

// Options is the resolved configuration of a run.
type Options struct {
	CommandFolder   string
	TemplatesFolder string
	CurrentFolder   string
	StartCommand    string
	LogLevel        string
}

// Dir returns the path to the config directory (~/.pastaga/).
func Dir() string {
	root, err := userdata.Root()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return root
}

// FilePath returns the full path to the config file (~/.pastaga/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyCommandFolder, filepath.Join(Dir(), userdata.CommandsDir))
	viper.SetDefault(KeyTemplatesFolder, filepath.Join(Dir(), userdata.TemplatesDir))
	viper.SetDefault(KeyLogLevel, logging.DefaultLevel)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Resolve builds Options from the loaded configuration. Folder values get a
// leading ~ expanded and are made absolute.
func Resolve() (*Options, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving current directory: %w", err)
	}

	commands, err := expandPath(viper.GetString(KeyCommandFolder), cwd)
	if err != nil {
		return nil, err
	}
	templates, err := expandPath(viper.GetString(KeyTemplatesFolder), cwd)
	if err != nil {
		return nil, err
	}

	return &Options{
		CommandFolder:   commands,
		TemplatesFolder: templates,
		CurrentFolder:   cwd,
		StartCommand:    viper.GetString(KeyStartCommand),
		LogLevel:        viper.GetString(KeyLogLevel),
	}, nil
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("unknown config key %q (known keys: %s)", key, strings.Join(Keys, ", "))
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

func expandPath(p, cwd string) (string, error) {
	if p == "" {
		return "", nil
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(cwd, p)
	}
	return filepath.Clean(p), nil
}
