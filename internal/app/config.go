package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BirkeyCo/nixables/internal/fsutil"
	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	appName = "nixables"

	DefaultOutputDir = "flakes"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	RecipePath string // recipe file or directory of recipes
	OutputDir  string

	LogFormat string
	LogLevel  string
	Color     bool
}

// NewConfig fills defaults into cfg and validates it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.RecipePath == "" {
		return nil, errors.New("RecipePath is a required configuration field and cannot be empty")
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if _, ok := logLevels[cfg.LogLevel]; !ok {
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	return &cfg, nil
}

// FileConfig is the optional YAML configuration file. Empty fields leave
// the built-in defaults in place.
type FileConfig struct {
	OutputDir string `yaml:"output,omitempty"`
	LogLevel  string `yaml:"log_level,omitempty"`
	LogFormat string `yaml:"log_format,omitempty"`
	Color     *bool  `yaml:"color,omitempty"`
}

// DefaultConfigPath is where the configuration file is looked up when none
// is given explicitly.
//
//	Linux:   $XDG_CONFIG_HOME/nixables/config.yaml
//	macOS:   ~/Library/Application Support/nixables/config.yaml
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// LoadFileConfig reads the configuration file at path. A missing file is
// not an error unless required is set, and yields an empty FileConfig.
func LoadFileConfig(fs fsutil.FS, path string, required bool) (*FileConfig, error) {
	if !fs.Exists(path) {
		if required {
			return nil, fmt.Errorf("config file %s does not exist", path)
		}
		return &FileConfig{}, nil
	}

	data, err := fs.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
	}
	return &fc, nil
}

// Apply copies every value set in the file into cfg.
func (fc *FileConfig) Apply(cfg *Config) {
	if fc.OutputDir != "" {
		cfg.OutputDir = fc.OutputDir
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.LogFormat != "" {
		cfg.LogFormat = fc.LogFormat
	}
	if fc.Color != nil {
		cfg.Color = *fc.Color
	}
}
