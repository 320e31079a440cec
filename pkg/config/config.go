// Package config loads editor settings from editor.yaml and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v3/log"
	"gopkg.in/yaml.v3"

	"github.com/ChicagoDave/shapeeditor/pkg/geo"
	"github.com/ChicagoDave/shapeeditor/pkg/shape"
)

// ProjectFile is the config file name looked up by LoadProject.
const ProjectFile = "editor.yaml"

// Environment overrides.
const (
	EnvSaveFile = "SHAPEEDITOR_SAVE_FILE"
	EnvLogLevel = "SHAPEEDITOR_LOG_LEVEL"
	EnvPort     = "PORT"
)

type Config struct {
	SaveFile        string       `yaml:"save_file"`
	DefaultRadius   float64      `yaml:"default_radius"`
	DuplicateOffset float64      `yaml:"duplicate_offset"`
	ShapeTypes      []shape.Type `yaml:"shape_types"`
	Palette         []Swatch     `yaml:"palette"`
	Server          ServerConfig `yaml:"server"`
	LogLevel        string       `yaml:"log_level"`
}

// Swatch is a named fill colour offered by the editor.
type Swatch struct {
	Name   string     `yaml:"name" json:"name"`
	Colour geo.Colour `yaml:"colour" json:"colour"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		SaveFile:        "save.txt",
		DefaultRadius:   25,
		DuplicateOffset: 30,
		ShapeTypes:      append([]shape.Type(nil), shape.DefaultTypes...),
		Palette: []Swatch{
			{Name: "red", Colour: geo.RGB(0.9, 0.12, 0.25)},
			{Name: "green", Colour: geo.RGB(0.64, 0.91, 0.12)},
			{Name: "blue", Colour: geo.RGB(0.12, 0.64, 0.9)},
		},
		Server:   ServerConfig{Port: "3000"},
		LogLevel: "info",
	}
}

// Load reads a config file over the defaults and applies environment
// overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadProject loads editor.yaml from a project directory. A missing file
// yields the defaults.
func LoadProject(projectDir string) (*Config, error) {
	cfg, err := Load(filepath.Join(projectDir, ProjectFile))
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
		cfg.applyEnv()
		return cfg, cfg.Validate()
	}
	return cfg, err
}

func (c *Config) applyEnv() {
	c.SaveFile = getEnv(EnvSaveFile, c.SaveFile)
	c.LogLevel = getEnv(EnvLogLevel, c.LogLevel)
	c.Server.Port = getEnv(EnvPort, c.Server.Port)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

// Validate checks the settings the editor depends on.
func (c *Config) Validate() error {
	var errs []error
	if c.SaveFile == "" {
		errs = append(errs, errors.New("save_file must not be empty"))
	}
	if c.DefaultRadius <= 0 {
		errs = append(errs, fmt.Errorf("default_radius must be positive, got %v", c.DefaultRadius))
	}
	if c.DuplicateOffset < 0 {
		errs = append(errs, fmt.Errorf("duplicate_offset must not be negative, got %v", c.DuplicateOffset))
	}
	if len(c.ShapeTypes) == 0 {
		errs = append(errs, errors.New("shape_types must list at least one shape"))
	}
	seen := make(map[string]bool)
	for _, t := range c.ShapeTypes {
		if t.Edges < 3 {
			errs = append(errs, fmt.Errorf("shape type %q needs at least 3 edges, got %d", t.Name, t.Edges))
		}
		if seen[t.Name] {
			errs = append(errs, fmt.Errorf("shape type %q listed twice", t.Name))
		}
		seen[t.Name] = true
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SavePath resolves the save file against the project directory.
func (c *Config) SavePath(projectDir string) string {
	if filepath.IsAbs(c.SaveFile) {
		return c.SaveFile
	}
	return filepath.Join(projectDir, c.SaveFile)
}

// Colour looks up a palette entry by name.
func (c *Config) Colour(name string) (geo.Colour, bool) {
	for _, s := range c.Palette {
		if strings.EqualFold(s.Name, name) {
			return s.Colour, true
		}
	}
	return geo.Colour{}, false
}

// Level maps log_level to a fiber log level.
func (c *Config) Level() (log.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "", "info":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return log.LevelInfo, fmt.Errorf("unknown log_level %q", c.LogLevel)
}
