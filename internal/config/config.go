package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thenoetrevino/embudo/internal/board"
	"github.com/thenoetrevino/embudo/internal/config/colors"
	"github.com/thenoetrevino/embudo/internal/models"
	"github.com/thenoetrevino/embudo/internal/types"
)

// Defaults for values missing from the config file
const (
	DefaultLogLevel           = "INFO"
	DefaultActivationDistance = 2 // terminal cells
)

// DragConfig tunes pointer gestures on the board
type DragConfig struct {
	// ActivationDistance is how far (in cells) a press must travel before it
	// becomes a drag; shorter presses are clicks
	ActivationDistance int `yaml:"activation_distance"`
}

// Config represents the application configuration
type Config struct {
	DatabasePath    string        `yaml:"database_path"`
	LogLevel        string        `yaml:"log_level"`
	DefaultPipeline string        `yaml:"default_pipeline"`
	UpdateTimeout   time.Duration `yaml:"update_timeout"`
	BusyFlash       time.Duration `yaml:"busy_flash"`
	NotifyOnSuccess bool          `yaml:"notify_on_success"`

	Drag        DragConfig         `yaml:"drag"`
	KeyMappings KeyMappings        `yaml:"key_mappings"`
	ColorScheme colors.ColorScheme `yaml:"theme"`

	// Pipelines overlay the built-in boards by id
	Pipelines []PipelineConfig `yaml:"pipelines"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

// loadPipelinesFile merges extra pipelines from EMBUDO_PIPELINES_FILE
func loadPipelinesFile(config *Config) error {
	pipelinesFile := os.Getenv("EMBUDO_PIPELINES_FILE")
	if pipelinesFile == "" {
		return nil
	}

	data, err := os.ReadFile(pipelinesFile)
	if err != nil {
		return fmt.Errorf("failed to read pipelines file: %w", err)
	}

	var extra struct {
		Pipelines []PipelineConfig `yaml:"pipelines"`
	}
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return fmt.Errorf("failed to parse pipelines file %s: %w", pipelinesFile, err)
	}

	config.Pipelines = mergePipelines(config.Pipelines, extra.Pipelines)
	return nil
}

// applyEnv applies environment overrides
func applyEnv(config *Config) {
	if path := os.Getenv("EMBUDO_DB_PATH"); path != "" {
		config.DatabasePath = path
	}
	if raw := os.Getenv("EMBUDO_UPDATE_TIMEOUT_MS"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms <= 0 {
			slog.Warn("ignoring invalid EMBUDO_UPDATE_TIMEOUT_MS", "value", raw)
			return
		}
		config.UpdateTimeout = time.Duration(ms) * time.Millisecond
	}
}

// Load loads config from the user's config directory
// Returns default config if file doesn't exist
func Load() (*Config, error) {
	var config Config

	configPath, err := getConfigPath()
	if err == nil {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &config); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
			}
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	config.Pipelines = mergePipelines(DefaultPipelines(), config.Pipelines)
	if err := loadPipelinesFile(&config); err != nil {
		return nil, err
	}
	applyEnv(&config)

	// Fill in any missing values with defaults
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// Path returns where Load reads and Save writes the config file
func Path() (string, error) {
	return getConfigPath()
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "embudo", "config.yaml"), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "embudo", "config.yaml"), nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.UpdateTimeout <= 0 {
		c.UpdateTimeout = board.DefaultUpdateTimeout
	}
	if c.BusyFlash <= 0 {
		c.BusyFlash = board.DefaultBusyFlash
	}
	if c.Drag.ActivationDistance <= 0 {
		c.Drag.ActivationDistance = DefaultActivationDistance
	}
	if len(c.Pipelines) == 0 {
		c.Pipelines = DefaultPipelines()
	}
	if c.DefaultPipeline == "" {
		c.DefaultPipeline = c.Pipelines[0].ID
	}
	c.KeyMappings.applyDefaults()
	c.ColorScheme.ApplyDefaults()
}

// Validate checks that every pipeline builds a valid registry
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Pipelines))
	for _, p := range c.Pipelines {
		if p.ID == "" {
			return fmt.Errorf("pipeline with empty id")
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate pipeline %q", p.ID)
		}
		seen[p.ID] = true
		if _, err := p.Registry(); err != nil {
			return err
		}
	}
	if !seen[c.DefaultPipeline] {
		return fmt.Errorf("default_pipeline: %w: %s", models.ErrUnknownPipeline, c.DefaultPipeline)
	}
	return nil
}

// Pipeline returns the configuration of one pipeline
func (c *Config) Pipeline(id types.PipelineID) (PipelineConfig, bool) {
	for _, p := range c.Pipelines {
		if p.ID == string(id) {
			return p, true
		}
	}
	return PipelineConfig{}, false
}

// PipelineIDs lists the configured pipelines in order
func (c *Config) PipelineIDs() []types.PipelineID {
	ids := make([]types.PipelineID, 0, len(c.Pipelines))
	for _, p := range c.Pipelines {
		ids = append(ids, types.PipelineID(p.ID))
	}
	return ids
}

// Registry builds the stage registry of a pipeline
func (c *Config) Registry(id types.PipelineID) (*board.Registry, error) {
	p, ok := c.Pipeline(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownPipeline, id)
	}
	return p.Registry()
}
