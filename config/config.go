// Package config loads prodistat settings from .prodistat/config.yaml,
// with environment overrides from the process environment or a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spektr-org/prodistat/engine"
	"github.com/spektr-org/prodistat/export"
)

// ConfigFileName is the name of the configuration file.
const ConfigFileName = "config.yaml"

// ConfigDirName is the directory holding config and cache.
const ConfigDirName = ".prodistat"

// Config is the complete prodistat configuration.
type Config struct {
	Data           DataConfig           `yaml:"data"`
	Classification ClassificationConfig `yaml:"classification"`
	Mappings       MappingsConfig       `yaml:"mappings"`
	Cache          CacheConfig          `yaml:"cache"`
	Server         ServerConfig         `yaml:"server"`
	Export         ExportConfig         `yaml:"export"`
}

// DataConfig locates and interprets the source file.
type DataConfig struct {
	Path        string `yaml:"path"`
	Variant     string `yaml:"variant"`
	FundedValue string `yaml:"funded_value"`
	Locale      string `yaml:"locale"`
}

// ClassificationConfig holds competition thresholds and popularity percentiles.
type ClassificationConfig struct {
	Thresholds  engine.Thresholds  `yaml:"thresholds"`
	Percentiles engine.Percentiles `yaml:"percentiles"`
}

// MappingsConfig maps dimension → display label → stored value.
type MappingsConfig map[string]map[string]string

// CacheConfig controls the snapshot cache.
type CacheConfig struct {
	Disabled bool   `yaml:"disabled"`
	Dir      string `yaml:"dir"`
}

// ServerConfig controls the HTTP adapter.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	DisableWatch bool          `yaml:"disable_watch"`
	Debounce     time.Duration `yaml:"debounce"`
}

// ExportConfig holds export defaults.
type ExportConfig struct {
	Format string `yaml:"format"`
}

// ErrConfigNotFound is returned when no config directory is found.
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails.
var ErrInvalidConfig = errors.New("invalid configuration")

// Load finds the config directory from workDir upward and loads it.
// Missing config yields the defaults.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFromPath(filepath.Join(configDir, ConfigFileName))
}

// LoadFromPath loads, merges with defaults, and validates one file.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	merged := Merge(loaded, DefaultConfig())
	if err := Validate(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// FindConfigDir walks up from startDir looking for .prodistat/.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates .prodistat/ in workDir if needed.
func EnsureConfigDir(workDir string) (string, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	configDir := filepath.Join(absDir, ConfigDirName)
	info, err := os.Stat(configDir)
	if err == nil {
		if info.IsDir() {
			return configDir, nil
		}
		return "", fmt.Errorf("%s exists but is not a directory", configDir)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	return configDir, nil
}

// Validate checks every setting.
func Validate(cfg *Config) error {
	if _, err := engine.ParseVariant(cfg.Data.Variant); err != nil {
		return fmt.Errorf("%w: data.variant: %v", ErrInvalidConfig, err)
	}

	switch strings.ToLower(cfg.Data.Locale) {
	case string(engine.LocaleEN), string(engine.LocaleID):
	default:
		return fmt.Errorf("%w: data.locale must be en or id, got %q", ErrInvalidConfig, cfg.Data.Locale)
	}

	if err := cfg.Classification.Thresholds.Validate(); err != nil {
		return fmt.Errorf("%w: classification.thresholds: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Classification.Percentiles.Validate(); err != nil {
		return fmt.Errorf("%w: classification.percentiles: %v", ErrInvalidConfig, err)
	}

	for dim := range cfg.Mappings {
		if !engine.VariantGraduation.HasDimension(engine.Dimension(dim)) {
			return fmt.Errorf("%w: mappings: unknown dimension %q", ErrInvalidConfig, dim)
		}
	}

	if _, err := export.ParseFormat(cfg.Export.Format); err != nil {
		return fmt.Errorf("%w: export.format: %v", ErrInvalidConfig, err)
	}

	if cfg.Server.Debounce < 0 {
		return fmt.Errorf("%w: server.debounce must be non-negative, got %s", ErrInvalidConfig, cfg.Server.Debounce)
	}

	return nil
}

// SaveDefault writes the default config into workDir/.prodistat/.
// Fails if a config file already exists.
func SaveDefault(workDir string) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}

	header := "# prodistat configuration\n# Flags and PRODISTAT_* environment variables override these values.\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}
	return configPath, nil
}

// CacheDir resolves the cache directory. A relative dir is taken from
// the working directory.
func (c *Config) CacheDir() string {
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	return ConfigDirName
}

// Variant returns the parsed data.variant.
func (c *Config) Variant() engine.Variant {
	v, err := engine.ParseVariant(c.Data.Variant)
	if err != nil {
		return engine.VariantAuto
	}
	return v
}

// EngineMappings converts configured mappings to engine form, on top of
// the built-in funding mapping.
func (c *Config) EngineMappings() engine.Mappings {
	m := engine.DefaultMappings()
	for dim, pairs := range c.Mappings {
		m[engine.Dimension(dim)] = engine.NewValueMapping(pairs)
	}
	return m
}

// EngineOptions builds the engine options this config implies.
// The variant is left to the caller, which knows the loaded snapshot.
func (c *Config) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithFundedValue(c.Data.FundedValue),
		engine.WithMappings(c.EngineMappings()),
		engine.WithThresholds(c.Classification.Thresholds),
		engine.WithPercentiles(c.Classification.Percentiles),
		engine.WithLocale(engine.ParseLocale(c.Data.Locale)),
	}
}
