package config

import (
	"time"

	"github.com/spektr-org/prodistat/engine"
)

// Default values.
const (
	DefaultDataPath = "data_pendaftaran.csv"
	DefaultAddr     = ":8080"
	DefaultDebounce = 300 * time.Millisecond
)

// DefaultConfig returns a new Config with every default filled in.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Path:        DefaultDataPath,
			Variant:     string(engine.VariantAuto),
			FundedValue: engine.DefaultFundedValue,
			Locale:      string(engine.LocaleEN),
		},
		Classification: ClassificationConfig{
			Thresholds:  engine.DefaultThresholds(),
			Percentiles: engine.DefaultPercentiles(),
		},
		Mappings: MappingsConfig{},
		Cache: CacheConfig{
			Dir: "",
		},
		Server: ServerConfig{
			Addr:     DefaultAddr,
			Debounce: DefaultDebounce,
		},
		Export: ExportConfig{
			Format: "csv",
		},
	}
}

// Merge fills zero values in loaded from defaults and returns loaded.
// A threshold or percentile pair counts as unset only when both halves are 0.
func Merge(loaded, defaults *Config) *Config {
	if loaded == nil {
		return defaults
	}
	if defaults == nil {
		return loaded
	}

	if loaded.Data.Path == "" {
		loaded.Data.Path = defaults.Data.Path
	}
	if loaded.Data.Variant == "" {
		loaded.Data.Variant = defaults.Data.Variant
	}
	if loaded.Data.FundedValue == "" {
		loaded.Data.FundedValue = defaults.Data.FundedValue
	}
	if loaded.Data.Locale == "" {
		loaded.Data.Locale = defaults.Data.Locale
	}

	if loaded.Classification.Thresholds == (engine.Thresholds{}) {
		loaded.Classification.Thresholds = defaults.Classification.Thresholds
	}
	if loaded.Classification.Percentiles == (engine.Percentiles{}) {
		loaded.Classification.Percentiles = defaults.Classification.Percentiles
	}

	if loaded.Mappings == nil {
		loaded.Mappings = defaults.Mappings
	}

	if loaded.Cache.Dir == "" {
		loaded.Cache.Dir = defaults.Cache.Dir
	}

	if loaded.Server.Addr == "" {
		loaded.Server.Addr = defaults.Server.Addr
	}
	if loaded.Server.Debounce == 0 {
		loaded.Server.Debounce = defaults.Server.Debounce
	}

	if loaded.Export.Format == "" {
		loaded.Export.Format = defaults.Export.Format
	}

	return loaded
}
