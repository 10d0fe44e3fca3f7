package engine

import "go.uber.org/zap"

// ============================================================================
// ENGINE OPTIONS — Functional options for Execute()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Variant     Variant
	FundedValue string // funding_type value counted as a funded applicant
	Mappings    Mappings
	Thresholds  Thresholds
	Percentiles Percentiles
	Locale      Locale
	Logger      *zap.Logger
}

// DefaultFundedValue is the stored funding type of subsidized applicants.
const DefaultFundedValue = "Bidik Misi"

// WithVariant selects the admission or graduation pipeline.
func WithVariant(v Variant) Option {
	return func(c *config) {
		if v.Valid() {
			c.Variant = v
		}
	}
}

// WithFundedValue overrides which funding_type counts as funded.
func WithFundedValue(value string) Option {
	return func(c *config) {
		if value != "" {
			c.FundedValue = value
		}
	}
}

// WithMappings replaces the display→stored value tables used by filters.
func WithMappings(m Mappings) Option {
	return func(c *config) {
		c.Mappings = m
	}
}

// WithThresholds sets the competition category cut points (percent).
func WithThresholds(t Thresholds) Option {
	return func(c *config) {
		c.Thresholds = t
	}
}

// WithPercentiles sets which percentiles split the popularity categories.
func WithPercentiles(p Percentiles) Option {
	return func(c *config) {
		c.Percentiles = p
	}
}

// WithLocale selects column and category labels.
func WithLocale(l Locale) Option {
	return func(c *config) {
		c.Locale = l
	}
}

// WithLogger attaches a zap logger. The engine logs at debug level only.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Variant:     VariantAdmission,
		FundedValue: DefaultFundedValue,
		Mappings:    DefaultMappings(),
		Thresholds:  DefaultThresholds(),
		Percentiles: DefaultPercentiles(),
		Locale:      LocaleEN,
		Logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
