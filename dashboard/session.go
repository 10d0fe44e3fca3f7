// Package dashboard holds the interactive state behind the summary views:
// the loaded snapshot, the active filters and the search query. Every read
// reruns the engine pipeline over the snapshot; nothing derived is kept.
package dashboard

import (
	"io"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spektr-org/prodistat/engine"
	"github.com/spektr-org/prodistat/export"
)

// ErrUnknownDimension is returned by SetFilter and Options for dimensions
// the active variant does not expose.
var ErrUnknownDimension = engine.ErrUnknownDimension

// Session is one user's view over a snapshot. Safe for concurrent use;
// events are applied one at a time.
type Session struct {
	id string

	mu       sync.RWMutex
	data     *engine.Dataset
	variant  engine.Variant
	criteria engine.FilterCriteria
	query    string

	locale     engine.Locale
	mappings   engine.Mappings
	engineOpts []engine.Option
	log        *zap.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithLocale selects the label set for tables, charts and options.
func WithLocale(l engine.Locale) Option {
	return func(s *Session) { s.locale = l }
}

// WithMappings sets the display/stored value mappings used by filters and options.
func WithMappings(m engine.Mappings) Option {
	return func(s *Session) {
		if m != nil {
			s.mappings = m
		}
	}
}

// WithEngineOptions passes extra options (thresholds, percentiles, funded
// value) to every pipeline run.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(s *Session) { s.engineOpts = append(s.engineOpts, opts...) }
}

// NewSession creates a session over ds. A nil ds is allowed; reads then
// fail with engine.ErrDataUnavailable until Reload supplies data.
func NewSession(ds *engine.Dataset, variant engine.Variant, opts ...Option) *Session {
	s := &Session{
		id:       uuid.NewString(),
		data:     ds,
		variant:  variant,
		criteria: engine.FilterCriteria{},
		locale:   engine.LocaleEN,
		mappings: engine.DefaultMappings(),
		log:      zap.NewNop(),
	}
	if !variant.Valid() {
		s.variant = engine.VariantAdmission
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("session", s.id))
	return s
}

// ID is the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Variant is the active pipeline variant.
func (s *Session) Variant() engine.Variant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.variant
}

// Locale is the session's label set.
func (s *Session) Locale() engine.Locale { return s.locale }

// ============================================================================
// EVENTS
// ============================================================================

// SetFilter sets one dimension's value. All (or "Semua", or "") clears it.
func (s *Session) SetFilter(dim engine.Dimension, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := (engine.FilterCriteria{dim: value}).Validate(s.variant); err != nil {
		return err
	}
	if engine.IsAll(value) {
		delete(s.criteria, dim)
	} else {
		s.criteria[dim] = value
	}
	s.log.Debug("filter set", zap.String("dimension", string(dim)), zap.String("value", value))
	return nil
}

// ResetFilters clears every filter. The search query is kept.
func (s *Session) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = engine.FilterCriteria{}
	s.log.Debug("filters reset")
}

// SetSearch sets the program-name search query. "" clears it.
func (s *Session) SetSearch(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
	s.log.Debug("search set", zap.String("query", query))
}

// Criteria returns a copy of the active filters.
func (s *Session) Criteria() engine.FilterCriteria {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.criteria.Clone()
}

// Query returns the search query.
func (s *Session) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// Reload swaps in a new snapshot. Filters on dimensions the new variant
// does not expose are dropped; the rest are kept.
func (s *Session) Reload(ds *engine.Dataset, variant engine.Variant) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = ds
	if variant.Valid() {
		s.variant = variant
	}
	for dim := range s.criteria {
		if !s.variant.HasDimension(dim) {
			delete(s.criteria, dim)
		}
	}

	records := 0
	if ds != nil {
		records = ds.Len()
	}
	s.log.Info("snapshot reloaded", zap.String("variant", string(s.variant)), zap.Int("records", records))
}

// ============================================================================
// READS
// ============================================================================

// Summary runs the pipeline with the current filters and query.
func (s *Session) Summary() (*engine.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.execute()
}

// Table renders the current summary as a table.
func (s *Session) Table() (*engine.TableData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, err := s.execute()
	if err != nil {
		return nil, err
	}
	return engine.Table(result, engine.WithLocale(s.locale)), nil
}

// Export writes the visible summary rows to w in format f.
func (s *Session) Export(w io.Writer, f export.Format) error {
	table, err := s.Table()
	if err != nil {
		return err
	}
	return export.Write(w, f, table)
}

// Stats returns the headline numbers for the current filters.
func (s *Session) Stats() (engine.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, err := s.execute()
	if err != nil {
		return engine.Stats{}, err
	}
	return result.Stats, nil
}

// Charts returns chart data for the visible rows, or nil when nothing is visible.
func (s *Session) Charts() (*engine.Charts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, err := s.execute()
	if err != nil {
		return nil, err
	}
	return engine.BuildCharts(result.Rows, s.locale), nil
}

// Options lists the selectable values for a dimension: All first, then
// the distinct values of the full snapshot as display labels, sorted.
func (s *Session) Options(dim engine.Dimension) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := (engine.FilterCriteria{dim: engine.All}).Validate(s.variant); err != nil {
		return nil, err
	}
	if s.data == nil {
		return nil, engine.Unavailable("", "no dataset loaded", nil)
	}

	values := engine.DistinctValues(s.data, dim)
	out := make([]string, 0, len(values)+1)
	out = append(out, AllLabel(s.locale))
	for _, v := range values {
		out = append(out, s.mappings.Display(dim, v))
	}
	return out, nil
}

// AllLabel is the "no filter" option text for a locale.
func AllLabel(l engine.Locale) string {
	if l == engine.LocaleID {
		return "Semua"
	}
	return engine.All
}

// execute runs the pipeline. Callers hold at least the read lock.
func (s *Session) execute() (*engine.Result, error) {
	if s.data == nil {
		return nil, engine.Unavailable("", "no dataset loaded", nil)
	}

	opts := make([]engine.Option, 0, len(s.engineOpts)+4)
	opts = append(opts, s.engineOpts...)
	opts = append(opts,
		engine.WithVariant(s.variant),
		engine.WithMappings(s.mappings),
		engine.WithLocale(s.locale),
		engine.WithLogger(s.log),
	)
	return engine.Execute(s.data, s.criteria, s.query, opts...)
}
