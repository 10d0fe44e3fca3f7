package engine

import (
	"time"

	"go.uber.org/zap"
)

// ============================================================================
// EXECUTOR — Full pipeline run
// ============================================================================
// Entry point: Execute(view, criteria, query, opts...)
//
// Pipeline:
//   1. Apply filters → SubView
//   2. Aggregate per program
//   3. Classify (competition + popularity, cuts computed once)
//   4. Rank
//   5. Search
//   6. Stats
//
// Every call recomputes from the snapshot. Nothing is cached between calls.
// ============================================================================

// Execute runs the pipeline over an immutable snapshot.
// A nil view is DataUnavailable; a filter combination that matches nothing
// returns an Empty result, not an error.
func Execute(view RecordView, criteria FilterCriteria, query string, opts ...Option) (*Result, error) {
	cfg := applyOptions(opts)
	if ds, ok := view.(*Dataset); view == nil || (ok && ds == nil) {
		return nil, Unavailable("", "no dataset loaded", nil)
	}

	start := time.Now()
	log := cfg.Logger.With(zap.String("variant", string(cfg.Variant)))

	active := criteria.Active()
	result := &Result{
		Variant:  cfg.Variant,
		Criteria: active,
		Query:    query,
		Rows:     []SummaryRow{},
		Ranked:   []SummaryRow{},
	}

	// 1. Filter
	filtered := ApplyFilters(view, active, cfg.Mappings)
	log.Debug("filters applied",
		zap.Int("records", view.Len()),
		zap.Int("filtered", filtered.Len()),
		zap.Any("criteria", active))

	if filtered.Len() == 0 {
		result.Empty = true
		result.Stats = BuildStats(view, filtered, nil)
		log.Debug("no records match filters")
		return result, nil
	}

	// 2. Aggregate
	aggs := Aggregate(filtered, cfg.FundedValue)

	// 3. Classify
	result.Cuts = Classify(aggs, cfg.Thresholds, cfg.Percentiles)

	// 4. Rank
	result.Ranked = Rank(aggs)

	// 5. Search
	result.Rows = Search(result.Ranked, query)

	// 6. Stats
	result.Stats = BuildStats(view, filtered, aggs)

	log.Debug("pipeline complete",
		zap.Int("programs", len(result.Ranked)),
		zap.Int("visible", len(result.Rows)),
		zap.Float64("cut_very_popular", result.Cuts.VeryPopular),
		zap.Float64("cut_popular", result.Cuts.Popular),
		zap.Duration("elapsed", time.Since(start)))

	return result, nil
}

// Table renders the visible rows of a result with the engine options
// that produced it.
func Table(result *Result, opts ...Option) *TableData {
	cfg := applyOptions(opts)
	if result == nil {
		return BuildTable(nil, cfg.Variant, cfg.Locale)
	}
	return BuildTable(result.Rows, result.Variant, cfg.Locale)
}
