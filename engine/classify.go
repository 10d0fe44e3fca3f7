package engine

import (
	"fmt"
	"math"
	"sort"
)

// ============================================================================
// CLASSIFICATION — Competition bands and population-relative popularity
// ============================================================================

// ============================================================================
// COMPETITION
// ============================================================================

// CompetitionCategory bands a program by its admission rate.
type CompetitionCategory string

const (
	HighChance   CompetitionCategory = "high"
	MediumChance CompetitionCategory = "medium"
	LowChance    CompetitionCategory = "low"
)

// Label returns the display label in locale l.
func (c CompetitionCategory) Label(l Locale) string { return Label(l, string(c)) }

// Informal returns the short difficulty word used on competition charts.
func (c CompetitionCategory) Informal() string {
	switch c {
	case HighChance:
		return "Mudah"
	case MediumChance:
		return "Sedang"
	case LowChance:
		return "Sulit"
	}
	return ""
}

// Color is the chart color for the category. Chart output only.
func (c CompetitionCategory) Color() string {
	switch c {
	case HighChance:
		return "#28a745"
	case MediumChance:
		return "#ffc107"
	case LowChance:
		return "#dc3545"
	}
	return ""
}

// Thresholds are the inclusive lower bounds (percent) of the High and
// Medium bands. Anything below Medium is Low.
type Thresholds struct {
	High   float64 `json:"high" yaml:"high"`
	Medium float64 `json:"medium" yaml:"medium"`
}

// DefaultThresholds returns the 70/40 bands.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 70, Medium: 40}
}

// Validate checks 0 <= Medium <= High <= 100.
func (t Thresholds) Validate() error {
	if t.Medium < 0 || t.High > 100 || t.Medium > t.High {
		return fmt.Errorf("thresholds must satisfy 0 <= medium <= high <= 100, got medium=%g high=%g", t.Medium, t.High)
	}
	return nil
}

// ClassifyCompetition bands a passed rate: [High,100] High chance,
// [Medium,High) Medium chance, [0,Medium) Low chance.
func ClassifyCompetition(rate float64, t Thresholds) CompetitionCategory {
	switch {
	case rate >= t.High:
		return HighChance
	case rate >= t.Medium:
		return MediumChance
	default:
		return LowChance
	}
}

// ============================================================================
// POPULARITY
// ============================================================================

// PopularityCategory bands a program by applicant count relative to the
// other programs in the same filtered set.
type PopularityCategory string

const (
	VeryPopular PopularityCategory = "very_popular"
	Popular     PopularityCategory = "popular"
	Emerging    PopularityCategory = "emerging"
)

// Label returns the display label in locale l.
func (p PopularityCategory) Label(l Locale) string { return Label(l, string(p)) }

// Percentiles name the percentile ranks (0–100) that split popularity bands.
type Percentiles struct {
	VeryPopular float64 `json:"very_popular" yaml:"very_popular"`
	Popular     float64 `json:"popular" yaml:"popular"`
}

// DefaultPercentiles returns the 80th/50th split.
func DefaultPercentiles() Percentiles {
	return Percentiles{VeryPopular: 80, Popular: 50}
}

// Validate checks 0 <= Popular <= VeryPopular <= 100.
func (p Percentiles) Validate() error {
	if p.Popular < 0 || p.VeryPopular > 100 || p.Popular > p.VeryPopular {
		return fmt.Errorf("percentiles must satisfy 0 <= popular <= very_popular <= 100, got popular=%g very_popular=%g", p.Popular, p.VeryPopular)
	}
	return nil
}

// PopularityCuts are the applicant-count values at the configured
// percentiles for one filtered population.
type PopularityCuts struct {
	VeryPopular float64 `json:"very_popular" yaml:"very_popular"`
	Popular     float64 `json:"popular" yaml:"popular"`
}

// ComputePopularityCuts evaluates the percentiles once over all program totals.
func ComputePopularityCuts(aggs []ProgramAggregate, p Percentiles) PopularityCuts {
	totals := make([]float64, len(aggs))
	for i, a := range aggs {
		totals[i] = float64(a.Total)
	}
	sort.Float64s(totals)
	return PopularityCuts{
		VeryPopular: percentileSorted(totals, p.VeryPopular),
		Popular:     percentileSorted(totals, p.Popular),
	}
}

// ClassifyPopularity compares a total against precomputed cuts.
// Both comparisons are strict.
func ClassifyPopularity(total int, cuts PopularityCuts) PopularityCategory {
	t := float64(total)
	switch {
	case t > cuts.VeryPopular:
		return VeryPopular
	case t > cuts.Popular:
		return Popular
	default:
		return Emerging
	}
}

// Percentile returns the p-th percentile (0–100) of values using linear
// interpolation between closest ranks. Empty input yields 0.
func Percentile(values []float64, p float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return percentileSorted(sorted, p)
}

func percentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	p = math.Max(0, math.Min(100, p))
	h := float64(n-1) * p / 100
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// ============================================================================
// CLASSIFY ALL
// ============================================================================

// Classify assigns both categories to every aggregate in place and returns
// the popularity cuts it used. Cuts are computed once for the whole slice.
func Classify(aggs []ProgramAggregate, t Thresholds, p Percentiles) PopularityCuts {
	cuts := ComputePopularityCuts(aggs, p)
	for i := range aggs {
		aggs[i].Competition = ClassifyCompetition(aggs[i].PassedRate(), t)
		aggs[i].Popularity = ClassifyPopularity(aggs[i].Total, cuts)
	}
	return cuts
}
