package engine

import (
	"fmt"
	"strings"
)

// ============================================================================
// PRODISTAT ENGINE TYPES — Admission Records → Program Summary
// ============================================================================
// Records are loaded once and never mutated. Everything downstream
// (criteria, aggregates, summary rows) is rebuilt on every event.
// ============================================================================

// ============================================================================
// OUTCOME
// ============================================================================

// OutcomeStatus is the derived pass/fail state of one application.
type OutcomeStatus string

const (
	Passed    OutcomeStatus = "passed"
	NotPassed OutcomeStatus = "not_passed"
)

// OutcomeStatuses lists every status in display order.
var OutcomeStatuses = []OutcomeStatus{Passed, NotPassed}

// FailedOutcomeValue is the stored outcome text that marks a failed application.
const FailedOutcomeValue = "Tidak Lulus"

// DeriveOutcome applies the pass rule: a present outcome that is not
// "Tidak Lulus" after trimming counts as Passed.
func DeriveOutcome(raw string, present bool) OutcomeStatus {
	if present && strings.TrimSpace(raw) != FailedOutcomeValue {
		return Passed
	}
	return NotPassed
}

// ============================================================================
// RECORD
// ============================================================================

// ApplicantRecord is one cleaned admission application.
type ApplicantRecord struct {
	ProgramChoice        string        `json:"program_choice"`
	School               string        `json:"school"`
	Province             string        `json:"province,omitempty"`
	Gender               string        `json:"gender,omitempty"`
	FundingType          string        `json:"funding_type"`
	GraduationOutcomeRaw string        `json:"graduation_outcome_raw,omitempty"`
	OutcomePresent       bool          `json:"outcome_present"`
	Outcome              OutcomeStatus `json:"outcome"`
}

// Field returns the record value for a filter dimension.
func (r ApplicantRecord) Field(d Dimension) string {
	switch d {
	case DimFunding:
		return r.FundingType
	case DimProvince:
		return r.Province
	case DimGender:
		return r.Gender
	case DimSchool:
		return r.School
	case DimProgram:
		return r.ProgramChoice
	}
	return ""
}

// ============================================================================
// DIMENSIONS + VARIANTS
// ============================================================================

// Dimension names a categorical record field that can be filtered on.
type Dimension string

const (
	DimFunding  Dimension = "funding_type"
	DimProvince Dimension = "province"
	DimGender   Dimension = "gender"
	DimSchool   Dimension = "school"
	DimProgram  Dimension = "program_choice"
)

// Variant selects which flavour of the pipeline is active.
// The admission variant reports acceptance and competition; the graduation
// variant reports the full outcome breakdown and popularity.
type Variant string

const (
	VariantAdmission  Variant = "admission"
	VariantGraduation Variant = "graduation"

	// VariantAuto asks the loader to pick a variant from the source headers.
	VariantAuto Variant = "auto"
)

// FilterDimensions returns the dimensions a variant exposes for filtering.
func (v Variant) FilterDimensions() []Dimension {
	if v == VariantGraduation {
		return []Dimension{DimFunding, DimProvince, DimGender}
	}
	return []Dimension{DimFunding, DimProvince}
}

// HasDimension reports whether d is filterable under v.
func (v Variant) HasDimension(d Dimension) bool {
	for _, dim := range v.FilterDimensions() {
		if dim == d {
			return true
		}
	}
	return false
}

// Valid reports whether v is a known variant.
func (v Variant) Valid() bool {
	return v == VariantAdmission || v == VariantGraduation
}

// ParseVariant reads a variant name. Empty means auto.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case "", VariantAuto:
		return VariantAuto, nil
	case VariantAdmission, VariantGraduation:
		return v, nil
	}
	return "", fmt.Errorf("unknown variant %q (want admission, graduation or auto)", s)
}

// ============================================================================
// FILTER CRITERIA
// ============================================================================

// All is the sentinel filter value meaning "no constraint".
const All = "All"

// allAliases are accepted spellings of All. "Semua" is the Indonesian label.
var allAliases = []string{All, "Semua"}

// IsAll reports whether a filter value imposes no constraint.
func IsAll(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return true
	}
	for _, a := range allAliases {
		if strings.EqualFold(value, a) {
			return true
		}
	}
	return false
}

// FilterCriteria maps a dimension to its selected value.
// Dimensions are AND-combined. Missing dimensions and All impose nothing.
type FilterCriteria map[Dimension]string

// Active returns only the constraining entries, with values trimmed.
func (c FilterCriteria) Active() FilterCriteria {
	out := make(FilterCriteria, len(c))
	for dim, val := range c {
		if !IsAll(val) {
			out[dim] = strings.TrimSpace(val)
		}
	}
	return out
}

// IsEmpty returns true if no dimension constrains the record set.
func (c FilterCriteria) IsEmpty() bool {
	return len(c.Active()) == 0
}

// Validate rejects dimensions the variant does not filter on.
func (c FilterCriteria) Validate(v Variant) error {
	for dim := range c {
		if !v.HasDimension(dim) {
			return fmt.Errorf("%w: %q for %s variant", ErrUnknownDimension, dim, v)
		}
	}
	return nil
}

// Clone returns an independent copy.
func (c FilterCriteria) Clone() FilterCriteria {
	out := make(FilterCriteria, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// ============================================================================
// AGGREGATES
// ============================================================================

// ProgramAggregate is one row of per-program statistics.
type ProgramAggregate struct {
	ProgramName   string                    `json:"program_name" yaml:"program_name"`
	Total         int                       `json:"total" yaml:"total"`
	OutcomeCounts map[OutcomeStatus]int     `json:"outcome_counts" yaml:"outcome_counts"`
	OutcomeRate   map[OutcomeStatus]float64 `json:"outcome_rate" yaml:"outcome_rate"`
	FundedCount   int                       `json:"funded_count" yaml:"funded_count"`
	Competition   CompetitionCategory       `json:"competition_category" yaml:"competition_category"`
	Popularity    PopularityCategory        `json:"popularity_category" yaml:"popularity_category"`

	// FirstSeen is the index of the program's first record in the filtered view.
	FirstSeen int `json:"-" yaml:"-"`
}

// PassedCount is a shortcut for OutcomeCounts[Passed].
func (a ProgramAggregate) PassedCount() int { return a.OutcomeCounts[Passed] }

// NotPassedCount is a shortcut for OutcomeCounts[NotPassed].
func (a ProgramAggregate) NotPassedCount() int { return a.OutcomeCounts[NotPassed] }

// PassedRate is the admission rate in percent.
func (a ProgramAggregate) PassedRate() float64 { return a.OutcomeRate[Passed] }

// SummaryRow is a ranked ProgramAggregate ready for display or export.
type SummaryRow struct {
	Rank             int `json:"rank" yaml:"rank"`
	ProgramAggregate `yaml:",inline"`

	PassedRateLabel    string `json:"passed_rate_label" yaml:"passed_rate_label"`
	NotPassedRateLabel string `json:"not_passed_rate_label" yaml:"not_passed_rate_label"`
}

// ============================================================================
// RESULT
// ============================================================================

// Result is the output of one full pipeline run.
type Result struct {
	Variant  Variant        `json:"variant" yaml:"variant"`
	Criteria FilterCriteria `json:"criteria" yaml:"criteria"`
	Query    string         `json:"query,omitempty" yaml:"query,omitempty"`

	// Empty is set when the filters leave no records. Not an error.
	Empty bool `json:"empty" yaml:"empty"`

	// Ranked holds every program; Rows is the searched subset of Ranked.
	Ranked []SummaryRow `json:"-" yaml:"-"`
	Rows   []SummaryRow `json:"rows" yaml:"rows"`

	Cuts  PopularityCuts `json:"popularity_cuts" yaml:"popularity_cuts"`
	Stats Stats          `json:"stats" yaml:"stats"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData is the column-ordered rendering of summary rows.
// Every exporter serializes this shape.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Headers returns the column labels in order.
func (t *TableData) Headers() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Label
	}
	return out
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number", "percent"
	Align string `json:"align"` // "left", "center", "right"
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig describes the data behind one chart. Rendering is the UI's job.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	YRange     []float64     `json:"yRange,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`
	Note  string  `json:"note,omitempty"`
}
