package engine

import "fmt"

// ============================================================================
// STATS — Headline numbers for the filtered population
// ============================================================================

// Stats summarizes the filtered population against the full snapshot.
type Stats struct {
	TotalRecords    int     `json:"total_records" yaml:"total_records"`
	FilteredRecords int     `json:"filtered_records" yaml:"filtered_records"`
	FilteredShare   float64 `json:"filtered_share" yaml:"filtered_share"`
	TotalAdmitted   int     `json:"total_admitted" yaml:"total_admitted"`
	ProgramCount    int     `json:"program_count" yaml:"program_count"`
	OverallRate     float64 `json:"overall_rate" yaml:"overall_rate"`
}

// BuildStats computes headline numbers. aggs must come from filtered.
func BuildStats(all, filtered RecordView, aggs []ProgramAggregate) Stats {
	s := Stats{
		TotalRecords:    all.Len(),
		FilteredRecords: filtered.Len(),
		ProgramCount:    len(aggs),
	}
	for _, a := range aggs {
		s.TotalAdmitted += a.PassedCount()
	}
	s.FilteredShare = Percent(s.FilteredRecords, s.TotalRecords)
	s.OverallRate = Percent(s.TotalAdmitted, s.FilteredRecords)
	return s
}

// Describe renders the stats as one human-readable line.
func (s Stats) Describe(l Locale) string {
	if l == LocaleID {
		return fmt.Sprintf("Menampilkan %s dari total data (%s dari %s pendaftar, %d program studi, tingkat penerimaan %s)",
			FormatPercent(s.FilteredShare), FormatInt(s.FilteredRecords), FormatInt(s.TotalRecords),
			s.ProgramCount, FormatPercent(s.OverallRate))
	}
	return fmt.Sprintf("Showing %s of data (%s of %s applicants, %d programs, overall admission rate %s)",
		FormatPercent(s.FilteredShare), FormatInt(s.FilteredRecords), FormatInt(s.TotalRecords),
		s.ProgramCount, FormatPercent(s.OverallRate))
}
