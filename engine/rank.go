package engine

import "sort"

// ============================================================================
// RANKING — Total-descending, first-appearance stable
// ============================================================================

// Rank orders aggregates by total applicants (descending) and assigns
// ranks 1..k. Equal totals keep first-appearance order.
func Rank(aggs []ProgramAggregate) []SummaryRow {
	if len(aggs) == 0 {
		return []SummaryRow{}
	}

	sorted := make([]ProgramAggregate, len(aggs))
	copy(sorted, aggs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Total != sorted[j].Total {
			return sorted[i].Total > sorted[j].Total
		}
		return sorted[i].FirstSeen < sorted[j].FirstSeen
	})

	rows := make([]SummaryRow, len(sorted))
	for i, a := range sorted {
		rows[i] = SummaryRow{
			Rank:               i + 1,
			ProgramAggregate:   a,
			PassedRateLabel:    FormatPercent(a.OutcomeRate[Passed]),
			NotPassedRateLabel: FormatPercent(a.OutcomeRate[NotPassed]),
		}
	}
	return rows
}
