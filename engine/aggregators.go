package engine

import (
	"fmt"
	"math"
)

// ============================================================================
// AGGREGATORS — Group-by program with outcome crosstab
// ============================================================================
// One pass over the filtered view. Groups come out in first-appearance
// order, which is the tie-break order used by ranking.
// ============================================================================

// Aggregate groups a view by program choice and computes counts, outcome
// rates and the funded-applicant count. Only programs with at least one
// record are materialized.
func Aggregate(view RecordView, fundedValue string) []ProgramAggregate {
	if view.Len() == 0 {
		return nil
	}

	index := make(map[string]int)
	groups := make([]ProgramAggregate, 0)

	for i := 0; i < view.Len(); i++ {
		rec := view.Record(i)
		pos, exists := index[rec.ProgramChoice]
		if !exists {
			pos = len(groups)
			index[rec.ProgramChoice] = pos
			groups = append(groups, ProgramAggregate{
				ProgramName:   rec.ProgramChoice,
				OutcomeCounts: newOutcomeCounts(),
				FirstSeen:     i,
			})
		}
		g := &groups[pos]
		g.Total++
		g.OutcomeCounts[rec.Outcome]++
		if rec.FundingType == fundedValue {
			g.FundedCount++
		}
	}

	for i := range groups {
		groups[i].OutcomeRate = OutcomeRates(groups[i].OutcomeCounts, groups[i].Total)
	}
	return groups
}

func newOutcomeCounts() map[OutcomeStatus]int {
	counts := make(map[OutcomeStatus]int, len(OutcomeStatuses))
	for _, s := range OutcomeStatuses {
		counts[s] = 0
	}
	return counts
}

// OutcomeRates converts counts to percentages of total. A zero total
// yields all-zero rates.
func OutcomeRates(counts map[OutcomeStatus]int, total int) map[OutcomeStatus]float64 {
	rates := make(map[OutcomeStatus]float64, len(OutcomeStatuses))
	for _, s := range OutcomeStatuses {
		rates[s] = Percent(counts[s], total)
	}
	return rates
}

// Percent returns part/whole*100, or 0 when whole is 0.
// The multiplication happens on integers so whole-number results are exact.
func Percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part*100) / float64(whole)
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatPercent renders a rate with one decimal and a trailing "%".
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// RoundTo1 rounds to 1 decimal place.
func RoundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
