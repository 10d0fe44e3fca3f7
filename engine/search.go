package engine

import (
	"strings"

	"golang.org/x/text/cases"
)

// Search keeps rows whose program name contains query, ignoring case.
// An empty query returns rows unchanged. Ranks are not reassigned.
func Search(rows []SummaryRow, query string) []SummaryRow {
	if query == "" {
		return rows
	}

	fold := cases.Fold()
	needle := fold.String(query)

	out := make([]SummaryRow, 0, len(rows))
	for _, r := range rows {
		if r.ProgramName == "" {
			continue
		}
		if strings.Contains(fold.String(r.ProgramName), needle) {
			out = append(out, r)
		}
	}
	return out
}
