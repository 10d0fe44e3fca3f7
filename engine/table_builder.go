package engine

import "strconv"

// ============================================================================
// TABLE BUILDER — Produces TableData from ranked summary rows
// ============================================================================
// Column order is fixed per variant. Exporters serialize TableData as-is,
// so this is the single place that decides what an export contains.
// ============================================================================

// TableColumns returns the ordered columns for a variant.
func TableColumns(v Variant, l Locale) []Column {
	cols := []Column{
		{Key: "rank", Label: Label(l, "rank"), Type: "number", Align: "center"},
		{Key: "program", Label: Label(l, "program"), Type: "text", Align: "left"},
		{Key: "total", Label: Label(l, "total"), Type: "number", Align: "right"},
	}

	if v == VariantGraduation {
		cols = append(cols,
			Column{Key: "passed", Label: Label(l, "passed"), Type: "number", Align: "right"},
			Column{Key: "not_passed", Label: Label(l, "not_passed"), Type: "number", Align: "right"},
			Column{Key: "passed_rate", Label: Label(l, "passed_rate"), Type: "percent", Align: "right"},
			Column{Key: "not_passed_rate", Label: Label(l, "not_passed_rate"), Type: "percent", Align: "right"},
			Column{Key: "funded", Label: Label(l, "funded"), Type: "number", Align: "right"},
			Column{Key: "popularity", Label: Label(l, "popularity"), Type: "text", Align: "left"},
		)
		return cols
	}

	return append(cols,
		Column{Key: "admitted", Label: Label(l, "admitted"), Type: "number", Align: "right"},
		Column{Key: "rejected", Label: Label(l, "rejected"), Type: "number", Align: "right"},
		Column{Key: "admission_rate", Label: Label(l, "admission_rate"), Type: "percent", Align: "right"},
		Column{Key: "funded", Label: Label(l, "funded"), Type: "number", Align: "right"},
		Column{Key: "category", Label: Label(l, "category"), Type: "text", Align: "left"},
	)
}

// BuildTable renders summary rows in the variant's column order.
// Rows are emitted in the order given.
func BuildTable(rows []SummaryRow, v Variant, l Locale) *TableData {
	table := &TableData{
		Title:   Label(l, "summary_title"),
		Columns: TableColumns(v, l),
		Rows:    make([][]string, 0, len(rows)),
	}

	for _, r := range rows {
		cells := []string{
			strconv.Itoa(r.Rank),
			r.ProgramName,
			strconv.Itoa(r.Total),
			strconv.Itoa(r.PassedCount()),
			strconv.Itoa(r.NotPassedCount()),
			r.PassedRateLabel,
		}
		if v == VariantGraduation {
			cells = append(cells,
				r.NotPassedRateLabel,
				strconv.Itoa(r.FundedCount),
				r.Popularity.Label(l),
			)
		} else {
			cells = append(cells,
				strconv.Itoa(r.FundedCount),
				r.Competition.Label(l),
			)
		}
		table.Rows = append(table.Rows, cells)
	}

	return table
}
