package engine

// ============================================================================
// CHART BUILDER — Chart data behind the dashboard views
// ============================================================================
// Produces ChartConfig values only. Color metadata lives here and nowhere
// in the table or export path.
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#8DD3C7", "#FFFFB3", "#BEBADA", "#FB8072", "#80B1D3",
	"#FDB462", "#B3DE69", "#FCCDE5", "#D9D9D9", "#BC80BD",
	"#CCEBC5", "#FFED6F",
}

const acceptanceColor = "#2E8B57"

// Charts groups the chart configs for one pipeline result.
type Charts struct {
	Popularity  *ChartConfig `json:"popularity"`
	Acceptance  *ChartConfig `json:"acceptance"`
	Outcome     *ChartConfig `json:"outcome"`
	Competition *ChartConfig `json:"competition"`
}

// BuildCharts derives all chart configs from ranked rows.
// Returns nil when there are no rows.
func BuildCharts(rows []SummaryRow, l Locale) *Charts {
	if len(rows) == 0 {
		return nil
	}
	return &Charts{
		Popularity:  buildPopularityChart(rows, l),
		Acceptance:  buildAcceptanceChart(rows, l),
		Outcome:     buildOutcomeChart(rows, l),
		Competition: buildCompetitionChart(rows, l),
	}
}

func buildPopularityChart(rows []SummaryRow, l Locale) *ChartConfig {
	points := make([]ChartPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, ChartPoint{Label: r.ProgramName, Value: float64(r.Total)})
	}
	return &ChartConfig{
		ChartType:  "pie",
		Title:      Label(l, "popularity_title"),
		Series:     []ChartSeries{{Name: Label(l, "applicants_axis"), Data: points}},
		Colors:     assignColors(len(points)),
		ShowLegend: true,
	}
}

func buildAcceptanceChart(rows []SummaryRow, l Locale) *ChartConfig {
	points := make([]ChartPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, ChartPoint{Label: r.ProgramName, Value: RoundTo1(r.PassedRate())})
	}
	return &ChartConfig{
		ChartType: "bar",
		Title:     Label(l, "acceptance_title"),
		XAxis:     Label(l, "program"),
		YAxis:     Label(l, "rate_axis"),
		YRange:    []float64{0, 100},
		Series:    []ChartSeries{{Name: Label(l, "admission_rate"), Data: points, Color: acceptanceColor}},
		ShowGrid:  true,
	}
}

func buildOutcomeChart(rows []SummaryRow, l Locale) *ChartConfig {
	keys := map[OutcomeStatus]string{Passed: "passed", NotPassed: "not_passed"}
	colors := map[OutcomeStatus]string{Passed: HighChance.Color(), NotPassed: LowChance.Color()}

	series := make([]ChartSeries, 0, len(OutcomeStatuses))
	for _, status := range OutcomeStatuses {
		points := make([]ChartPoint, 0, len(rows))
		for _, r := range rows {
			points = append(points, ChartPoint{Label: r.ProgramName, Value: RoundTo1(r.OutcomeRate[status])})
		}
		series = append(series, ChartSeries{Name: Label(l, keys[status]), Data: points, Color: colors[status]})
	}

	return &ChartConfig{
		ChartType:  "stacked_bar",
		Title:      Label(l, "outcome_title"),
		XAxis:      Label(l, "program"),
		YAxis:      Label(l, "rate_axis"),
		YRange:     []float64{0, 100},
		Series:     series,
		ShowLegend: true,
		ShowGrid:   true,
	}
}

func buildCompetitionChart(rows []SummaryRow, l Locale) *ChartConfig {
	points := make([]ChartPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, ChartPoint{
			Label: r.ProgramName,
			Value: RoundTo1(r.PassedRate()),
			Color: r.Competition.Color(),
			Note:  r.Competition.Informal(),
		})
	}
	return &ChartConfig{
		ChartType: "bar",
		Title:     Label(l, "category"),
		XAxis:     Label(l, "program"),
		YAxis:     Label(l, "rate_axis"),
		YRange:    []float64{0, 100},
		Series:    []ChartSeries{{Name: Label(l, "category"), Data: points}},
		ShowGrid:  true,
	}
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
