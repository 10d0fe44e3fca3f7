package engine

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST FIXTURES
// ============================================================================

func rec(program, outcome, funding, province string) ApplicantRecord {
	present := outcome != ""
	return ApplicantRecord{
		ProgramChoice:        program,
		FundingType:          funding,
		Province:             province,
		GraduationOutcomeRaw: outcome,
		OutcomePresent:       present,
		Outcome:              DeriveOutcome(outcome, present),
	}
}

// fiveRecords: A has 2 passed + 1 failed, B has 2 failed.
func fiveRecords() *Dataset {
	return NewDataset("fixture", []ApplicantRecord{
		rec("A", "A", "Bidik Misi", "Jawa Barat"),
		rec("A", "Tidak Lulus", "Reguler", "Jawa Barat"),
		rec("B", "Tidak Lulus", "Bidik Misi", "Banten"),
		rec("A", "A", "Reguler", "Banten"),
		rec("B", "", "Reguler", "Jawa Barat"),
	}, 0)
}

func rowsByName(rows []SummaryRow) map[string]SummaryRow {
	out := make(map[string]SummaryRow, len(rows))
	for _, r := range rows {
		out[r.ProgramName] = r
	}
	return out
}

// ============================================================================
// OUTCOME DERIVATION
// ============================================================================

func TestDeriveOutcome(t *testing.T) {
	tests := []struct {
		raw     string
		present bool
		want    OutcomeStatus
	}{
		{"Teknik Informatika", true, Passed},
		{"Tidak Lulus", true, NotPassed},
		{"  Tidak Lulus  ", true, NotPassed},
		{"tidak lulus", true, Passed},
		{"", false, NotPassed},
		{"Teknik Informatika", false, NotPassed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveOutcome(tt.raw, tt.present), "raw=%q present=%v", tt.raw, tt.present)
	}
}

// ============================================================================
// NORMALIZE
// ============================================================================

func TestNormalize(t *testing.T) {
	cols := Columns{
		ProgramChoice:     0,
		GraduationOutcome: 1,
		FundingType:       2,
		School:            3,
		Province:          4,
		Gender:            NoColumn,
	}
	rows := [][]string{
		{" Teknik Informatika ", "Teknik Informatika", " Bidik Misi ", "SMAN 1 Bandung ", "Jawa Barat"},
		{"Teknik Informatika", "Tidak Lulus ", "Reguler", "NaN", "Banten"},
		{"", "Tidak Lulus", "Reguler", "SMAN 2", "Banten"},
		{"NaN", "Matematika", "Reguler", "SMAN 3", "Banten"},
		{"Matematika", "", "Reguler", "SMAN 4", "Banten"},
		{"Matematika"},
	}

	ds := Normalize("test.csv", cols, rows)

	require.Equal(t, 4, ds.Len())
	assert.Equal(t, 2, ds.Dropped())
	assert.Equal(t, "test.csv", ds.Source())

	first := ds.Record(0)
	assert.Equal(t, "Teknik Informatika", first.ProgramChoice)
	assert.Equal(t, "Bidik Misi", first.FundingType)
	assert.Equal(t, "SMAN 1 Bandung", first.School)
	assert.Equal(t, Passed, first.Outcome)

	second := ds.Record(1)
	assert.Equal(t, NotPassed, second.Outcome)
	assert.Equal(t, "Tidak Lulus", second.GraduationOutcomeRaw)
	assert.Equal(t, "", second.School, "NaN school should become empty")

	third := ds.Record(2)
	assert.False(t, third.OutcomePresent)
	assert.Equal(t, NotPassed, third.Outcome)

	short := ds.Record(3)
	assert.Equal(t, "Matematika", short.ProgramChoice)
	assert.Equal(t, "", short.FundingType)
	assert.Equal(t, NotPassed, short.Outcome)
}

func TestNormalizeBlankOutcomeIsPresent(t *testing.T) {
	cols := Columns{ProgramChoice: 0, GraduationOutcome: 1, FundingType: 2, School: NoColumn, Province: NoColumn, Gender: NoColumn}
	rows := [][]string{
		{"Fisika", "   ", "Reguler"},
		{"Fisika", " NA ", "Reguler"},
		{"Fisika", "NA", "Reguler"},
		{"   ", "Fisika", "Reguler"},
	}

	ds := Normalize("blank.csv", cols, rows)
	require.Equal(t, 3, ds.Len())
	assert.Equal(t, 1, ds.Dropped())

	spaces := ds.Record(0)
	assert.True(t, spaces.OutcomePresent)
	assert.Equal(t, "", spaces.GraduationOutcomeRaw)
	assert.Equal(t, Passed, spaces.Outcome)

	padded := ds.Record(1)
	assert.True(t, padded.OutcomePresent)
	assert.Equal(t, Passed, padded.Outcome)

	na := ds.Record(2)
	assert.False(t, na.OutcomePresent)
	assert.Equal(t, NotPassed, na.Outcome)

	aggs := Aggregate(ds, DefaultFundedValue)
	require.Len(t, aggs, 1)
	assert.Equal(t, 2, aggs[0].PassedCount())
	assert.Equal(t, 1, aggs[0].NotPassedCount())
}

func TestCleanTextKeepsCompatibilityForms(t *testing.T) {
	assert.Equal(t, "Ｔｅｋｎｉｋ", CleanText(" Ｔｅｋｎｉｋ "))
	assert.Equal(t, "Kimia\u00b2", CleanText("Kimia\u00b2"))
	assert.Equal(t, "Caf\u00e9", CleanText("Cafe\u0301\t"))
}

func TestIsMissing(t *testing.T) {
	for _, v := range []string{"", "NaN", "nan", "NA", "null", "None", "#N/A"} {
		assert.True(t, IsMissing(v), "%q should be missing", v)
	}
	for _, v := range []string{"0", "Tidak Lulus", "Nanas", "   ", " NA "} {
		assert.False(t, IsMissing(v), "%q should not be missing", v)
	}
}

func TestDatasetRecordsIsCopy(t *testing.T) {
	ds := fiveRecords()
	recs := ds.Records()
	recs[0].ProgramChoice = "mutated"
	assert.Equal(t, "A", ds.Record(0).ProgramChoice)
}

// ============================================================================
// FILTERS
// ============================================================================

func TestApplyFiltersEmptyCriteriaReturnsView(t *testing.T) {
	ds := fiveRecords()
	got := ApplyFilters(ds, FilterCriteria{DimFunding: All, DimProvince: "Semua"}, DefaultMappings())
	assert.Equal(t, ds.Len(), got.Len())
}

func TestApplyFiltersMappedValue(t *testing.T) {
	ds := fiveRecords()
	got := ApplyFilters(ds, FilterCriteria{DimFunding: "Bidikmisi"}, DefaultMappings())
	require.Equal(t, 2, got.Len())
	for i := 0; i < got.Len(); i++ {
		assert.Equal(t, "Bidik Misi", got.Record(i).FundingType)
	}
}

func TestApplyFiltersIsSubsetAndAnded(t *testing.T) {
	ds := fiveRecords()
	criteria := FilterCriteria{DimFunding: "Reguler", DimProvince: "Banten"}
	got := ApplyFilters(ds, criteria, DefaultMappings())

	require.Equal(t, 1, got.Len())
	assert.Equal(t, "A", got.Record(0).ProgramChoice)
	assert.Equal(t, "Banten", got.Record(0).Province)
}

func TestApplyFiltersNoMatch(t *testing.T) {
	got := ApplyFilters(fiveRecords(), FilterCriteria{DimProvince: "Papua"}, DefaultMappings())
	assert.Equal(t, 0, got.Len())
}

func TestMappingsDisplay(t *testing.T) {
	m := DefaultMappings()
	assert.Equal(t, "Bidikmisi", m.Display(DimFunding, "Bidik Misi"))
	assert.Equal(t, "Reguler", m.Display(DimFunding, "Reguler"))
	assert.Equal(t, "Banten", m.Stored(DimProvince, "Banten"))
}

func TestDistinctValues(t *testing.T) {
	got := DistinctValues(fiveRecords(), DimProvince)
	if diff := cmp.Diff([]string{"Banten", "Jawa Barat"}, got); diff != "" {
		t.Errorf("DistinctValues mismatch (-want +got):\n%s", diff)
	}
}

// ============================================================================
// AGGREGATE
// ============================================================================

func TestAggregateSumInvariant(t *testing.T) {
	aggs := Aggregate(fiveRecords(), DefaultFundedValue)
	require.Len(t, aggs, 2)

	total := 0
	for _, a := range aggs {
		sum := 0
		rateSum := 0.0
		for _, s := range OutcomeStatuses {
			sum += a.OutcomeCounts[s]
			rate := a.OutcomeRate[s]
			assert.GreaterOrEqual(t, rate, 0.0)
			assert.LessOrEqual(t, rate, 100.0)
			rateSum += rate
		}
		assert.Equal(t, a.Total, sum, "outcome counts must sum to total for %s", a.ProgramName)
		assert.InDelta(t, 100.0, rateSum, 1e-9)
		assert.Greater(t, a.Total, 0)
		total += a.Total
	}
	assert.Equal(t, 5, total)
}

func TestAggregateFirstAppearanceOrder(t *testing.T) {
	aggs := Aggregate(fiveRecords(), DefaultFundedValue)
	assert.Equal(t, "A", aggs[0].ProgramName)
	assert.Equal(t, 0, aggs[0].FirstSeen)
	assert.Equal(t, "B", aggs[1].ProgramName)
	assert.Equal(t, 2, aggs[1].FirstSeen)
	assert.Equal(t, 1, aggs[0].FundedCount)
	assert.Equal(t, 1, aggs[1].FundedCount)
}

func TestAggregateEmpty(t *testing.T) {
	assert.Empty(t, Aggregate(NewDataset("", nil, 0), DefaultFundedValue))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 70.0, Percent(7, 10))
	assert.Equal(t, 40.0, Percent(2, 5))
	assert.Equal(t, 0.0, Percent(3, 0))
	assert.Equal(t, "66.7%", FormatPercent(Percent(2, 3)))
	assert.Equal(t, "33.3%", FormatPercent(Percent(1, 3)))
}

func TestFormatInt(t *testing.T) {
	assert.Equal(t, "999", FormatInt(999))
	assert.Equal(t, "1,000", FormatInt(1000))
	assert.Equal(t, "1,234,567", FormatInt(1234567))
	assert.Equal(t, "-12,005", FormatInt(-12005))
}

// ============================================================================
// CLASSIFY
// ============================================================================

func TestClassifyCompetitionBoundaries(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		rate float64
		want CompetitionCategory
	}{
		{100, HighChance},
		{70.0, HighChance},
		{69.9, MediumChance},
		{40.0, MediumChance},
		{39.9, LowChance},
		{0, LowChance},
		{Percent(7, 10), HighChance},
		{Percent(2, 5), MediumChance},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyCompetition(tt.rate, th), "rate=%v", tt.rate)
	}
}

func TestThresholdsValidate(t *testing.T) {
	assert.NoError(t, DefaultThresholds().Validate())
	assert.Error(t, Thresholds{High: 30, Medium: 40}.Validate())
	assert.Error(t, Thresholds{High: 120, Medium: 40}.Validate())
	assert.NoError(t, DefaultPercentiles().Validate())
	assert.Error(t, Percentiles{VeryPopular: 40, Popular: 50}.Validate())
}

func TestPercentileLinear(t *testing.T) {
	values := []float64{4, 1, 3, 2}
	assert.InDelta(t, 2.5, Percentile(values, 50), 1e-9)
	assert.InDelta(t, 3.4, Percentile(values, 80), 1e-9)
	assert.InDelta(t, 1.0, Percentile(values, 0), 1e-9)
	assert.InDelta(t, 4.0, Percentile(values, 100), 1e-9)
	assert.Equal(t, 5.0, Percentile([]float64{5}, 80))
	assert.Equal(t, 0.0, Percentile(nil, 80))

	// input is not reordered
	assert.Equal(t, []float64{4, 1, 3, 2}, values)
}

func TestClassifyPopularityUsesSingleCut(t *testing.T) {
	aggs := []ProgramAggregate{
		{ProgramName: "P1", Total: 1, OutcomeRate: map[OutcomeStatus]float64{}},
		{ProgramName: "P2", Total: 2, OutcomeRate: map[OutcomeStatus]float64{}},
		{ProgramName: "P3", Total: 3, OutcomeRate: map[OutcomeStatus]float64{}},
		{ProgramName: "P4", Total: 4, OutcomeRate: map[OutcomeStatus]float64{}},
	}
	cuts := Classify(aggs, DefaultThresholds(), DefaultPercentiles())

	assert.InDelta(t, 3.4, cuts.VeryPopular, 1e-9)
	assert.InDelta(t, 2.5, cuts.Popular, 1e-9)
	assert.Equal(t, Emerging, aggs[0].Popularity)
	assert.Equal(t, Emerging, aggs[1].Popularity)
	assert.Equal(t, Popular, aggs[2].Popularity)
	assert.Equal(t, VeryPopular, aggs[3].Popularity)
}

func TestClassifyPopularityAllEqualIsEmerging(t *testing.T) {
	cuts := PopularityCuts{VeryPopular: 5, Popular: 5}
	assert.Equal(t, Emerging, ClassifyPopularity(5, cuts))
}

func TestCompetitionLabels(t *testing.T) {
	assert.Equal(t, "High chance", HighChance.Label(LocaleEN))
	assert.Equal(t, "Peluang Rendah", LowChance.Label(LocaleID))
	assert.Equal(t, "Sedang", MediumChance.Informal())
	assert.Equal(t, "#dc3545", LowChance.Color())
}

// ============================================================================
// RANK + SEARCH
// ============================================================================

func TestRankStableByFirstAppearance(t *testing.T) {
	aggs := []ProgramAggregate{
		{ProgramName: "X", Total: 2, FirstSeen: 0},
		{ProgramName: "Y", Total: 5, FirstSeen: 1},
		{ProgramName: "Z", Total: 2, FirstSeen: 3},
	}
	rows := Rank(aggs)

	names := make([]string, len(rows))
	ranks := make([]int, len(rows))
	for i, r := range rows {
		names[i] = r.ProgramName
		ranks[i] = r.Rank
	}
	if diff := cmp.Diff([]string{"Y", "X", "Z"}, names); diff != "" {
		t.Errorf("rank order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{1, 2, 3}, ranks)

	// input untouched
	assert.Equal(t, "X", aggs[0].ProgramName)
}

func TestRankEmpty(t *testing.T) {
	rows := Rank(nil)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestSearch(t *testing.T) {
	rows := []SummaryRow{
		{Rank: 1, ProgramAggregate: ProgramAggregate{ProgramName: "Teknik Informatika"}},
		{Rank: 2, ProgramAggregate: ProgramAggregate{ProgramName: "Matematika"}},
		{Rank: 3, ProgramAggregate: ProgramAggregate{ProgramName: "TEKNIK SIPIL"}},
	}

	got := Search(rows, "tek")
	require.Len(t, got, 2)
	assert.Equal(t, "Teknik Informatika", got[0].ProgramName)
	assert.Equal(t, 3, got[1].Rank, "search must not re-rank")

	assert.Len(t, Search(rows, ""), 3)
	assert.Empty(t, Search(rows, "kedokteran"))
}

// ============================================================================
// EXECUTE
// ============================================================================

func TestExecuteFiveRecordScenario(t *testing.T) {
	result, err := Execute(fiveRecords(), FilterCriteria{DimFunding: All, DimProvince: All}, "")
	require.NoError(t, err)
	require.False(t, result.Empty)
	require.Len(t, result.Rows, 2)

	byName := rowsByName(result.Rows)

	a := byName["A"]
	assert.Equal(t, 1, a.Rank)
	assert.Equal(t, 3, a.Total)
	assert.Equal(t, 2, a.PassedCount())
	assert.Equal(t, 1, a.NotPassedCount())
	assert.Equal(t, "66.7%", a.PassedRateLabel)
	assert.Equal(t, "33.3%", a.NotPassedRateLabel)
	assert.Equal(t, MediumChance, a.Competition)
	assert.Equal(t, VeryPopular, a.Popularity)

	b := byName["B"]
	assert.Equal(t, 2, b.Rank)
	assert.Equal(t, 2, b.Total)
	assert.Equal(t, "0.0%", b.PassedRateLabel)
	assert.Equal(t, "100.0%", b.NotPassedRateLabel)
	assert.Equal(t, LowChance, b.Competition)
	assert.Equal(t, Emerging, b.Popularity)

	assert.Equal(t, 5, result.Stats.TotalRecords)
	assert.Equal(t, 5, result.Stats.FilteredRecords)
	assert.Equal(t, 2, result.Stats.TotalAdmitted)
	assert.Equal(t, 2, result.Stats.ProgramCount)
	assert.Equal(t, 40.0, result.Stats.OverallRate)
	assert.Equal(t, 100.0, result.Stats.FilteredShare)
}

func TestExecuteRankIsPermutation(t *testing.T) {
	result, err := Execute(fiveRecords(), nil, "")
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, r := range result.Ranked {
		seen[r.Rank] = true
	}
	for i := 1; i <= len(result.Ranked); i++ {
		assert.True(t, seen[i], "rank %d missing", i)
	}
}

func TestExecuteSearchKeepsRanks(t *testing.T) {
	result, err := Execute(fiveRecords(), nil, "b")
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "B", result.Rows[0].ProgramName)
	assert.Equal(t, 2, result.Rows[0].Rank)
	assert.Len(t, result.Ranked, 2)
}

func TestExecuteEmptyFilterResult(t *testing.T) {
	result, err := Execute(fiveRecords(), FilterCriteria{DimProvince: "Papua"}, "")
	require.NoError(t, err)
	assert.True(t, result.Empty)
	assert.Empty(t, result.Rows)
	assert.Equal(t, 0, result.Stats.FilteredRecords)
	assert.Equal(t, 5, result.Stats.TotalRecords)
	assert.Nil(t, BuildCharts(result.Rows, LocaleEN))
}

func TestExecuteNilView(t *testing.T) {
	_, err := Execute(nil, nil, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataUnavailable))

	var due *DataUnavailableError
	assert.True(t, errors.As(err, &due))
}

func TestExecuteTypedNilDataset(t *testing.T) {
	var ds *Dataset
	assert.Equal(t, 0, ds.Len())
	assert.Equal(t, ApplicantRecord{}, ds.Record(0))
	assert.Empty(t, ds.Records())

	require.NotPanics(t, func() {
		_, err := Execute(ds, nil, "")
		assert.True(t, errors.Is(err, ErrDataUnavailable))
	})
}

func TestExecuteFilteredPopulationDrivesCuts(t *testing.T) {
	result, err := Execute(fiveRecords(), FilterCriteria{DimFunding: "Bidikmisi"}, "")
	require.NoError(t, err)
	require.Len(t, result.Ranked, 2)
	for _, r := range result.Ranked {
		assert.Equal(t, 1, r.Total)
		assert.Equal(t, Emerging, r.Popularity, "equal totals never exceed the cut")
	}
}

// ============================================================================
// TABLE + CHARTS
// ============================================================================

func TestBuildTableAdmission(t *testing.T) {
	result, err := Execute(fiveRecords(), nil, "")
	require.NoError(t, err)

	table := Table(result)
	want := []string{"Rank", "Program Name", "Total Applicants", "Admitted", "Rejected", "Admission Rate", "Funded Applicants", "Category"}
	if diff := cmp.Diff(want, table.Headers()); diff != "" {
		t.Errorf("headers mismatch (-want +got):\n%s", diff)
	}
	wantRows := [][]string{
		{"1", "A", "3", "2", "1", "66.7%", "1", "Medium chance"},
		{"2", "B", "2", "0", "2", "0.0%", "1", "Low chance"},
	}
	if diff := cmp.Diff(wantRows, table.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTableGraduationIndonesian(t *testing.T) {
	result, err := Execute(fiveRecords(), nil, "", WithVariant(VariantGraduation))
	require.NoError(t, err)

	table := Table(result, WithLocale(LocaleID))
	assert.Equal(t, "Persentase Tidak Lulus", table.Columns[6].Label)
	assert.Equal(t, []string{"1", "A", "3", "2", "1", "66.7%", "33.3%", "1", "Sangat Populer"}, table.Rows[0])
}

func TestBuildTableIdempotent(t *testing.T) {
	result, err := Execute(fiveRecords(), nil, "")
	require.NoError(t, err)
	first := Table(result)
	second := Table(result)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("table not idempotent:\n%s", diff)
	}
}

func TestBuildCharts(t *testing.T) {
	result, err := Execute(fiveRecords(), nil, "")
	require.NoError(t, err)

	charts := BuildCharts(result.Rows, LocaleEN)
	require.NotNil(t, charts)

	assert.Equal(t, "pie", charts.Popularity.ChartType)
	assert.Len(t, charts.Popularity.Colors, 2)
	assert.Equal(t, []float64{0, 100}, charts.Acceptance.YRange)
	assert.Equal(t, 66.7, charts.Acceptance.Series[0].Data[0].Value)
	assert.Len(t, charts.Outcome.Series, 2)
	assert.Equal(t, "#ffc107", charts.Competition.Series[0].Data[0].Color)
	assert.Equal(t, "Sedang", charts.Competition.Series[0].Data[0].Note)
	assert.Equal(t, "Sulit", charts.Competition.Series[0].Data[1].Note)
}

func TestStatsDescribe(t *testing.T) {
	s := Stats{TotalRecords: 2000, FilteredRecords: 1000, FilteredShare: 50, ProgramCount: 3, OverallRate: 12.5}
	assert.Equal(t, "Showing 50.0% of data (1,000 of 2,000 applicants, 3 programs, overall admission rate 12.5%)", s.Describe(LocaleEN))
	assert.Contains(t, s.Describe(LocaleID), "Menampilkan 50.0%")
}

func TestCriteriaActive(t *testing.T) {
	c := FilterCriteria{DimFunding: " Reguler ", DimProvince: "all", DimGender: ""}
	assert.Equal(t, FilterCriteria{DimFunding: "Reguler"}, c.Active())
	assert.False(t, c.IsEmpty())
	assert.True(t, FilterCriteria{DimProvince: "Semua"}.IsEmpty())
}

func TestVariantDimensions(t *testing.T) {
	assert.True(t, VariantGraduation.HasDimension(DimGender))
	assert.False(t, VariantAdmission.HasDimension(DimGender))
	assert.False(t, Variant("other").Valid())
	assert.Equal(t, LocaleID, ParseLocale(" ID "))
	assert.Equal(t, LocaleEN, ParseLocale("fr"))
}

func TestCriteriaValidate(t *testing.T) {
	assert.NoError(t, FilterCriteria{DimFunding: "Reguler", DimProvince: All}.Validate(VariantAdmission))
	err := FilterCriteria{DimGender: "P"}.Validate(VariantAdmission)
	assert.True(t, errors.Is(err, ErrUnknownDimension))
	assert.NoError(t, FilterCriteria{DimGender: "P"}.Validate(VariantGraduation))
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("")
	require.NoError(t, err)
	assert.Equal(t, VariantAuto, v)
	v, err = ParseVariant(" Graduation ")
	require.NoError(t, err)
	assert.Equal(t, VariantGraduation, v)
	_, err = ParseVariant("enrolment")
	assert.Error(t, err)
}
