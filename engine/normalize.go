package engine

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// ============================================================================
// NORMALIZER — Raw rows → immutable Dataset
// ============================================================================
// Column resolution happens in the schema package; this stage only needs
// the resolved indices. Rows without a program choice are dropped silently.
// ============================================================================

// NoColumn marks an optional column that is absent from the source.
const NoColumn = -1

// Columns holds the index of each known field in a raw row.
type Columns struct {
	ProgramChoice     int
	GraduationOutcome int
	FundingType       int
	School            int
	Province          int
	Gender            int
}

// missingTokens are cell values read as null, matching the NA markers
// spreadsheet and pandas exports produce.
var missingTokens = map[string]bool{
	"": true, "NA": true, "N/A": true, "n/a": true, "NaN": true, "nan": true,
	"-NaN": true, "-nan": true, "null": true, "NULL": true, "None": true,
	"<NA>": true, "#N/A": true, "#NA": true, "#N/A N/A": true,
	"1.#IND": true, "-1.#IND": true, "1.#QNAN": true, "-1.#QNAN": true,
}

// IsMissing reports whether a raw cell is null. Tokens match exactly;
// a cell of spaces is present.
func IsMissing(cell string) bool {
	return missingTokens[cell]
}

// CleanText trims, drops control characters and composes accents (NFC).
// Compatibility characters such as full-width letters are kept as typed.
func CleanText(s string) string {
	s = norm.NFC.String(s)
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// Normalize converts raw rows into a Dataset. Rows whose program choice is
// null or blank after trimming are dropped.
func Normalize(source string, cols Columns, rows [][]string) *Dataset {
	records := make([]ApplicantRecord, 0, len(rows))
	dropped := 0

	for _, row := range rows {
		program := cell(row, cols.ProgramChoice)
		if IsMissing(program) || CleanText(program) == "" {
			dropped++
			continue
		}

		rawOutcome := cell(row, cols.GraduationOutcome)
		present := !IsMissing(rawOutcome)

		rec := ApplicantRecord{
			ProgramChoice:  CleanText(program),
			School:         optional(row, cols.School),
			Province:       optional(row, cols.Province),
			Gender:         optional(row, cols.Gender),
			FundingType:    optional(row, cols.FundingType),
			OutcomePresent: present,
		}
		if present {
			rec.GraduationOutcomeRaw = strings.TrimSpace(rawOutcome)
		}
		rec.Outcome = DeriveOutcome(rec.GraduationOutcomeRaw, present)

		records = append(records, rec)
	}

	return &Dataset{records: records, source: source, dropped: dropped}
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// optional returns the cleaned value, or "" for null cells.
func optional(row []string, idx int) string {
	v := cell(row, idx)
	if IsMissing(v) {
		return ""
	}
	return CleanText(v)
}
