package engine

import "strings"

// ============================================================================
// LABELS — Display text for columns, categories and dimensions
// ============================================================================
// English is the default. The Indonesian set mirrors the labels used by the
// admissions office reports ("Program Studi", "Peluang Tinggi", ...).
// ============================================================================

// Locale selects a label set.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleID Locale = "id"
)

// ParseLocale maps a config string to a Locale, defaulting to English.
func ParseLocale(s string) Locale {
	if strings.EqualFold(strings.TrimSpace(s), string(LocaleID)) {
		return LocaleID
	}
	return LocaleEN
}

var labels = map[Locale]map[string]string{
	LocaleEN: {
		"rank":            "Rank",
		"program":         "Program Name",
		"total":           "Total Applicants",
		"admitted":        "Admitted",
		"rejected":        "Rejected",
		"admission_rate":  "Admission Rate",
		"passed":          "Passed",
		"not_passed":      "Not Passed",
		"passed_rate":     "Passed Rate",
		"not_passed_rate": "Not Passed Rate",
		"funded":          "Funded Applicants",
		"category":        "Category",
		"popularity":      "Popularity",

		"high":         "High chance",
		"medium":       "Medium chance",
		"low":          "Low chance",
		"very_popular": "Very popular",
		"popular":      "Popular",
		"emerging":     "Emerging",

		"funding_type":   "Funding Type",
		"province":       "Province",
		"gender":         "Gender",
		"school":         "School",
		"program_choice": "Program",

		"summary_title":    "Applicants per Program",
		"popularity_title": "Applicant Distribution per Program",
		"acceptance_title": "Admission Rate per Program",
		"outcome_title":    "Outcome Breakdown per Program",
		"rate_axis":        "Rate (%)",
		"applicants_axis":  "Applicants",
	},
	LocaleID: {
		"rank":            "Ranking",
		"program":         "Program Studi",
		"total":           "Total Pendaftar",
		"admitted":        "Diterima",
		"rejected":        "Tidak Diterima",
		"admission_rate":  "Tingkat Penerimaan",
		"passed":          "Lulus",
		"not_passed":      "Tidak Lulus",
		"passed_rate":     "Persentase Lulus",
		"not_passed_rate": "Persentase Tidak Lulus",
		"funded":          "Pendaftar Bidikmisi",
		"category":        "Kategori Peluang",
		"popularity":      "Kategori Popularitas",

		"high":         "Peluang Tinggi",
		"medium":       "Peluang Sedang",
		"low":          "Peluang Rendah",
		"very_popular": "Sangat Populer",
		"popular":      "Populer",
		"emerging":     "Berkembang",

		"funding_type":   "Jenis Pendanaan",
		"province":       "Asal Provinsi",
		"gender":         "Jenis Kelamin",
		"school":         "Sekolah",
		"program_choice": "Program Studi",

		"summary_title":    "Tabel Ringkasan per Program Studi",
		"popularity_title": "Distribusi Pendaftar per Program Studi",
		"acceptance_title": "Tingkat Penerimaan per Program Studi",
		"outcome_title":    "Status Kelulusan per Program Studi",
		"rate_axis":        "Persentase (%)",
		"applicants_axis":  "Jumlah Pendaftar",
	},
}

// Label returns the text for key in locale l, falling back to English.
func Label(l Locale, key string) string {
	if set, ok := labels[l]; ok {
		if v, ok := set[key]; ok {
			return v
		}
	}
	if v, ok := labels[LocaleEN][key]; ok {
		return v
	}
	return key
}

// LabelForDimension returns a display label for a dimension.
func LabelForDimension(l Locale, d Dimension) string {
	return Label(l, string(d))
}
