package schema

import (
	"fmt"
	"strings"

	"github.com/spektr-org/prodistat/engine"
)

// ============================================================================
// DISCOVERY — Header names → column indices
// ============================================================================
// Headers are trimmed before matching. The first header that matches an
// alias claims the column; later duplicates are reported as skipped.
// ============================================================================

// Discover matches source headers against the config's columns.
// The returned Config has Header/Index filled in for every matched column.
func Discover(headers []string, cfg Config) Config {
	out := cfg
	out.Columns = make([]ColumnMeta, len(cfg.Columns))
	copy(out.Columns, cfg.Columns)
	out.SkippedColumns = nil

	claimed := make(map[int]bool)
	for ci := range out.Columns {
		col := &out.Columns[ci]
		col.Index = engine.NoColumn
		col.Header = ""

		aliases := make(map[string]bool, len(col.Aliases))
		for _, a := range col.Aliases {
			aliases[toSnakeCase(a)] = true
		}

		for hi, h := range headers {
			if claimed[hi] {
				continue
			}
			if aliases[toSnakeCase(strings.TrimSpace(h))] {
				col.Index = hi
				col.Header = strings.TrimSpace(h)
				claimed[hi] = true
				break
			}
		}
	}

	for hi, h := range headers {
		if claimed[hi] {
			continue
		}
		reason := "not used by the pipeline"
		if matchesAny(h, out.Columns) {
			reason = "duplicate of an earlier column"
		}
		out.SkippedColumns = append(out.SkippedColumns, SkippedColumn{
			Column: strings.TrimSpace(h),
			Reason: reason,
		})
	}

	return out
}

// Resolve maps headers to engine column indices and fails with
// DataUnavailable when a required column is absent.
func Resolve(source string, headers []string, cfg Config) (engine.Columns, error) {
	discovered := Discover(headers, cfg)

	var missing []string
	for _, f := range discovered.RequiredFields() {
		if col, _ := discovered.Column(f); col.Index == engine.NoColumn {
			missing = append(missing, fmt.Sprintf("%q", col.DisplayName))
		}
	}
	if len(missing) > 0 {
		return engine.Columns{}, engine.Unavailable(source,
			"missing required column "+strings.Join(missing, ", "), nil)
	}

	return engine.Columns{
		ProgramChoice:     discovered.index(FieldProgram),
		GraduationOutcome: discovered.index(FieldOutcome),
		FundingType:       discovered.index(FieldFunding),
		School:            discovered.index(FieldSchool),
		Province:          discovered.index(FieldProvince),
		Gender:            discovered.index(FieldGender),
	}, nil
}

// DetectVariant picks the graduation variant when the source has a gender
// column, otherwise admission.
func DetectVariant(headers []string) engine.Variant {
	cfg := Discover(headers, Default(engine.VariantGraduation))
	if cfg.index(FieldGender) != engine.NoColumn {
		return engine.VariantGraduation
	}
	return engine.VariantAdmission
}

func (c Config) index(f Field) int {
	if col, ok := c.Column(f); ok {
		return col.Index
	}
	return engine.NoColumn
}

func matchesAny(header string, cols []ColumnMeta) bool {
	key := toSnakeCase(strings.TrimSpace(header))
	for _, col := range cols {
		for _, a := range col.Aliases {
			if toSnakeCase(a) == key {
				return true
			}
		}
	}
	return false
}

// toSnakeCase converts "Column Name" → "column_name".
func toSnakeCase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
