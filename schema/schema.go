package schema

import (
	"github.com/spektr-org/prodistat/engine"
)

// ============================================================================
// SCHEMA — Describes the admission export columns the pipeline reads
// ============================================================================
// The admissions office export uses Indonesian headers ("Pilihan 1",
// "Lulus pada Prodi", ...). Aliases let English or snake_case exports load
// too. Header matching ignores case, surrounding spaces, and spaces vs
// underscores.
// ============================================================================

// Field identifies a logical column.
type Field string

const (
	FieldProgram  Field = "program_choice"
	FieldOutcome  Field = "graduation_outcome"
	FieldFunding  Field = "funding_type"
	FieldSchool   Field = "school"
	FieldProvince Field = "province"
	FieldGender   Field = "gender"
)

// ColumnMeta describes one logical column and the headers that name it.
type ColumnMeta struct {
	Field       Field    `json:"field" yaml:"field"`
	DisplayName string   `json:"displayName" yaml:"display_name"`
	Aliases     []string `json:"aliases" yaml:"aliases"`
	Required    bool     `json:"required" yaml:"required"`

	// Header is the matched source header, set by Discover.
	Header string `json:"header,omitempty" yaml:"header,omitempty"`
	Index  int    `json:"index" yaml:"index"`
}

// Config describes the column layout for one pipeline variant.
type Config struct {
	Name    string         `json:"name" yaml:"name"`
	Variant engine.Variant `json:"variant" yaml:"variant"`
	Columns []ColumnMeta   `json:"columns" yaml:"columns"`

	// Populated by Discover.
	SkippedColumns []SkippedColumn `json:"skippedColumns,omitempty" yaml:"skipped_columns,omitempty"`
}

// SkippedColumn records a source header no logical column claimed.
type SkippedColumn struct {
	Column string `json:"column" yaml:"column"`
	Reason string `json:"reason" yaml:"reason"`
}

// knownColumns lists every logical column with its accepted headers.
var knownColumns = []ColumnMeta{
	{Field: FieldProgram, DisplayName: "Pilihan 1", Aliases: []string{"Pilihan 1", "Pilihan1", "program_choice", "Program Choice", "Program"}},
	{Field: FieldOutcome, DisplayName: "Lulus pada Prodi", Aliases: []string{"Lulus pada Prodi", "graduation_outcome", "Graduation Outcome", "Outcome"}},
	{Field: FieldFunding, DisplayName: "bidikmisi", Aliases: []string{"bidikmisi", "Jenis Pendanaan", "funding_type", "Funding Type", "Funding"}},
	{Field: FieldSchool, DisplayName: "Sekolah", Aliases: []string{"Sekolah", "Asal Sekolah", "school"}},
	{Field: FieldProvince, DisplayName: "Provinsi", Aliases: []string{"Provinsi", "Asal Provinsi", "province"}},
	{Field: FieldGender, DisplayName: "Jenis Kelamin", Aliases: []string{"Jenis Kelamin", "JK", "gender", "Sex"}},
}

// requiredFields returns the columns a variant cannot run without.
func requiredFields(v engine.Variant) map[Field]bool {
	req := map[Field]bool{FieldProgram: true, FieldOutcome: true, FieldFunding: true}
	if v == engine.VariantGraduation {
		req[FieldGender] = true
	} else {
		req[FieldProvince] = true
	}
	return req
}

// Default returns the column layout for a variant.
func Default(v engine.Variant) Config {
	req := requiredFields(v)
	cols := make([]ColumnMeta, len(knownColumns))
	for i, c := range knownColumns {
		c.Aliases = append([]string(nil), c.Aliases...)
		c.Required = req[c.Field]
		c.Index = engine.NoColumn
		cols[i] = c
	}
	return Config{
		Name:    "Admission records (" + string(v) + ")",
		Variant: v,
		Columns: cols,
	}
}

// Column returns the metadata for a field.
func (c Config) Column(f Field) (ColumnMeta, bool) {
	for _, col := range c.Columns {
		if col.Field == f {
			return col, true
		}
	}
	return ColumnMeta{}, false
}

// RequiredFields returns the required fields in declaration order.
func (c Config) RequiredFields() []Field {
	var out []Field
	for _, col := range c.Columns {
		if col.Required {
			out = append(out, col.Field)
		}
	}
	return out
}
