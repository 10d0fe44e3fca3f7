// Package export serializes a summary table to the supported download
// formats. Every format writes the same header row and the same rows in the
// same order; only the encoding differs.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/prodistat/engine"
)

// Format names an export encoding.
type Format string

const (
	CSV   Format = "csv"
	TSV   Format = "tsv"
	XLSX  Format = "xlsx"
	Table Format = "table"
	JSON  Format = "json"
	YAML  Format = "yaml"
)

// Formats lists every supported format.
var Formats = []Format{CSV, TSV, XLSX, Table, JSON, YAML}

// FilenamePrefix starts every generated download name.
const FilenamePrefix = "data_pendaftaran_univ_bandung_2023_"

// sheetName is the single worksheet written by the xlsx exporter.
const sheetName = "Summary"

// ParseFormat reads a format name. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return CSV, nil
	}
	if f == "yml" {
		return YAML, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Extension is the file extension for the format, without the dot.
func (f Format) Extension() string {
	if f == Table {
		return "txt"
	}
	return string(f)
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case TSV:
		return "text/tab-separated-values; charset=utf-8"
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case Table:
		return "text/plain; charset=utf-8"
	case JSON:
		return "application/json"
	case YAML:
		return "application/yaml"
	}
	return "text/csv; charset=utf-8"
}

// DefaultFilename builds the download name for an export made at now.
func DefaultFilename(now time.Time, f Format) string {
	return FilenamePrefix + now.Format("20060102_150405") + "." + f.Extension()
}

// Write serializes table in format f.
func Write(w io.Writer, f Format, table *engine.TableData) error {
	if table == nil {
		return fmt.Errorf("export: nil table")
	}
	switch f {
	case CSV, "":
		return writeDelimited(w, table, ',')
	case TSV:
		return writeDelimited(w, table, '\t')
	case XLSX:
		return writeXLSX(w, table)
	case Table:
		return writeTable(w, table)
	case JSON:
		return writeJSON(w, table)
	case YAML:
		return writeYAML(w, table)
	}
	return fmt.Errorf("unknown export format %q", f)
}

// ============================================================================
// DELIMITED
// ============================================================================

func writeDelimited(w io.Writer, table *engine.TableData, comma rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = comma

	if err := writer.Write(table.Headers()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range table.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ============================================================================
// XLSX
// ============================================================================

func writeXLSX(w io.Writer, table *engine.TableData) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, header := range table.Headers() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, bold); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := 14.0
		if table.Columns[i].Type == "text" {
			width = 32
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	for r, row := range table.Rows {
		for c, val := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			var v interface{} = val
			if c < len(table.Columns) && table.Columns[c].Type == "number" {
				if n, err := strconv.Atoi(val); err == nil {
					v = n
				}
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ============================================================================
// TERMINAL TABLE
// ============================================================================

func writeTable(w io.Writer, table *engine.TableData) error {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(table.Headers())
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)

	aligns := make([]int, len(table.Columns))
	for i, col := range table.Columns {
		switch col.Align {
		case "right":
			aligns[i] = tablewriter.ALIGN_RIGHT
		case "center":
			aligns[i] = tablewriter.ALIGN_CENTER
		default:
			aligns[i] = tablewriter.ALIGN_LEFT
		}
	}
	tw.SetColumnAlignment(aligns)
	tw.AppendBulk(table.Rows)
	tw.Render()
	return nil
}

// ============================================================================
// STRUCTURED
// ============================================================================

// document is the structured export shape: headers plus rows, in order.
type document struct {
	Title   string     `json:"title" yaml:"title"`
	Columns []string   `json:"columns" yaml:"columns"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

func newDocument(table *engine.TableData) document {
	rows := table.Rows
	if rows == nil {
		rows = [][]string{}
	}
	return document{Title: table.Title, Columns: table.Headers(), Rows: rows}
}

func writeJSON(w io.Writer, table *engine.TableData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newDocument(table)); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, table *engine.TableData) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(table)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
