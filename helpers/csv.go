package helpers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/spektr-org/prodistat/engine"
	"github.com/spektr-org/prodistat/schema"
)

// ============================================================================
// LOADER — Source file → immutable engine.Dataset
// ============================================================================
// The caller decides where bytes come from (a path, an upload, a cache).
// These helpers turn raw bytes into a Dataset using schema resolution.
// Any failure to obtain a usable table surfaces as engine.ErrDataUnavailable.
// ============================================================================

// ReadTable reads a CSV header row and every data row.
// A UTF-8 or UTF-16 byte order mark is honoured and stripped. Rows may have
// fewer or more cells than the header. Rows the CSV reader rejects are skipped.
func ReadTable(r io.Reader) ([]string, [][]string, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, nil, errors.New("file is empty")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue // skip malformed rows
			}
			return nil, nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		rows = append(rows, row)
	}

	return headers, rows, nil
}

// ReadWorkbook reads the first sheet of an xlsx workbook as a table.
func ReadWorkbook(r io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.New("workbook has no sheets")
	}

	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(all) == 0 {
		return nil, nil, errors.New("file is empty")
	}
	return all[0], all[1:], nil
}

// ParseCSV parses CSV bytes into a Dataset.
// Variant VariantAuto (or "") picks a variant from the headers; the variant
// used is returned.
func ParseCSV(source string, data []byte, variant engine.Variant) (*engine.Dataset, engine.Variant, error) {
	headers, rows, err := ReadTable(bytes.NewReader(data))
	if err != nil {
		return nil, "", engine.Unavailable(source, "unreadable source", err)
	}
	return build(source, headers, rows, variant)
}

// ParseWorkbook parses xlsx bytes into a Dataset.
func ParseWorkbook(source string, data []byte, variant engine.Variant) (*engine.Dataset, engine.Variant, error) {
	headers, rows, err := ReadWorkbook(bytes.NewReader(data))
	if err != nil {
		return nil, "", engine.Unavailable(source, "unreadable source", err)
	}
	return build(source, headers, rows, variant)
}

// Parse dispatches on the source extension: .xlsx goes through the workbook
// reader, everything else is treated as CSV.
func Parse(source string, data []byte, variant engine.Variant) (*engine.Dataset, engine.Variant, error) {
	if IsWorkbook(source) {
		return ParseWorkbook(source, data, variant)
	}
	return ParseCSV(source, data, variant)
}

// IsWorkbook reports whether a path names an xlsx workbook.
func IsWorkbook(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

// ReadSource reads a file, mapping a missing or unreadable file to
// DataUnavailable.
func ReadSource(path string) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		return nil, engine.Unavailable("", "no data source configured", nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, engine.Unavailable(path, "file not found", err)
		}
		return nil, engine.Unavailable(path, "file not readable", err)
	}
	return data, nil
}

// LoadFile reads and parses a source file.
func LoadFile(path string, variant engine.Variant) (*engine.Dataset, engine.Variant, error) {
	data, err := ReadSource(path)
	if err != nil {
		return nil, "", err
	}
	return Parse(path, data, variant)
}

func build(source string, headers []string, rows [][]string, variant engine.Variant) (*engine.Dataset, engine.Variant, error) {
	if variant == "" || variant == engine.VariantAuto {
		variant = schema.DetectVariant(headers)
	}
	if !variant.Valid() {
		return nil, "", fmt.Errorf("unknown variant %q", variant)
	}

	cols, err := schema.Resolve(source, headers, schema.Default(variant))
	if err != nil {
		return nil, "", err
	}
	return engine.Normalize(source, cols, rows), variant, nil
}
