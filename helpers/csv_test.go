package helpers

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/prodistat/engine"
)

const admissionCSV = "\xEF\xBB\xBFPilihan 1,Lulus pada Prodi,bidikmisi,Sekolah,Provinsi\n" +
	"Teknik Informatika,Teknik Informatika,Bidik Misi,SMAN 1 Bandung,Jawa Barat\n" +
	"Teknik Informatika,Tidak Lulus,Reguler,SMAN 2 Bandung,Jawa Barat\n" +
	",Tidak Lulus,Reguler,SMAN 3 Bandung,Banten\n" +
	"Matematika,,Reguler,\"SMA \"\"Unggulan\"\"\",Banten\n"

const graduationCSV = "Pilihan 1,Lulus pada Prodi,bidikmisi,Provinsi,Jenis Kelamin\n" +
	"Fisika,Fisika,Reguler,Jawa Barat,L\n" +
	"Fisika,Tidak Lulus,Bidik Misi,Jawa Barat,P\n"

func TestParseCSVAdmission(t *testing.T) {
	ds, variant, err := ParseCSV("pendaftar.csv", []byte(admissionCSV), engine.VariantAuto)
	require.NoError(t, err)

	assert.Equal(t, engine.VariantAdmission, variant)
	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, 1, ds.Dropped())
	assert.Equal(t, "Teknik Informatika", ds.Record(0).ProgramChoice)
	assert.Equal(t, engine.Passed, ds.Record(0).Outcome)
	assert.Equal(t, engine.NotPassed, ds.Record(1).Outcome)
	assert.Equal(t, `SMA "Unggulan"`, ds.Record(2).School)
	assert.False(t, ds.Record(2).OutcomePresent)
}

func TestParseCSVDetectsGraduation(t *testing.T) {
	ds, variant, err := ParseCSV("lulus.csv", []byte(graduationCSV), "")
	require.NoError(t, err)
	assert.Equal(t, engine.VariantGraduation, variant)
	assert.Equal(t, "P", ds.Record(1).Gender)
}

func TestParseCSVMissingColumn(t *testing.T) {
	_, _, err := ParseCSV("broken.csv", []byte("Pilihan 1,Provinsi\nFisika,Banten\n"), engine.VariantAdmission)
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrDataUnavailable))
}

func TestParseCSVEmpty(t *testing.T) {
	_, _, err := ParseCSV("empty.csv", nil, engine.VariantAdmission)
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrDataUnavailable))
	assert.Contains(t, err.Error(), "file is empty")
}

func TestReadTableRaggedRows(t *testing.T) {
	headers, rows, err := ReadTable(strings.NewReader("a,b,c\n1\n1,2,3,4\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, headers)
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], 1)
	assert.Len(t, rows[1], 4)
}

func TestLoadFileNotFound(t *testing.T) {
	_, _, err := LoadFile(filepath.Join(t.TempDir(), "missing.csv"), engine.VariantAuto)
	require.Error(t, err)

	var due *engine.DataUnavailableError
	require.True(t, errors.As(err, &due))
	assert.Equal(t, "file not found", due.Reason)
}

func TestLoadFileNoPath(t *testing.T) {
	_, _, err := LoadFile("  ", engine.VariantAuto)
	assert.True(t, errors.Is(err, engine.ErrDataUnavailable))
}

func TestLoadFileCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(admissionCSV), 0644))

	ds, _, err := LoadFile(path, engine.VariantAdmission)
	require.NoError(t, err)
	assert.Equal(t, path, ds.Source())
	assert.Equal(t, 3, ds.Len())
}

func TestLoadFileWorkbook(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]string{
		{"Pilihan 1", "Lulus pada Prodi", "bidikmisi", "Provinsi"},
		{"Kimia", "Kimia", "Bidik Misi", "Banten"},
		{"Kimia", "Tidak Lulus", "Reguler", "Banten"},
	}
	for r, row := range rows {
		for c, val := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, val))
		}
	}
	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ds, variant, err := LoadFile(path, engine.VariantAuto)
	require.NoError(t, err)
	assert.Equal(t, engine.VariantAdmission, variant)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, engine.Passed, ds.Record(0).Outcome)
	assert.Equal(t, engine.NotPassed, ds.Record(1).Outcome)
}

func TestIsWorkbook(t *testing.T) {
	assert.True(t, IsWorkbook("data/FILE.XLSX"))
	assert.False(t, IsWorkbook("data.csv"))
}

func TestParseCSVBlankOutcomeCountsAsPassed(t *testing.T) {
	data := "Pilihan 1,Lulus pada Prodi,bidikmisi,Sekolah,Provinsi\n" +
		"Fisika,   ,Reguler,SMAN 1,Banten\n" +
		"Fisika,,Reguler,SMAN 2,Banten\n"

	ds, _, err := ParseCSV("blank.csv", []byte(data), engine.VariantAdmission)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	assert.True(t, ds.Record(0).OutcomePresent)
	assert.Equal(t, engine.Passed, ds.Record(0).Outcome)
	assert.False(t, ds.Record(1).OutcomePresent)
	assert.Equal(t, engine.NotPassed, ds.Record(1).Outcome)
}
