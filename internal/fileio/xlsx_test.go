package fileio

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	excelize "github.com/xuri/excelize/v2"

	"csvexport-service/internal/sheet"
)

func workbookBytes(t *testing.T, fill func(f *excelize.File, sheetName string)) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	fill(f, f.GetSheetName(0))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestLoadXLSXTypedValues(t *testing.T) {
	data := workbookBytes(t, func(f *excelize.File, sh string) {
		require.NoError(t, f.SetCellValue(sh, "A1", "Name"))
		require.NoError(t, f.SetCellValue(sh, "B1", "Amount"))
		require.NoError(t, f.SetCellValue(sh, "C1", "Date"))
		require.NoError(t, f.SetCellValue(sh, "A2", "Widget"))
		require.NoError(t, f.SetCellValue(sh, "B2", 10.5))
		require.NoError(t, f.SetCellValue(sh, "C2", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))
		require.NoError(t, f.SetCellValue(sh, "D2", 42))
		require.NoError(t, f.SetCellValue(sh, "E2", true))
		require.NoError(t, f.SetCellStr(sh, "F2", "123"))
	})

	s, err := Load(bytes.NewReader(data), "book.xlsx")
	require.NoError(t, err)

	assert.Equal(t, sheet.TextValue("Name"), s.Cell(1, 1))
	assert.Equal(t, sheet.FloatValue(10.5), s.Cell(2, 2))
	assert.Equal(t, sheet.Date, s.Cell(2, 3).Kind)
	assert.Equal(t, "05/01/2024", sheet.Format(s.Cell(2, 3)))
	assert.Equal(t, sheet.IntValue(42), s.Cell(2, 4))
	assert.Equal(t, sheet.BoolValue(true), s.Cell(2, 5))
	assert.Equal(t, sheet.TextValue("123"), s.Cell(2, 6))

	assert.Equal(t, sheet.Bounds{MinCol: 1, MaxCol: 6, MaxRow: 2}, sheet.Detect(s))
}

func TestLoadXLSXCustomFormats(t *testing.T) {
	dateFmt := "dd/mm/yyyy"
	moneyFmt := `#,##0.00 "R$"`
	data := workbookBytes(t, func(f *excelize.File, sh string) {
		dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
		require.NoError(t, err)
		timeStyle, err := f.NewStyle(&excelize.Style{NumFmt: 20})
		require.NoError(t, err)
		moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
		require.NoError(t, err)

		require.NoError(t, f.SetCellValue(sh, "A1", 45296))
		require.NoError(t, f.SetCellStyle(sh, "A1", "A1", dateStyle))
		require.NoError(t, f.SetCellValue(sh, "B1", 0.4375))
		require.NoError(t, f.SetCellStyle(sh, "B1", "B1", timeStyle))
		require.NoError(t, f.SetCellValue(sh, "C1", 1234.5))
		require.NoError(t, f.SetCellStyle(sh, "C1", "C1", moneyStyle))
	})

	s, err := Load(bytes.NewReader(data), "formats.xlsx")
	require.NoError(t, err)

	assert.Equal(t, "05/01/2024", sheet.Format(s.Cell(1, 1)))
	assert.Equal(t, "10:30:00", sheet.Format(s.Cell(1, 2)))
	assert.Equal(t, " 1.234,50 ", sheet.Format(s.Cell(1, 3)))
}

func TestLoadXLSXActiveSheet(t *testing.T) {
	data := workbookBytes(t, func(f *excelize.File, sh string) {
		require.NoError(t, f.SetCellValue(sh, "A1", "first"))
		idx, err := f.NewSheet("Second")
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue("Second", "B2", "second"))
		f.SetActiveSheet(idx)
	})

	s, err := Load(bytes.NewReader(data), "multi.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "Second", s.Name)
	assert.Equal(t, sheet.TextValue("second"), s.Cell(2, 2))
}

func TestLoadSniffsUnknownExtension(t *testing.T) {
	data := workbookBytes(t, func(f *excelize.File, sh string) {
		require.NoError(t, f.SetCellValue(sh, "A1", "x"))
	})
	s, err := Load(bytes.NewReader(data), "upload.bin")
	require.NoError(t, err)
	assert.Equal(t, sheet.TextValue("x"), s.Cell(1, 1))
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		target   error
	}{
		{"corrupt xlsx", "broken.xlsx", []byte("definitely not a zip"), nil},
		{"corrupt xls", "broken.xls", []byte("definitely not biff"), nil},
		{"unknown format", "notes.txt", []byte("hello"), ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(bytes.NewReader(tt.data), tt.filename)
			require.Error(t, err)

			var le *WorkbookLoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tt.filename, le.Name)
			assert.Contains(t, err.Error(), tt.filename)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestIsDateFormat(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"General", false},
		{"0.00", false},
		{"#,##0.00", false},
		{`#,##0.00 "days"`, false},
		{"[Red]0.00", false},
		{`[$R$-416] #,##0.00`, false},
		{"0.00E+00", false},
		{"dd/mm/yyyy", true},
		{"yyyy-mm-dd hh:mm", true},
		{"h:mm AM/PM", true},
		{"[h]:mm:ss", true},
		{"[$-F800]dddd, mmmm dd, yyyy", true},
		{`0.0\s`, false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDateFormat(tt.code))
		})
	}
}

func TestSerialValue(t *testing.T) {
	assert.Equal(t, "05/01/2024", sheet.Format(serialValue(45296, false)))
	assert.Equal(t, "05/01/2024", sheet.Format(serialValue(45296.75, false)))
	// rounds up to the next midnight
	assert.Equal(t, "06/01/2024", sheet.Format(serialValue(45296.9999999999, false)))
	assert.Equal(t, "01/01/1900", sheet.Format(serialValue(1, false)))
	assert.Equal(t, "28/02/1900", sheet.Format(serialValue(59, false)))
	assert.Equal(t, "01/03/1900", sheet.Format(serialValue(61, false)))
	assert.Equal(t, "02/01/1904", sheet.Format(serialValue(1, true)))
	assert.Equal(t, "12:00:00", sheet.Format(serialValue(0.5, false)))
}

func TestNumberValue(t *testing.T) {
	assert.Equal(t, sheet.IntValue(5), numberValue("5"))
	assert.Equal(t, sheet.IntValue(-5), numberValue("-5"))
	assert.Equal(t, sheet.FloatValue(3), numberValue("3.0"))
	assert.Equal(t, sheet.FloatValue(100000), numberValue("1E5"))
	assert.Equal(t, sheet.TextValue("12345678901234567890"), numberValue("12345678901234567890"))
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "report.csv", OutputName("report.xlsx"))
	assert.Equal(t, "report.2024.csv", OutputName("report.2024.xlsm"))
	assert.Equal(t, "notes.csv", OutputName("notes"))
	assert.Equal(t, ".csv", OutputName(".xlsx"))
}
