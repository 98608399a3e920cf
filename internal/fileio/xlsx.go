package fileio

import (
	"bytes"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	excelize "github.com/xuri/excelize/v2"

	"csvexport-service/internal/sheet"
)

const msPerDay = 86400 * 1000

var (
	epoch1900 = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	epoch1904 = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)

	// quoted literals, escaped chars and bracket sections other than elapsed-time tokens
	rxFmtNoise = regexp.MustCompile(`"[^"]*"|\\.|\[(?:[^hms\]][^\]]*|[hms][^\]]*[^hms\]])\]`)
	rxFmtDate  = regexp.MustCompile(`(?i)[dmyhs]`)
	rxISODate  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
)

func readXLSX(r io.Reader) (*sheet.Sheet, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := f.GetSheetName(f.GetActiveSheetIndex())
	if name == "" {
		name = f.GetSheetName(0)
	}
	if name == "" {
		return nil, ErrNoSheet
	}

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	tp := &xlsxTyper{f: f, sheet: name, dateStyles: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		tp.date1904 = *props.Date1904
	}

	out := sheet.New(name)
	for ri, row := range rows {
		for ci, raw := range row {
			if raw == "" {
				continue
			}
			v, err := tp.value(ci+1, ri+1, raw)
			if err != nil {
				return nil, err
			}
			out.Set(ri+1, ci+1, v)
		}
	}
	return out, nil
}

// xlsxTyper turns raw stored strings back into typed values using the
// cell type and its number format.
type xlsxTyper struct {
	f          *excelize.File
	sheet      string
	date1904   bool
	dateStyles map[int]bool
}

func (t *xlsxTyper) value(col, row int, raw string) (sheet.Value, error) {
	_, numErr := strconv.ParseFloat(raw, 64)
	if numErr != nil && !rxISODate.MatchString(raw) && !isBoolWord(raw) {
		// text, error value or formula string
		return sheet.TextValue(raw), nil
	}

	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return sheet.Value{}, err
	}
	typ, err := t.f.GetCellType(t.sheet, cell)
	if err != nil {
		return sheet.Value{}, err
	}

	switch typ {
	case excelize.CellTypeBool:
		return sheet.BoolValue(raw == "1" || strings.EqualFold(raw, "true")), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return sheet.TextValue(raw), nil
	case excelize.CellTypeDate:
		if ts, ok := parseISO(raw); ok {
			return sheet.DateValue(ts), nil
		}
		return sheet.TextValue(raw), nil
	}

	if numErr != nil {
		return sheet.TextValue(raw), nil
	}

	isDate, err := t.isDateCell(cell)
	if err != nil {
		return sheet.Value{}, err
	}
	if isDate {
		f, _ := strconv.ParseFloat(raw, 64)
		return serialValue(f, t.date1904), nil
	}
	return numberValue(raw), nil
}

func (t *xlsxTyper) isDateCell(cell string) (bool, error) {
	idx, err := t.f.GetCellStyle(t.sheet, cell)
	if err != nil {
		return false, err
	}
	if d, ok := t.dateStyles[idx]; ok {
		return d, nil
	}
	st, err := t.f.GetStyle(idx)
	if err != nil {
		return false, err
	}
	d := isBuiltinDateFmt(st.NumFmt) || (st.CustomNumFmt != nil && IsDateFormat(*st.CustomNumFmt))
	t.dateStyles[idx] = d
	return d, nil
}

func isBoolWord(s string) bool {
	return strings.EqualFold(s, "true") || strings.EqualFold(s, "false")
}

func isBuiltinDateFmt(id int) bool {
	return (id >= 14 && id <= 22) || (id >= 45 && id <= 47)
}

// IsDateFormat reports whether a number format code renders dates or times.
func IsDateFormat(code string) bool {
	if code == "" || strings.EqualFold(code, "general") {
		return false
	}
	// only the positive section decides
	if i := strings.IndexByte(code, ';'); i >= 0 {
		code = code[:i]
	}
	code = rxFmtNoise.ReplaceAllString(code, "")
	return rxFmtDate.MatchString(code)
}

// numberValue: digits only -> Int, anything with a point or exponent -> Float.
// Integers too wide for int64 keep their digits as text.
func numberValue(raw string) sheet.Value {
	if !strings.ContainsAny(raw, ".eE") {
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return sheet.IntValue(i)
		}
		return sheet.TextValue(strings.TrimPrefix(raw, "+"))
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return sheet.TextValue(raw)
	}
	return sheet.FloatValue(f)
}

// serialValue converts a date serial number. Fractions are rounded to the
// millisecond; values below one day are a time of day.
func serialValue(f float64, date1904 bool) sheet.Value {
	day := math.Floor(f)
	ms := math.Round((f - day) * msPerDay)
	if f >= 0 && f < 1 && ms < msPerDay {
		return sheet.ClockValue(epoch1900.Add(time.Duration(ms) * time.Millisecond))
	}

	epoch := epoch1900
	if date1904 {
		epoch = epoch1904
	} else if f > 0 && f < 60 {
		// serials before 1900-03-01 sit before the phantom 1900-02-29
		day++
	}
	ts := epoch.AddDate(0, 0, int(day)).Add(time.Duration(ms) * time.Millisecond)
	return sheet.DateValue(ts)
}

func parseISO(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
