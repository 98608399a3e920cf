// Парсер .xls: значения типизируем по их строковому виду.
package fileio

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	xls "github.com/extrame/xls"

	"csvexport-service/internal/sheet"
)

// .xls из 1С чаще всего cp1251, но иногда UTF-8/KOI8-R
var xlsCharsets = []string{"windows-1251", "utf-8", "koi8-r"}

// Row.LastCol() бывает занижен, поэтому просматриваем минимум столько колонок.
const xlsProbeCols = 512

func readXLS(r io.Reader) (*sheet.Sheet, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var wb *xls.WorkBook
	var lastErr error
	for _, ch := range xlsCharsets {
		wb, err = xls.OpenReader(bytes.NewReader(b), ch)
		if err == nil && wb != nil {
			lastErr = nil
			break
		}
		lastErr = err
	}
	if wb == nil {
		if lastErr == nil {
			lastErr = errors.New("xls: failed to open workbook")
		}
		return nil, lastErr
	}
	if wb.NumSheets() == 0 {
		return nil, ErrNoSheet
	}

	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, ErrNoSheet
	}

	out := sheet.New(ws.Name)
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			continue
		}
		last := row.LastCol()
		if last < xlsProbeCols {
			last = xlsProbeCols
		}
		for j := 0; j <= last; j++ {
			raw := row.Col(j)
			if raw == "" {
				continue
			}
			out.Set(i+1, j+1, xlsValue(raw))
		}
	}
	return out, nil
}

// xlsValue restores a typed value from the library's rendering: dates come
// back as RFC3339, numbers in plain decimal notation.
func xlsValue(raw string) sheet.Value {
	if rxISODate.MatchString(raw) {
		if ts, ok := parseISO(raw); ok {
			return sheet.DateValue(ts)
		}
	}
	if _, err := strconv.ParseFloat(raw, 64); err == nil && !strings.ContainsAny(raw, " \t") {
		return numberValue(raw)
	}
	return sheet.TextValue(raw)
}
