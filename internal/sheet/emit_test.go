package sheet

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSheet() *Sheet {
	s := New("Sheet1")
	s.Set(1, 1, TextValue("Name"))
	s.Set(1, 2, TextValue("Amount"))
	s.Set(1, 3, TextValue("Date"))
	s.Set(2, 1, TextValue("Widget"))
	s.Set(2, 2, FloatValue(10.5))
	s.Set(2, 3, DateValue(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))
	return s
}

func parseCSV(t *testing.T, b []byte) [][]string {
	t.Helper()
	require.True(t, bytes.HasPrefix(b, BOM), "missing BOM")
	text := string(b[len(BOM):])
	require.True(t, strings.HasSuffix(text, "\r\n"), "missing trailing CRLF")
	var out [][]string
	for _, line := range strings.Split(strings.TrimSuffix(text, "\r\n"), "\r\n") {
		out = append(out, strings.Split(line, ";"))
	}
	return out
}

func TestEmitRoundTrip(t *testing.T) {
	got := parseCSV(t, Emit(sampleSheet(), DefaultOptions()))
	assert.Equal(t, [][]string{
		{"Name", "Amount", "Date"},
		{"Widget", " 10,50 ", "05/01/2024"},
	}, got)
}

func TestEmitExactBytes(t *testing.T) {
	want := "\xEF\xBB\xBFName;Amount;Date\r\nWidget; 10,50 ;05/01/2024\r\n"
	assert.Equal(t, want, string(Emit(sampleSheet(), DefaultOptions())))
}

func TestEmitEmptySheet(t *testing.T) {
	assert.Equal(t, BOM, Emit(New("Sheet1"), DefaultOptions()))
}

func TestEmitUsedWindow(t *testing.T) {
	s := New("Sheet1")
	s.Set(2, 2, TextValue("a"))
	s.Set(4, 4, IntValue(1))
	s.Set(9, 9, TextValue(""))

	out := string(Emit(s, DefaultOptions()))
	// row 1 and interior row 3 are kept, column A is trimmed
	assert.Equal(t, "\xEF\xBB\xBF;;\r\na;;\r\n;;\r\n;;1\r\n", out)

	doc := Document(s, DefaultOptions())
	require.Len(t, doc, Detect(s).MaxRow)
	for _, row := range doc {
		assert.Len(t, row, 3)
	}
}

func TestEmitSheetWidth(t *testing.T) {
	s := New("Sheet1")
	s.Set(1, 3, TextValue("c"))
	s.Set(2, 2, TextValue("b"))

	opt := DefaultOptions()
	opt.Width = WidthSheet
	assert.Equal(t, "\xEF\xBB\xBF;;c\r\n;b;\r\n", string(Emit(s, opt)))
}

func TestEmitQuoting(t *testing.T) {
	s := New("Sheet1")
	s.Set(1, 1, TextValue("a;b"))
	s.Set(1, 2, TextValue(`say "hi"`))
	s.Set(1, 3, TextValue("two\nlines"))
	s.Set(1, 4, TextValue("plain"))

	minimal := string(Emit(s, DefaultOptions()))
	assert.Equal(t, "\xEF\xBB\xBF\"a;b\";\"say \"\"hi\"\"\";\"two\nlines\";plain\r\n", minimal)

	opt := DefaultOptions()
	opt.Quoting = QuoteNone
	none := string(Emit(s, opt))
	assert.Equal(t, "\xEF\xBB\xBFa;b;say \"hi\";two\nlines;plain\r\n", none)
}

func TestEmitCustomDelimiter(t *testing.T) {
	opt := DefaultOptions()
	opt.Delimiter = '\t'
	out := string(Emit(sampleSheet(), opt))
	assert.Contains(t, out, "Name\tAmount\tDate\r\n")
}

func TestParseOptions(t *testing.T) {
	q, err := ParseQuoting("NONE")
	require.NoError(t, err)
	assert.Equal(t, QuoteNone, q)

	w, err := ParseWidth("sheet")
	require.NoError(t, err)
	assert.Equal(t, WidthSheet, w)

	_, err = ParseQuoting("always")
	assert.Error(t, err)
	_, err = ParseWidth("wide")
	assert.Error(t, err)
}

func TestEmitRaggedRows(t *testing.T) {
	s := FromRows("Sheet1", [][]Value{
		{TextValue("a")},
		nil,
		{EmptyValue(), EmptyValue(), IntValue(3)},
		{TextValue("")},
	})

	assert.Equal(t, Bounds{MinCol: 1, MaxCol: 3, MaxRow: 3}, Detect(s))
	assert.Equal(t, "\xEF\xBB\xBFa;;\r\n;;\r\n;;3\r\n", string(Emit(s, DefaultOptions())))
}
