package sheet

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// BOM is the UTF-8 byte-order mark written at the start of every document.
var BOM = []byte{0xEF, 0xBB, 0xBF}

const lineEnd = "\r\n"

// Quoting selects how fields containing special characters are written.
type Quoting uint8

const (
	// QuoteMinimal wraps a field in quotes only when it contains the
	// delimiter, a quote or a line break; embedded quotes are doubled.
	QuoteMinimal Quoting = iota
	// QuoteNone writes fields verbatim, like the plain spreadsheet export.
	QuoteNone
)

// Width selects the emitted column window.
type Width uint8

const (
	// WidthUsed emits columns MinCol..MaxCol of the used range.
	WidthUsed Width = iota
	// WidthSheet emits columns 1..MaxCol, keeping leading empty columns.
	WidthSheet
)

type Options struct {
	Delimiter rune
	Quoting   Quoting
	Width     Width
}

func DefaultOptions() Options {
	return Options{Delimiter: ';', Quoting: QuoteMinimal, Width: WidthUsed}
}

func (q Quoting) String() string {
	if q == QuoteNone {
		return "none"
	}
	return "minimal"
}

func (w Width) String() string {
	if w == WidthSheet {
		return "sheet"
	}
	return "used"
}

func ParseQuoting(s string) (Quoting, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "minimal":
		return QuoteMinimal, nil
	case "none":
		return QuoteNone, nil
	}
	return QuoteMinimal, fmt.Errorf("unknown quoting %q (want minimal or none)", s)
}

func ParseWidth(s string) (Width, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "used":
		return WidthUsed, nil
	case "sheet":
		return WidthSheet, nil
	}
	return WidthUsed, fmt.Errorf("unknown width %q (want used or sheet)", s)
}

// Document formats every cell inside the emitted window. Rows run from 1
// through the last occupied row, interior empty rows included; all rows
// have the same number of fields.
func Document(s *Sheet, opt Options) [][]string {
	b := Detect(s)
	minCol := b.MinCol
	if opt.Width == WidthSheet {
		minCol = 1
	}

	out := make([][]string, 0, b.MaxRow)
	for r := 1; r <= b.MaxRow; r++ {
		fields := make([]string, 0, b.MaxCol-minCol+1)
		for c := minCol; c <= b.MaxCol; c++ {
			fields = append(fields, Format(s.Cell(r, c)))
		}
		out = append(out, fields)
	}
	return out
}

// Emit renders the sheet as BOM-prefixed UTF-8 CSV with CRLF line endings,
// including a terminator after the last row.
func Emit(s *Sheet, opt Options) []byte {
	if opt.Delimiter == 0 || !utf8.ValidRune(opt.Delimiter) {
		opt.Delimiter = ';'
	}
	delim := make([]byte, utf8.RuneLen(opt.Delimiter))
	utf8.EncodeRune(delim, opt.Delimiter)

	var buf bytes.Buffer
	buf.Write(BOM)
	for _, fields := range Document(s, opt) {
		for i, f := range fields {
			if i > 0 {
				buf.Write(delim)
			}
			if opt.Quoting == QuoteMinimal && needsQuote(f, opt.Delimiter) {
				buf.WriteByte('"')
				buf.WriteString(strings.ReplaceAll(f, `"`, `""`))
				buf.WriteByte('"')
				continue
			}
			buf.WriteString(f)
		}
		buf.WriteString(lineEnd)
	}
	return buf.Bytes()
}

func needsQuote(f string, delim rune) bool {
	return strings.ContainsRune(f, delim) || strings.ContainsAny(f, "\"\r\n")
}
