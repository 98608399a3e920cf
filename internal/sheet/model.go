package sheet

import "time"

// Kind is the semantic type of a cell value.
type Kind uint8

const (
	Empty Kind = iota
	Int
	Float
	Date  // date or datetime; time of day is dropped on output
	Clock // time of day only
	Bool
	Text
	Other // anything else, rendered with fmt
)

// Value is an immutable cell value. Only the field matching Kind is meaningful.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Time  time.Time
	Bool  bool
	Text  string
	Raw   any
}

func EmptyValue() Value            { return Value{} }
func IntValue(i int64) Value       { return Value{Kind: Int, Int: i} }
func FloatValue(f float64) Value   { return Value{Kind: Float, Float: f} }
func DateValue(t time.Time) Value  { return Value{Kind: Date, Time: t} }
func ClockValue(t time.Time) Value { return Value{Kind: Clock, Time: t} }
func BoolValue(b bool) Value       { return Value{Kind: Bool, Bool: b} }
func TextValue(s string) Value     { return Value{Kind: Text, Text: s} }
func OtherValue(v any) Value       { return Value{Kind: Other, Raw: v} }

// Occupied reports whether the value counts toward the used range.
// Absent values and empty strings are unoccupied; whitespace is not trimmed.
func (v Value) Occupied() bool {
	switch v.Kind {
	case Empty:
		return false
	case Text:
		return v.Text != ""
	case Other:
		return v.Raw != nil
	default:
		return true
	}
}

// Sheet is an in-memory grid of values addressed 1-based by (row, col).
// Rows may be ragged; missing cells read as empty.
type Sheet struct {
	Name string
	rows [][]Value
}

func New(name string) *Sheet { return &Sheet{Name: name} }

// FromRows builds a sheet from 0-based row slices.
func FromRows(name string, rows [][]Value) *Sheet {
	return &Sheet{Name: name, rows: rows}
}

// Set stores v at (row, col), growing the grid as needed.
func (s *Sheet) Set(row, col int, v Value) {
	if row < 1 || col < 1 {
		return
	}
	for len(s.rows) < row {
		s.rows = append(s.rows, nil)
	}
	r := s.rows[row-1]
	for len(r) < col {
		r = append(r, Value{})
	}
	r[col-1] = v
	s.rows[row-1] = r
}

// Cell returns the value at (row, col) or an empty value outside the grid.
func (s *Sheet) Cell(row, col int) Value {
	if row < 1 || col < 1 || row > len(s.rows) {
		return Value{}
	}
	r := s.rows[row-1]
	if col > len(r) {
		return Value{}
	}
	return r[col-1]
}

// Rows returns the physical row count, trailing empty rows included.
func (s *Sheet) Rows() int { return len(s.rows) }

// Row returns the physical cells of a 1-based row.
func (s *Sheet) Row(row int) []Value {
	if row < 1 || row > len(s.rows) {
		return nil
	}
	return s.rows[row-1]
}

// Bounds is the used range of a sheet. MaxRow == 0 means nothing to emit.
type Bounds struct {
	MinCol int
	MaxCol int
	MaxRow int
}

func (b Bounds) Empty() bool { return b.MaxRow == 0 }

// Width is the number of columns in the rectangle.
func (b Bounds) Width() int { return b.MaxCol - b.MinCol + 1 }
