package sheet

import (
	"fmt"
	"math"
	"strconv"

	"csvexport-service/internal/utils"
)

const (
	dateLayout  = "02/01/2006"
	clockLayout = "15:04:05"

	// relative tolerance for "this float is really an integer"
	intTolerance = 1e-9
)

// CellFormatError reports a value whose kind the formatter does not know.
type CellFormatError struct {
	Kind Kind
}

func (e *CellFormatError) Error() string {
	return fmt.Sprintf("format cell: unsupported value kind %d", e.Kind)
}

// Format renders v the way a spreadsheet "Save as CSV" export does.
// It never fails: unknown kinds fall back to generic string conversion.
func Format(v Value) string {
	s, err := FormatStrict(v)
	if err != nil {
		if v.Raw == nil {
			return ""
		}
		return fmt.Sprint(v.Raw)
	}
	return s
}

// FormatStrict is Format that reports unknown kinds instead of guessing.
func FormatStrict(v Value) (string, error) {
	switch v.Kind {
	case Empty:
		return "", nil
	case Date:
		return v.Time.Format(dateLayout), nil
	case Clock:
		return formatClock(v), nil
	case Int:
		return strconv.FormatInt(v.Int, 10), nil
	case Float:
		return formatFloat(v.Float), nil
	case Bool:
		if v.Bool {
			return "True", nil
		}
		return "False", nil
	case Text:
		return v.Text, nil
	case Other:
		if v.Raw == nil {
			return "", nil
		}
		return fmt.Sprint(v.Raw), nil
	default:
		return "", &CellFormatError{Kind: v.Kind}
	}
}

func formatClock(v Value) string {
	s := v.Time.Format(clockLayout)
	if us := v.Time.Nanosecond() / 1000; us != 0 {
		s += fmt.Sprintf(".%06d", us)
	}
	return s
}

// formatFloat: integral values lose the decimal point, everything else gets
// two decimals in pt-BR notation padded by one space on each side.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	r := math.RoundToEven(f)
	if isClose(f, r) {
		if r == 0 {
			return "0"
		}
		return strconv.FormatFloat(r, 'f', 0, 64)
	}

	s := utils.FormatBR(f, 2)
	if f < 0 {
		s = "-" + s
	}
	return " " + s + " "
}

func isClose(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= intTolerance*math.Max(math.Abs(a), math.Abs(b))
}
