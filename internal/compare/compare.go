// Package compare checks whether two CSV exports are identical once line
// endings and the byte-order mark are normalized.
package compare

import (
	"bytes"
	"strings"

	"csvexport-service/internal/fileio"
)

const crlf = "\r\n"

var lineEnds = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Diff describes the outcome of a comparison. For unequal inputs Line is the
// 1-based index of the first differing line and A/B hold its content on each
// side; a side that ran out of lines reads as "".
type Diff struct {
	Equal bool   `json:"equal"`
	Line  int    `json:"line,omitempty"`
	A     string `json:"a"`
	B     string `json:"b"`
}

// Normalize decodes b ignoring a BOM and rewrites every line ending
// (CRLF, lone CR, lone LF) as CRLF.
func Normalize(b []byte) ([]byte, error) {
	txt, err := fileio.DecodeText(b)
	if err != nil {
		return nil, err
	}
	txt = lineEnds.Replace(txt)
	return []byte(strings.ReplaceAll(txt, "\n", crlf)), nil
}

// Compare normalizes both buffers and reports whether they match byte for byte.
func Compare(a, b []byte) (Diff, error) {
	na, err := Normalize(a)
	if err != nil {
		return Diff{}, err
	}
	nb, err := Normalize(b)
	if err != nil {
		return Diff{}, err
	}
	if bytes.Equal(na, nb) {
		return Diff{Equal: true}, nil
	}

	la := strings.Split(string(na), crlf)
	lb := strings.Split(string(nb), crlf)
	n := max(len(la), len(lb))
	for i := 0; i < n; i++ {
		var x, y string
		if i < len(la) {
			x = la[i]
		}
		if i < len(lb) {
			y = lb[i]
		}
		if x != y {
			return Diff{Line: i + 1, A: x, B: y}, nil
		}
	}
	// differs only by trailing empty lines
	return Diff{Line: n, A: "", B: ""}, nil
}
