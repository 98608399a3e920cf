package fileio

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeText decodes CSV bytes to a string, dropping a leading UTF-8 BOM.
// Input that is not valid UTF-8 is detected with chardet and transcoded;
// Windows-1251 is the fallback for undetectable single-byte text.
func DecodeText(b []byte) (string, error) {
	if utf8.Valid(b) {
		out, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), b)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}

	enc := detectEncoding(b)
	out, _, err := transform.Bytes(enc.NewDecoder(), b)
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	return strings.TrimPrefix(string(out), "\uFEFF"), nil
}

func detectEncoding(b []byte) encoding.Encoding {
	peek := b
	if len(peek) > 2048 {
		peek = peek[:2048]
	}
	det, err := chardet.NewTextDetector().DetectBest(peek)
	if err != nil || det == nil {
		return charmap.Windows1251
	}
	cs := strings.ToLower(det.Charset)
	if cs == "utf-8" {
		// invalid UTF-8 misdetected as UTF-8
		return charmap.Windows1251
	}
	enc, err := htmlindex.Get(cs)
	if err != nil || enc == nil {
		return charmap.Windows1251
	}
	return enc
}
