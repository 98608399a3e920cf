package fileio

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"csvexport-service/internal/sheet"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported workbook format")
	ErrNoSheet           = errors.New("workbook has no sheets")
)

// WorkbookLoadError: файл не удалось открыть/распарсить.
type WorkbookLoadError struct {
	Name string
	Err  error
}

func (e *WorkbookLoadError) Error() string {
	return fmt.Sprintf("load workbook %q: %v", e.Name, e.Err)
}

func (e *WorkbookLoadError) Unwrap() error { return e.Err }

var (
	magicZip  = []byte("PK\x03\x04")
	magicBIFF = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Load reads the active sheet of a workbook. The parser is picked by
// extension; unknown extensions are sniffed by their leading bytes.
// Every failure is a *WorkbookLoadError.
func Load(r io.Reader, filename string) (s *sheet.Sheet, err error) {
	// парсеры (особенно xls) паникуют на битых файлах
	defer func() {
		if rec := recover(); rec != nil {
			s, err = nil, &WorkbookLoadError{Name: filename, Err: fmt.Errorf("parser panic: %v", rec)}
		}
	}()

	br := bufio.NewReader(r)
	switch kindOf(br, filename) {
	case "xlsx":
		s, err = readXLSX(br)
	case "xls":
		s, err = readXLS(br)
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return nil, &WorkbookLoadError{Name: filename, Err: err}
	}
	return s, nil
}

func kindOf(br *bufio.Reader, filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return "xlsx"
	case ".xls":
		return "xls"
	}
	head, _ := br.Peek(len(magicBIFF))
	switch {
	case bytes.HasPrefix(head, magicZip):
		return "xlsx"
	case bytes.HasPrefix(head, magicBIFF):
		return "xls"
	}
	return ""
}

// OutputName drops the last extension and appends ".csv":
// "report.2024.xlsx" -> "report.2024.csv", "notes" -> "notes.csv".
func OutputName(filename string) string {
	base := filename
	if i := strings.LastIndexByte(filename, '.'); i >= 0 {
		base = filename[:i]
	}
	return base + ".csv"
}
