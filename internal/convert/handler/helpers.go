package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"unicode/utf8"

	"csvexport-service/internal/convert/model"
	"csvexport-service/internal/sheet"
)

// память под multipart; остальное multipart сбрасывает во временные файлы
const multipartMemory = 32 << 20

// formOptions накладывает quoting/width/delimiter из формы на базовые опции.
func formOptions(r *http.Request, base sheet.Options) (sheet.Options, error) {
	opt := base
	if v := r.FormValue("quoting"); v != "" {
		q, err := sheet.ParseQuoting(v)
		if err != nil {
			return opt, err
		}
		opt.Quoting = q
	}
	if v := r.FormValue("width"); v != "" {
		w, err := sheet.ParseWidth(v)
		if err != nil {
			return opt, err
		}
		opt.Width = w
	}
	if v := r.FormValue("delimiter"); v != "" {
		d, size := utf8.DecodeRuneInString(v)
		if size != len(v) || d == '"' || d == '\r' || d == '\n' {
			return opt, fmt.Errorf("bad delimiter %q", v)
		}
		opt.Delimiter = d
	}
	return opt, nil
}

func readUpload(fh *multipart.FileHeader) (model.Input, error) {
	f, err := fh.Open()
	if err != nil {
		return model.Input{}, err
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return model.Input{}, err
	}
	return model.Input{Name: fh.Filename, Data: b}, nil
}

func readFormFile(r *http.Request, field string) ([]byte, error) {
	f, _, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing %s: %w", field, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

// headerSafe убирает переводы строк, чтобы значение можно было положить в заголовок.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

func toBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
