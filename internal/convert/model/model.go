package model

import "time"

// Input: один загруженный файл: имя (для имени CSV) и сырые байты книги.
type Input struct {
	Name string
	Data []byte
}

type FileResult struct {
	Name    string        // исходное имя файла
	Output  string        // имя CSV в архиве
	CSV     []byte        // тело CSV (BOM + CRLF)
	Err     error         // причина ошибки, если файл не сконвертирован
	Elapsed time.Duration // время конвертации
}

func (r FileResult) OK() bool { return r.Err == nil }

type Status string

const (
	StatusOK      Status = "ok"      // все файлы сконвертированы
	StatusPartial Status = "partial" // часть с ошибками
	StatusFailed  Status = "failed"  // ни одного
)

type Failure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

type Result struct {
	ID        string       `json:"id"`
	Files     []FileResult `json:"-"`
	Converted int          `json:"converted"`
	Failed    int          `json:"failed"`
	Status    Status       `json:"status"`
}

// Failures lists failed files in input order.
func (r Result) Failures() []Failure {
	out := make([]Failure, 0, r.Failed)
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, Failure{Name: f.Name, Error: f.Err.Error()})
		}
	}
	return out
}

// StatusFor maps counts to a batch status. An empty batch counts as failed.
func StatusFor(converted, failed int) Status {
	switch {
	case converted > 0 && failed == 0:
		return StatusOK
	case converted > 0:
		return StatusPartial
	default:
		return StatusFailed
	}
}
