package handler

import (
	"bytes"
	"context"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"csvexport-service/internal/compare"
	"csvexport-service/internal/convert/model"
	convSvc "csvexport-service/internal/convert/service"
	"csvexport-service/internal/fileio"
)

type batchError struct {
	Status    model.Status    `json:"status"`
	Converted int             `json:"converted"`
	Failed    int             `json:"failed"`
	Errors    []model.Failure `json:"errors"`
}

// Convert: POST /convert, multipart "files" (несколько). Ответ: ZIP с CSV.
// Итог пакета в заголовках X-Conversion-*; если не сконвертировано ничего: 422 + JSON.
func Convert(svc *convSvc.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := loggerFor(r, logger)

		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll()

		headers := r.MultipartForm.File["files"]
		headers = append(headers, r.MultipartForm.File["file"]...)
		if len(headers) == 0 {
			http.Error(w, "missing files", http.StatusBadRequest)
			return
		}

		opt, err := formOptions(r, svc.Options())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		inputs := make([]model.Input, 0, len(headers))
		for _, fh := range headers {
			in, err := readUpload(fh)
			if err != nil {
				http.Error(w, "read "+fh.Filename+": "+err.Error(), http.StatusBadRequest)
				return
			}
			inputs = append(inputs, in)
		}

		res := svc.BatchWith(r.Context(), inputs, opt)
		if res.Status == model.StatusFailed {
			_ = writeJSON(w, http.StatusUnprocessableEntity, batchError{
				Status: res.Status, Converted: res.Converted, Failed: res.Failed, Errors: res.Failures(),
			})
			return
		}

		var buf bytes.Buffer
		if err := convSvc.WriteArchive(&buf, res); err != nil {
			log.Error().Err(err).Msg("write archive")
			http.Error(w, "archive: "+err.Error(), http.StatusInternalServerError)
			return
		}

		h := w.Header()
		h.Set("Content-Type", "application/zip")
		h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": convSvc.ArchiveName}))
		h.Set("Cache-Control", "no-store")
		h.Set("X-Conversion-Status", string(res.Status))
		h.Set("X-Files-Converted", strconv.Itoa(res.Converted))
		h.Set("X-Files-Failed", strconv.Itoa(res.Failed))
		for _, f := range res.Failures() {
			h.Add("X-Conversion-Error", headerSafe(f.Name+": "+f.Error))
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			log.Error().Err(err).Msg("write zip")
			return
		}

		log.Info().
			Str("batch_id", res.ID).
			Int("files", len(inputs)).
			Int("converted", res.Converted).
			Int("failed", res.Failed).
			Dur("elapsed", time.Since(start)).
			Msg("convert done")
	}
}

// ConvertCSV: POST /convert/csv, multipart "file". Ответ: один CSV.
func ConvertCSV(svc *convSvc.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := loggerFor(r, logger)

		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll()

		fhs := r.MultipartForm.File["file"]
		if len(fhs) == 0 {
			http.Error(w, "missing file", http.StatusBadRequest)
			return
		}
		opt, err := formOptions(r, svc.Options())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		in, err := readUpload(fhs[0])
		if err != nil {
			http.Error(w, "read "+fhs[0].Filename+": "+err.Error(), http.StatusBadRequest)
			return
		}

		out, err := svc.ConvertWith(r.Context(), in, opt)
		if err != nil {
			var le *fileio.WorkbookLoadError
			switch {
			case errors.As(err, &le):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			case errors.Is(err, context.DeadlineExceeded):
				http.Error(w, err.Error(), http.StatusGatewayTimeout)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			log.Warn().Str("file", in.Name).Err(err).Msg("convert failed")
			return
		}

		disposition := "attachment"
		if toBool(r.FormValue("inline"), false) {
			disposition = "inline"
		}
		h := w.Header()
		h.Set("Content-Type", "text/csv; charset=utf-8")
		h.Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": fileio.OutputName(in.Name)}))
		h.Set("Cache-Control", "no-store")
		if _, err := w.Write(out); err != nil {
			log.Error().Err(err).Msg("write csv")
		}
	}
}

// Compare: POST /compare, multipart "a" и "b". Ответ: JSON compare.Diff.
func Compare(logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := loggerFor(r, logger)

		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll()

		a, err := readFormFile(r, "a")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b, err := readFormFile(r, "b")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		d, err := compare.Compare(a, b)
		if err != nil {
			http.Error(w, "decode: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := writeJSON(w, http.StatusOK, d); err != nil {
			log.Error().Err(err).Msg("write json")
			return
		}
		log.Debug().Bool("equal", d.Equal).Int("line", d.Line).Msg("compare done")
	}
}

// loggerFor берёт логгер из контекста (middleware.Logging), иначе общий.
func loggerFor(r *http.Request, fallback zerolog.Logger) zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l != nil && l.GetLevel() != zerolog.Disabled {
		return *l
	}
	return fallback
}
