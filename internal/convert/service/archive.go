package service

import (
	"archive/zip"
	"fmt"
	"io"
	"time"

	"csvexport-service/internal/convert/model"
)

// ArchiveName is the download name of a batch archive.
const ArchiveName = "converted.zip"

// WriteArchive writes every successful CSV of res into a deflate ZIP, in
// input order. Failed files are skipped.
func WriteArchive(w io.Writer, res model.Result) error {
	zw := zip.NewWriter(w)
	now := time.Now()
	for _, f := range res.Files {
		if !f.OK() {
			continue
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Output,
			Method:   zip.Deflate,
			Modified: now,
		})
		if err != nil {
			return fmt.Errorf("zip %s: %w", f.Output, err)
		}
		if _, err := fw.Write(f.CSV); err != nil {
			return fmt.Errorf("zip %s: %w", f.Output, err)
		}
	}
	return zw.Close()
}
