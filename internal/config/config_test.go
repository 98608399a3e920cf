package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvexport-service/internal/sheet"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"HOST", "PORT", "ALLOW_ORIGINS", "LOG_LEVEL", "MAX_UPLOAD_MB",
		"LOG_FILE", "WORKERS", "CONVERT_TIMEOUT", "CSV_QUOTING", "CSV_WIDTH"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "127.0.0.1:8082", cfg.Addr())
	assert.Equal(t, []string{"*"}, cfg.AllowOrigins)
	assert.Equal(t, 256, cfg.MaxUploadMB)
	assert.Equal(t, 60*time.Second, cfg.ConvertTimeout)

	opt, err := cfg.CSVOptions()
	require.NoError(t, err)
	assert.Equal(t, sheet.DefaultOptions(), opt)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ALLOW_ORIGINS", "http://a,http://b")
	t.Setenv("WORKERS", "3")
	t.Setenv("CONVERT_TIMEOUT", "5s")
	t.Setenv("CSV_QUOTING", "none")
	t.Setenv("CSV_WIDTH", "sheet")

	cfg := Load()
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.AllowOrigins)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 5*time.Second, cfg.ConvertTimeout)

	opt, err := cfg.CSVOptions()
	require.NoError(t, err)
	assert.Equal(t, sheet.QuoteNone, opt.Quoting)
	assert.Equal(t, sheet.WidthSheet, opt.Width)
}

func TestCSVOptionsInvalid(t *testing.T) {
	_, err := Config{Quoting: "always"}.CSVOptions()
	assert.ErrorContains(t, err, "CSV_QUOTING")

	_, err = Config{Width: "huge"}.CSVOptions()
	assert.ErrorContains(t, err, "CSV_WIDTH")
}

func TestSetupLoggerWritesFile(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	path := filepath.Join(t.TempDir(), "logs", "svc.log")
	var console bytes.Buffer
	logger := NewLogger(Config{LogLevel: "debug", LogFile: path}, &console)
	logger.Debug().Str("k", "v").Msg("hello")

	assert.Contains(t, console.String(), "hello")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
}
