package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"csvexport-service/internal/sheet"
)

type Config struct {
	Host           string
	Port           int
	AllowOrigins   []string
	LogLevel       string
	MaxUploadMB    int
	LogFile        string
	Workers        int
	ConvertTimeout time.Duration
	Quoting        string // minimal | none
	Width          string // used | sheet
}

func Load() Config {
	port, _ := strconv.Atoi(getenv("PORT", "8082"))
	mb, _ := strconv.Atoi(getenv("MAX_UPLOAD_MB", "256"))
	workers, _ := strconv.Atoi(getenv("WORKERS", "0"))
	timeout, err := time.ParseDuration(getenv("CONVERT_TIMEOUT", "60s"))
	if err != nil {
		timeout = 60 * time.Second
	}
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	return Config{
		Host:           getenv("HOST", "127.0.0.1"),
		Port:           port,
		AllowOrigins:   origins,
		LogLevel:       getenv("LOG_LEVEL", "info"),
		MaxUploadMB:    mb,
		LogFile:        getenv("LOG_FILE", "logs/csvexport-service.log"),
		Workers:        workers,
		ConvertTimeout: timeout,
		Quoting:        getenv("CSV_QUOTING", "minimal"),
		Width:          getenv("CSV_WIDTH", "used"),
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// CSVOptions: параметры эмиттера из конфига.
func (c Config) CSVOptions() (sheet.Options, error) {
	opt := sheet.DefaultOptions()
	q, err := sheet.ParseQuoting(c.Quoting)
	if err != nil {
		return opt, fmt.Errorf("CSV_QUOTING: %w", err)
	}
	w, err := sheet.ParseWidth(c.Width)
	if err != nil {
		return opt, fmt.Errorf("CSV_WIDTH: %w", err)
	}
	opt.Quoting, opt.Width = q, w
	return opt, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
