package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger: человекочитаемый вывод в консоль + файл с ротацией.
// Пустой LogFile: только консоль.
func SetupLogger(cfg Config) zerolog.Logger {
	return NewLogger(cfg, os.Stdout)
}

// NewLogger: то же, но консольный вывод идёт в out (CLI пишет в stderr).
func NewLogger(cfg Config, out io.Writer) zerolog.Logger {
	writers := []io.Writer{zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}}
	if cfg.LogFile != "" {
		_ = os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755)
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		})
	}

	mw := zerolog.MultiLevelWriter(writers...)
	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	logger := zerolog.New(mw).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}
