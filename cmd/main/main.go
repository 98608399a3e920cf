package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"csvexport-service/internal/config"
	convSvc "csvexport-service/internal/convert/service"
	serverhttp "csvexport-service/server/http"
)

func main() {
	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	opts, err := cfg.CSVOptions()
	if err != nil {
		logger.Fatal().Err(err).Msg("config")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := convSvc.New(convSvc.Config{
		Options: opts,
		Workers: cfg.Workers,
		Timeout: cfg.ConvertTimeout,
	}, logger, convSvc.NewMetrics(reg))

	r := serverhttp.NewRouter(cfg, logger, svc, reg)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r, ReadHeaderTimeout: 10 * time.Second}
	logger.Info().
		Str("addr", cfg.Addr()).
		Str("quoting", opts.Quoting.String()).
		Str("width", opts.Width.String()).
		Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}
