package service

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"csvexport-service/internal/convert/model"
	"csvexport-service/internal/fileio"
	"csvexport-service/internal/sheet"
)

type Config struct {
	Options sheet.Options
	Workers int           // <= 0: GOMAXPROCS
	Timeout time.Duration // per file, 0 = none
}

// Service converts workbooks to CSV. It holds no per-workbook state and is
// safe for concurrent use.
type Service struct {
	cfg     Config
	log     zerolog.Logger
	metrics *Metrics
}

func New(cfg Config, logger zerolog.Logger, m *Metrics) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Options.Delimiter == 0 {
		cfg.Options.Delimiter = ';'
	}
	return &Service{cfg: cfg, log: logger, metrics: m}
}

func (s *Service) Options() sheet.Options { return s.cfg.Options }

// Convert loads one workbook and emits its active sheet as CSV.
// Load failures come back as *fileio.WorkbookLoadError.
func (s *Service) Convert(ctx context.Context, in model.Input) ([]byte, error) {
	return s.ConvertWith(ctx, in, s.cfg.Options)
}

// ConvertWith is Convert with per-call emitter options.
func (s *Service) ConvertWith(ctx context.Context, in model.Input, opt sheet.Options) ([]byte, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("convert %q: %w", in.Name, err)
	}

	type out struct {
		csv []byte
		err error
	}
	done := make(chan out, 1)
	go func() {
		sh, err := fileio.Load(bytes.NewReader(in.Data), in.Name)
		if err != nil {
			done <- out{err: err}
			return
		}
		done <- out{csv: sheet.Emit(sh, opt)}
	}()

	// парсер не прерывается: по таймауту просто бросаем результат
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("convert %q: %w", in.Name, ctx.Err())
	case o := <-done:
		return o.csv, o.err
	}
}

// Batch converts every input concurrently. A failed file never stops the
// others; results keep input order.
func (s *Service) Batch(ctx context.Context, inputs []model.Input) model.Result {
	return s.BatchWith(ctx, inputs, s.cfg.Options)
}

func (s *Service) BatchWith(ctx context.Context, inputs []model.Input, opt sheet.Options) model.Result {
	start := time.Now()
	res := model.Result{
		ID:    uuid.NewString(),
		Files: make([]model.FileResult, len(inputs)),
	}
	log := s.log.With().Str("batch_id", res.ID).Logger()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i, in := range inputs {
		g.Go(func() error {
			t0 := time.Now()
			csv, err := s.ConvertWith(gctx, in, opt)
			fr := model.FileResult{
				Name:    in.Name,
				Output:  fileio.OutputName(in.Name),
				CSV:     csv,
				Err:     err,
				Elapsed: time.Since(t0),
			}
			res.Files[i] = fr
			s.metrics.observe(fr.OK(), fr.Elapsed)

			if err != nil {
				log.Warn().Str("file", in.Name).Err(err).Msg("convert failed")
			} else {
				log.Debug().
					Str("file", in.Name).
					Str("csv", fr.Output).
					Int("bytes", len(csv)).
					Dur("elapsed", fr.Elapsed).
					Msg("converted")
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, f := range res.Files {
		if f.OK() {
			res.Converted++
		} else {
			res.Failed++
		}
	}
	res.Status = model.StatusFor(res.Converted, res.Failed)

	log.Info().
		Int("files", len(inputs)).
		Int("converted", res.Converted).
		Int("failed", res.Failed).
		Str("status", string(res.Status)).
		Dur("elapsed", time.Since(start)).
		Msg("batch done")
	return res
}
