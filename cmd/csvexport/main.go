// Command csvexport converts workbooks to CSV from the command line and
// compares CSV exports.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"csvexport-service/internal/compare"
	"csvexport-service/internal/config"
	"csvexport-service/internal/convert/model"
	convSvc "csvexport-service/internal/convert/service"
	"csvexport-service/internal/sheet"
)

var (
	outPath  string
	outDir   string
	quoting  string
	width    string
	workers  int
	timeout  time.Duration
	logLevel string

	logger zerolog.Logger
)

var errMismatch = errors.New("files differ")

func main() {
	rootCmd := &cobra.Command{
		Use:          "csvexport",
		Short:        "Convert spreadsheets to Excel-compatible CSV (UTF-8 BOM, ';', CRLF)",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = config.NewLogger(config.Config{LogLevel: logLevel}, os.Stderr)
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	convertCmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Convert workbooks into a ZIP of CSV files or a directory",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runConvert,
	}
	convertCmd.Flags().StringVarP(&outPath, "out", "o", convSvc.ArchiveName, "Output ZIP archive")
	convertCmd.Flags().StringVarP(&outDir, "dir", "d", "", "Write CSV files into this directory instead of a ZIP")
	convertCmd.Flags().StringVar(&quoting, "quoting", "minimal", "Field quoting: minimal or none")
	convertCmd.Flags().StringVar(&width, "width", "used", "Column window: used or sheet")
	convertCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Parallel conversions (0 = number of CPUs)")
	convertCmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-file timeout (0 = none)")

	compareCmd := &cobra.Command{
		Use:   "compare <a.csv> <b.csv>",
		Short: "Compare two CSV files ignoring BOM and line-ending differences",
		Args:  cobra.ExactArgs(2),
		RunE:  runCompare,
	}

	rootCmd.AddCommand(convertCmd, compareCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	opt := sheet.DefaultOptions()
	var err error
	if opt.Quoting, err = sheet.ParseQuoting(quoting); err != nil {
		return err
	}
	if opt.Width, err = sheet.ParseWidth(width); err != nil {
		return err
	}

	inputs := make([]model.Input, 0, len(args))
	for _, p := range args {
		b, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		inputs = append(inputs, model.Input{Name: filepath.Base(p), Data: b})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	svc := convSvc.New(convSvc.Config{Options: opt, Workers: workers, Timeout: timeout}, logger, nil)
	res := svc.Batch(ctx, inputs)
	for _, f := range res.Failures() {
		logger.Error().Str("file", f.Name).Str("cause", f.Error).Msg("not converted")
	}
	if res.Status == model.StatusFailed {
		return fmt.Errorf("no files converted")
	}

	if outDir != "" {
		if err := writeDir(outDir, res); err != nil {
			return err
		}
	} else if err := writeZip(outPath, res); err != nil {
		return err
	}

	msg := "conversion finished"
	if res.Status == model.StatusPartial {
		msg = "conversion finished with errors"
	}
	logger.Info().Int("converted", res.Converted).Int("failed", res.Failed).Msg(msg)
	return nil
}

func writeDir(dir string, res model.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, f := range res.Files {
		if !f.OK() {
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, f.Output), f.CSV, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func writeZip(path string, res model.Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return convSvc.WriteArchive(f, res)
}

func runCompare(cmd *cobra.Command, args []string) error {
	a, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	b, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}

	d, err := compare.Compare(a, b)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if d.Equal {
		fmt.Fprintln(out, "files are identical")
		return nil
	}
	fmt.Fprintf(out, "files differ\nline %d:\nA: %s\nB: %s\n", d.Line, d.A, d.B)
	return errMismatch
}
