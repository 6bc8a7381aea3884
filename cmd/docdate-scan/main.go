// Command docdate-scan runs date extraction on image files without the GUI.
//
//	docdate-scan [flags] FILE...
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"docdate/internal/config"
	"docdate/internal/logger"
	"docdate/internal/ocr"
	"docdate/internal/ocr/engines"
	"docdate/internal/pipeline"
	"docdate/internal/report"

	"github.com/mattn/go-isatty"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs, cfg, finish := config.NewFlagSet("docdate-scan")
	err := ff.Parse(fs, args, ff.WithEnvVarPrefix(config.EnvPrefix))
	if err == nil {
		err = finish()
	}
	if errors.Is(err, ff.ErrHelp) {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	files := fs.GetArgs()
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintln(os.Stderr, "error: no files given")
		return 2
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	log := logger.New(level, cfg.LogJSON)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := engines.NewManager().Open(ctx, cfg)
	if err != nil {
		log.Error("Scan", err, nil)
		return 1
	}
	scanner := ocr.NewScanner(engine, pipeline.NewLoader(log), log, engines.ScannerOptions(cfg)...)
	defer scanner.Close()

	printer := report.New(os.Stdout, isatty.IsTerminal(os.Stdout.Fd()))

	failed := 0
	for _, path := range files {
		result, err := scanner.Scan(ctx, path)
		if err != nil {
			failed++
			printer.Failure(path, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		printer.Result(result)
	}

	if failed > 0 {
		return 1
	}
	return 0
}
