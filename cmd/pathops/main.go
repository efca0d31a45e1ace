// Package main is the entry point for the pathops application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term" //nolint:depguard // Required for TTY detection

	"github.com/joe/pathops/internal/cli"
	"github.com/joe/pathops/internal/config"
	"github.com/joe/pathops/internal/logging"
	"github.com/joe/pathops/internal/tui"
	apperrors "github.com/joe/pathops/pkg/errors"
	"github.com/joe/pathops/pkg/fileops"
	"github.com/joe/pathops/pkg/filesystem"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	os.Exit(run(cfg))
}

func run(cfg *config.Config) int {
	interactive := !cfg.NoProgress && term.IsTerminal(int(os.Stdout.Fd()))

	logger, err := newLogger(cfg, interactive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	defer func() { _ = logger.Sync() }()

	fsys, base, closer, err := filesystem.CreateFileSystem(cfg.Remote)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if closer != nil {
		defer closer()
	}

	ops := fileops.NewFileOps(fsys)
	ops.BufferSize = cfg.BufferSize
	ops.RootVolume = cfg.Root
	ops.Log = logger.With(zap.String("command", cfg.Command()))
	ops.Progress.Reset()

	runner := cli.NewRunner(cfg, ops, base, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var report *fileops.Report

	if interactive && runner.ShowsProgress() {
		report, err = tui.Run(ctx, runner.Title(), ops.Progress, runner.Run)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	} else {
		abort := context.AfterFunc(ctx, ops.Progress.Abort)
		report = runner.Run()
		abort()

		printReport(report)
	}

	if report == nil || !report.OK() {
		return 1
	}

	return 0
}

// newLogger keeps diagnostics off the terminal while the progress UI owns it.
func newLogger(cfg *config.Config, interactive bool) (*zap.Logger, error) {
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.LogLevel

	if cfg.Dev {
		logCfg = logging.DevelopmentConfig()
	}

	switch {
	case cfg.LogFile != "":
		logCfg.OutputPaths = []string{cfg.LogFile}
	case interactive:
		return zap.NewNop(), nil
	}

	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return logger, nil
}

func printReport(report *fileops.Report) {
	switch {
	case report.Cancelled:
		fmt.Fprintf(os.Stderr, "Cancelled after %d entries\n", len(report.Processed))
	case len(report.Failures) > 0:
		fmt.Fprintf(os.Stderr, "Finished with %d failures\n", len(report.Failures))
	}

	for _, failure := range report.Failures {
		fmt.Fprintf(os.Stderr, "%s %s: %v\n", failure.Op, failure.Path, failure.Err)

		if suggestions := apperrors.FormatSuggestions(failure.Err); suggestions != "" {
			fmt.Fprintln(os.Stderr, suggestions)
		}
	}
}
