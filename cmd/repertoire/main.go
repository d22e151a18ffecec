// repertoire replays, checks and serves chess opening repertoires.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/lgbarn/repertoire-go/internal/config"
)

const programVersion = "0.1.0"

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	if *version {
		fmt.Printf("repertoire version %s\n", programVersion)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *serve {
		os.Exit(serveMain(cfg))
	}

	lines, err := collectLines(*line, flag.Args(), os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(runOffline(cfg, lines, os.Stdout, os.Stderr))
}

// serveMain runs the HTTP API until SIGINT or SIGTERM.
func serveMain(cfg *config.Config) int {
	log, err := NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runServer(ctx, cfg, log); err != nil {
		log.Errorw("server stopped", "error", err)
		return 1
	}
	return 0
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg *config.LogConfig) (*zap.SugaredLogger, error) {
	level, err := cfg.ZapLevel()
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: repertoire [options] [line-files...]\n\n")
	fmt.Fprintf(os.Stderr, "Replays coordinate move lines into a repertoire tree, or serves\n")
	fmt.Fprintf(os.Stderr, "repertoires over HTTP with -serve.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nLine files hold one line per row, e.g. \"e2e4 e7e5 g1f3\".\n")
	fmt.Fprintf(os.Stderr, "Promotions append the piece letter: \"e7e8n\".\n")
}
