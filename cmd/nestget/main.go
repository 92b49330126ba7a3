package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/nestpath/internal/app"
	"github.com/samvad-hq/nestpath/internal/config"
	"github.com/samvad-hq/nestpath/internal/logger"
	"github.com/samvad-hq/nestpath/pkg/nestedmap"
	"github.com/spf13/pflag"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitKeyNotFound = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "nestget: load config: %v\n", err)
		return exitFailure
	}

	log, err := logger.Init(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "nestget: init logger: %v\n", err)
		return exitFailure
	}
	defer logger.Close()

	logger.DebugObj("nestget starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lookup, err := app.NewLookup(ctx, cfg, log, stdout)
	if err != nil {
		logger.ErrorObj("failed to initialize lookup", "error", err.Error())
		fmt.Fprintf(stderr, "nestget: %v\n", err)
		return exitFailure
	}
	defer lookup.Close()

	path := cfg.Keys
	if cfg.PathExpr != "" {
		path = nestedmap.ParsePath(cfg.PathExpr)
	}

	if _, err := lookup.Run(ctx, cfg.Source, path); err != nil {
		fmt.Fprintf(stderr, "nestget: %v\n", err)
		if errors.Is(err, nestedmap.ErrKeyNotFound) {
			return exitKeyNotFound
		}
		return exitFailure
	}
	return exitOK
}
