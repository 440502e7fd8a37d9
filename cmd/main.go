package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/lyrx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{
		ConfigPath: defaultConfigPath,
		Logger:     logger,
	})

	app := newApp(runner)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrResolutionNotFound):
			logger.Debug("stopped", "error", err)
			stop()
			os.Exit(1)
		case errors.Is(err, context.Canceled):
			logger.Info("interrupted")
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "lyrx",
		Usage:    "Print lyrics for the song playing on Spotify",
		Version:  "0.1.0",
		Flags:    rootFlags(),
		Before:   r.Before,
		Commands: r.register(),
	}
}
