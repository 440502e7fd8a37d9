package main

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/desertthunder/lyrx/internal/formatter"
	"github.com/desertthunder/lyrx/internal/repositories"
	"github.com/desertthunder/lyrx/internal/shared"
	"github.com/desertthunder/lyrx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Sync prints lyrics for each track as it starts playing until interrupted or a song can't be found.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	return r.runLoop(ctx, cmd, 0)
}

// Once prints lyrics for the current track and returns without waiting for it to end.
func (r *Runner) Once(ctx context.Context, cmd *cli.Command) error {
	return r.runLoop(ctx, cmd, 1)
}

func (r *Runner) runLoop(ctx context.Context, cmd *cli.Command, maxCycles int) error {
	playback := r.config.Playback
	if v := cmd.String("on-not-found"); v != "" {
		playback.OnNotFound = v
	}
	if v := cmd.String("non-track"); v != "" {
		playback.NonTrack = v
	}

	config := *r.config
	config.Playback = playback
	if err := config.Validate(); err != nil {
		return err
	}

	playbackSrv, err := r.playbackService(ctx)
	if err != nil {
		return err
	}
	catalog, err := r.catalogService()
	if err != nil {
		return err
	}

	var recorder tasks.PlayRecorder
	if config.History.Enabled && !cmd.Bool("no-history") {
		db, err := shared.OpenHistory(config.Database)
		if err != nil {
			r.logger.Warn("history disabled", "error", err)
		} else {
			defer closeDB(r, db)
			recorder = repositories.NewPlayRepository(db)
		}
	}

	display := formatter.NewTerminal(r.output, playback.ShowHeader)
	progress := make(chan tasks.ProgressUpdate, 16)

	loop, err := tasks.NewSyncLoop(tasks.SyncOpts{
		Playback:   playbackSrv,
		Resolver:   tasks.NewTrackResolver(catalog, config.Catalog.ArtistDelimiters...),
		Fetcher:    tasks.NewLyricsFetcher(catalog, catalog, config.Catalog.LyricsSelector),
		Display:    display,
		Recorder:   recorder,
		Logger:     shared.WithLogger(r.logger, "component", "sync"),
		OnNotFound: playback.OnNotFound,
		NonTrack:   playback.NonTrack,
		IdlePoll:   playback.IdlePoll(),
		MaxCycles:  maxCycles,
		Progress:   progress,
	})
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			r.logger.Debug(update.Message, "phase", update.Phase, "cycle", update.Cycle)
		}
	}()

	r.logger.Debug("starting sync loop",
		"on_not_found", playback.OnNotFound,
		"non_track", playback.NonTrack,
		"history", recorder != nil)

	err = loop.Run(ctx)
	close(progress)
	wg.Wait()

	if werr := display.Err(); werr != nil {
		r.logger.Warn("failed to write to terminal", "error", werr)
	}

	if err != nil {
		return fmt.Errorf("sync stopped after %d cycle(s): %w", loop.Cycles(), err)
	}
	return nil
}

func closeDB(r *Runner, db *sql.DB) {
	if err := db.Close(); err != nil {
		r.logger.Warn("failed to close history database", "error", err)
	}
}
