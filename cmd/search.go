package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/lyrx/internal/shared"
	"github.com/desertthunder/lyrx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Search resolves a title and artist to a catalog entry without touching playback.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	title := strings.TrimSpace(cmd.StringArg("title"))
	if title == "" {
		return fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}
	artist := shared.NormalizeArtist(cmd.String("artist"))

	catalog, err := r.catalogService()
	if err != nil {
		return err
	}

	r.logger.Debug("resolving", "title", title, "artist", artist)

	resolver := tasks.NewTrackResolver(catalog, r.config.Catalog.ArtistDelimiters...)
	hit, err := resolver.Resolve(ctx, title, artist)
	if errors.Is(err, shared.ErrResolutionNotFound) {
		r.writePlain("%s: %s by %s\n", tasks.StopNotFound, title, artist)
		return err
	} else if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(hit, true)
	}

	return r.writePlain("%s - %s\n%s\n", hit.PrimaryArtistName, hit.Title, hit.APIPath)
}

// Lyrics prints each lyric block for a catalog API path.
func (r *Runner) Lyrics(ctx context.Context, cmd *cli.Command) error {
	apiPath := strings.TrimSpace(cmd.StringArg("api-path"))
	if apiPath == "" {
		return fmt.Errorf("%w: api-path", shared.ErrMissingArgument)
	}

	catalog, err := r.catalogService()
	if err != nil {
		return err
	}

	fetcher := tasks.NewLyricsFetcher(catalog, catalog, r.config.Catalog.LyricsSelector)
	blocks, err := fetcher.Fetch(ctx, apiPath)
	if err != nil {
		return err
	}

	if len(blocks) == 0 {
		return fmt.Errorf("%w: %s", shared.ErrEmptyLyrics, apiPath)
	}

	for _, block := range blocks {
		if err := r.writePlain("%s\n", block); err != nil {
			return err
		}
	}
	return nil
}
