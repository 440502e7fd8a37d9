package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/lyrx/internal/formatter"
	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/repositories"
	"github.com/desertthunder/lyrx/internal/shared"
	"github.com/urfave/cli/v3"
)

// History prints recorded plays, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	status := models.PlayStatus(cmd.String("status"))
	switch status {
	case "", models.PlayResolved, models.PlayNoLyrics, models.PlayNotFound, models.PlaySkipped:
	default:
		return fmt.Errorf("%w: --status %q", shared.ErrInvalidFlag, status)
	}

	format := cmd.String("format")
	switch format {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("%w: --format must be text, json or csv, got %q", shared.ErrInvalidFlag, format)
	}

	db, err := shared.OpenHistory(r.config.Database)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer closeDB(r, db)

	plays, err := repositories.NewPlayRepository(db).List(map[string]any{
		"status": status,
		"artist": cmd.String("artist"),
		"limit":  int(cmd.Int("limit")),
	})
	if err != nil {
		return err
	}

	var out []byte
	switch format {
	case "json":
		out, err = formatter.PlaysToJSON(plays)
		out = append(out, '\n')
	case "csv":
		out, err = formatter.PlaysToCSV(plays)
	default:
		out = formatter.PlaysToText(plays)
	}
	if err != nil {
		return err
	}

	return r.writePlain("%s", out)
}
