// package formatter renders lyrics to the terminal and exports play history (CSV, JSON, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/services"
	"github.com/desertthunder/lyrx/internal/shared"
	"github.com/desertthunder/lyrx/internal/tasks"
	"github.com/desertthunder/lyrx/internal/ui"
)

// Terminal implements [tasks.Display] by printing to a writer.
//
// Lyric blocks are printed verbatim, one per line. The first write error is kept and returned by [Terminal.Err].
type Terminal struct {
	w       io.Writer
	palette *ui.Palette
	header  bool
	err     error
}

var _ tasks.Display = (*Terminal)(nil)

// NewTerminal creates a display over w. With header set, each item is announced before its lyrics.
func NewTerminal(w io.Writer, header bool) *Terminal {
	return &Terminal{w: w, palette: ui.DefaultPalette(w), header: header}
}

func (t *Terminal) println(s string) {
	if t.err != nil {
		return
	}
	if _, err := fmt.Fprintln(t.w, s); err != nil {
		t.err = fmt.Errorf("failed to write output: %w", err)
	}
}

func (t *Terminal) ShowTrack(item *services.TrackDescriptor) {
	if !t.header || item == nil {
		return
	}
	if !item.IsTrack() {
		t.println(t.palette.Help(fmt.Sprintf("[%s] %s", item.Type, item.Title)))
		return
	}
	t.println(t.palette.Title(fmt.Sprintf("%s - %s", item.NormalizedArtist, item.Title)))
}

func (t *Terminal) ShowLyrics(blocks []tasks.LyricBlock) {
	for _, b := range blocks {
		t.println(string(b))
	}
}

func (t *Terminal) ShowNotFound(item *services.TrackDescriptor) {
	t.println(t.palette.Warn(fmt.Sprintf("Song NOT FOUND: %s by %s", item.Title, item.NormalizedArtist)))
}

func (t *Terminal) ShowStopped(reason string) {
	t.println(t.palette.Err("ERROR: " + reason))
}

// Err returns the first write error, if any.
func (t *Terminal) Err() error {
	return t.err
}

// PlaysToCSV converts play history to CSV with columns: ID, Played At, Title, Artist, Type, Status, API Path, Blocks
func PlaysToCSV(plays []*models.Play) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Played At", "Title", "Artist", "Type", "Status", "API Path", "Blocks"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, p := range plays {
		record := []string{
			p.ID,
			p.PlayedAt.Format(time.RFC3339),
			p.Title,
			p.Artist,
			p.ItemType,
			string(p.Status),
			p.APIPath,
			strconv.Itoa(p.Blocks),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// PlaysToJSON converts play history to an indented JSON array.
func PlaysToJSON(plays []*models.Play) ([]byte, error) {
	if plays == nil {
		plays = []*models.Play{}
	}
	return shared.MarshalJSON(plays, true)
}

// PlaysToText converts play history to one line per play, newest first as given.
func PlaysToText(plays []*models.Play) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Plays: %d\n\n", len(plays)))
	for i, p := range plays {
		buf.WriteString(fmt.Sprintf("%d. [%s] %s - %s (%s)\n",
			i+1, p.PlayedAt.Local().Format("2006-01-02 15:04"), p.Artist, p.Title, p.Status))
	}

	return buf.Bytes()
}
