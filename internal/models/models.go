// package models defines the records lyrx keeps about playback cycles
package models

import (
	"fmt"
	"time"
)

// PlayStatus is the outcome of one identification cycle.
type PlayStatus string

const (
	PlayResolved PlayStatus = "resolved"  // lyrics found and printed
	PlayNoLyrics PlayStatus = "no_lyrics" // resolved, but the page had no lyric containers
	PlayNotFound PlayStatus = "not_found" // no catalog hit matched the artist
	PlaySkipped  PlayStatus = "skipped"   // not a track
)

// Play is one row of play history. Lyrics are never stored.
type Play struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Artist   string     `json:"artist"`
	ItemType string     `json:"item_type"`
	Status   PlayStatus `json:"status"`
	APIPath  string     `json:"api_path,omitempty"`
	Blocks   int        `json:"blocks"`
	PlayedAt time.Time  `json:"played_at"`
}

// NewPlay returns a play stamped with the current time.
func NewPlay(title, artist, itemType string, status PlayStatus) *Play {
	return &Play{
		Title:    title,
		Artist:   artist,
		ItemType: itemType,
		Status:   status,
		PlayedAt: time.Now().UTC(),
	}
}

func (p *Play) Validate() error {
	switch p.Status {
	case PlayResolved, PlayNoLyrics, PlayNotFound, PlaySkipped:
	default:
		return fmt.Errorf("unknown play status %q", p.Status)
	}
	if p.ItemType == "" {
		return fmt.Errorf("play item type is required")
	}
	if p.Status == PlayResolved && p.APIPath == "" {
		return fmt.Errorf("resolved play requires an api path")
	}
	return nil
}
