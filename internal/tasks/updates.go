package tasks

import (
	"fmt"
	"time"

	"github.com/desertthunder/lyrx/internal/services"
)

// ProgressUpdate represents a progress event during a sync cycle.
//
// Used to send real-time updates to the CLI layer for logging.
type ProgressUpdate struct {
	Phase   Phase  // Cycle phase
	Cycle   int    // 1-based cycle number
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Cycle phase enumeration
type Phase int

const (
	DetectItem Phase = iota
	ResolveTrack
	FetchLyrics
	WaitTrack
	Stopped
)

func (p Phase) String() string {
	switch p {
	case DetectItem:
		return "detect"
	case ResolveTrack:
		return "resolve"
	case FetchLyrics:
		return "fetch"
	case WaitTrack:
		return "wait"
	case Stopped:
		return "stopped"
	default:
		return ""
	}
}

func detectUpdate(cycle int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DetectItem,
		Cycle:   cycle,
		Message: "Reading current playback...",
	}
}

func resolveUpdate(cycle int, item *services.TrackDescriptor) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTrack,
		Cycle:   cycle,
		Message: fmt.Sprintf("Searching catalog for %q by %s", item.Title, item.NormalizedArtist),
		Data:    item,
	}
}

func fetchUpdate(cycle int, hit *services.CatalogHit) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLyrics,
		Cycle:   cycle,
		Message: fmt.Sprintf("Fetching lyrics from %s", hit.APIPath),
		Data:    hit,
	}
}

func waitUpdate(cycle int, d time.Duration) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WaitTrack,
		Cycle:   cycle,
		Message: fmt.Sprintf("Waiting %s for the next item", d),
		Data:    d,
	}
}

func stoppedUpdate(cycle int, reason string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Stopped,
		Cycle:   cycle,
		Message: reason,
	}
}
