package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lyrx/internal/models"
	"github.com/desertthunder/lyrx/internal/services"
	"github.com/desertthunder/lyrx/internal/shared"
)

// StopNotFound is the reason given to [Display.ShowStopped] when the playing song cannot be resolved.
const StopNotFound = "Song NOT FOUND"

// Display renders the output of each cycle.
type Display interface {
	ShowTrack(item *services.TrackDescriptor)
	ShowLyrics(blocks []LyricBlock)
	ShowNotFound(item *services.TrackDescriptor) // only with the skip policy
	ShowStopped(reason string)
}

// Waiter suspends the loop between cycles.
type Waiter interface {
	// Wait blocks for d or until ctx is done, returning ctx.Err() in the latter case.
	Wait(ctx context.Context, d time.Duration) error
}

// TimerWaiter waits on a [time.Timer].
type TimerWaiter struct{}

func (TimerWaiter) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// PlayRecorder persists the outcome of each cycle (repositories.PlayRepository).
type PlayRecorder interface {
	Create(play *models.Play) error
}

// SyncOpts configures a [SyncLoop]. Playback, Resolver, Fetcher and Display are required.
type SyncOpts struct {
	Playback services.PlaybackService
	Resolver *TrackResolver
	Fetcher  *LyricsFetcher
	Display  Display
	Waiter   Waiter       // nil uses [TimerWaiter]
	Recorder PlayRecorder // optional
	Logger   *log.Logger  // nil discards

	OnNotFound string        // [shared.OnNotFoundStop] (default) or [shared.OnNotFoundSkip]
	NonTrack   string        // [shared.NonTrackWait] (default) or [shared.NonTrackResolve]
	IdlePoll   time.Duration // wait for items without a duration
	MaxCycles  int           // stop after this many cycles; 0 runs until stopped

	// Progress receives non-blocking updates; nil disables them.
	Progress chan<- ProgressUpdate
}

// SyncLoop drives detect, resolve, fetch, display and wait until stopped.
type SyncLoop struct {
	playback services.PlaybackService
	resolver *TrackResolver
	fetcher  *LyricsFetcher
	display  Display
	waiter   Waiter
	recorder PlayRecorder
	logger   *log.Logger
	progress chan<- ProgressUpdate

	onNotFound string
	nonTrack   string
	idlePoll   time.Duration
	maxCycles  int
	cycles     int
}

// NewSyncLoop validates opts and applies defaults.
func NewSyncLoop(opts SyncOpts) (*SyncLoop, error) {
	switch {
	case opts.Playback == nil:
		return nil, fmt.Errorf("%w: playback service not initialized", shared.ErrServiceUnavailable)
	case opts.Resolver == nil || opts.Fetcher == nil:
		return nil, fmt.Errorf("%w: lyrics catalog not initialized", shared.ErrServiceUnavailable)
	case opts.Display == nil:
		return nil, fmt.Errorf("%w: display not initialized", shared.ErrServiceUnavailable)
	}

	if opts.OnNotFound == "" {
		opts.OnNotFound = shared.OnNotFoundStop
	}
	if opts.OnNotFound != shared.OnNotFoundStop && opts.OnNotFound != shared.OnNotFoundSkip {
		return nil, fmt.Errorf("%w: unknown not-found policy %q", shared.ErrInvalidConfig, opts.OnNotFound)
	}

	if opts.NonTrack == "" {
		opts.NonTrack = shared.NonTrackWait
	}
	if opts.NonTrack != shared.NonTrackWait && opts.NonTrack != shared.NonTrackResolve {
		return nil, fmt.Errorf("%w: unknown non-track policy %q", shared.ErrInvalidConfig, opts.NonTrack)
	}

	if opts.Waiter == nil {
		opts.Waiter = TimerWaiter{}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	if opts.IdlePoll <= 0 {
		opts.IdlePoll = 5 * time.Second
	}

	return &SyncLoop{
		playback:   opts.Playback,
		resolver:   opts.Resolver,
		fetcher:    opts.Fetcher,
		display:    opts.Display,
		waiter:     opts.Waiter,
		recorder:   opts.Recorder,
		logger:     opts.Logger,
		progress:   opts.Progress,
		onNotFound: opts.OnNotFound,
		nonTrack:   opts.NonTrack,
		idlePoll:   opts.IdlePoll,
		maxCycles:  opts.MaxCycles,
	}, nil
}

// WaitFor returns the whole seconds left in an item, truncated and never negative.
func WaitFor(durationMS, progressMS int64) time.Duration {
	left := (durationMS - progressMS) / 1000
	if left < 0 {
		return 0
	}
	return time.Duration(left) * time.Second
}

// Run loops until a cycle fails, ctx is cancelled or MaxCycles is reached.
//
// With the stop policy an unresolvable song ends the run with [shared.ErrResolutionNotFound].
// The wait after the final cycle of a bounded run is skipped.
func (s *SyncLoop) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		wait, err := s.Cycle(ctx)
		if err != nil {
			return err
		}

		if s.maxCycles > 0 && s.cycles >= s.maxCycles {
			return nil
		}

		s.sendProgress(waitUpdate(s.cycles, wait))
		s.logger.Debug("waiting for next item", "wait", wait)
		if err := s.waiter.Wait(ctx, wait); err != nil {
			return err
		}
	}
}

// Cycle runs one identification cycle and returns how long to wait before the next one.
func (s *SyncLoop) Cycle(ctx context.Context) (time.Duration, error) {
	s.cycles++
	cycle := s.cycles

	s.sendProgress(detectUpdate(cycle))
	item, err := s.playback.CurrentItem(ctx)
	if err != nil {
		return 0, err
	}

	logger := shared.WithLogger(s.logger, "cycle", cycle, "type", item.Type)
	s.display.ShowTrack(item)
	wait := WaitFor(item.DurationMS, item.ProgressMS)

	if !item.IsTrack() && s.nonTrack == shared.NonTrackWait {
		if wait == 0 {
			wait = s.idlePoll
		}
		logger.Info("not a track, waiting", "title", item.Title, "wait", wait)
		s.record(logger, item, models.PlaySkipped, "", 0)
		return wait, nil
	}

	s.sendProgress(resolveUpdate(cycle, item))
	hit, err := s.resolver.Resolve(ctx, item.Title, item.NormalizedArtist)
	if errors.Is(err, shared.ErrResolutionNotFound) {
		s.record(logger, item, models.PlayNotFound, "", 0)

		if s.onNotFound == shared.OnNotFoundSkip {
			logger.Warn("no catalog match, skipping", "title", item.Title, "artist", item.NormalizedArtist)
			s.display.ShowNotFound(item)
			return wait, nil
		}

		s.display.ShowStopped(StopNotFound)
		s.sendProgress(stoppedUpdate(cycle, StopNotFound))
		return 0, err
	}
	if err != nil {
		return 0, err
	}

	logger.Debug("resolved", "title", hit.Title, "api_path", hit.APIPath)
	s.sendProgress(fetchUpdate(cycle, hit))

	blocks, err := s.fetcher.Fetch(ctx, hit.APIPath)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch lyrics for %s: %w", hit.APIPath, err)
	}

	if len(blocks) == 0 {
		logger.Warn(shared.ErrEmptyLyrics.Error(), "api_path", hit.APIPath)
		s.record(logger, item, models.PlayNoLyrics, hit.APIPath, 0)
		return wait, nil
	}

	s.display.ShowLyrics(blocks)
	s.record(logger, item, models.PlayResolved, hit.APIPath, len(blocks))

	return wait, nil
}

// Cycles returns the number of cycles started so far.
func (s *SyncLoop) Cycles() int {
	return s.cycles
}

// sendProgress sends a progress update through the channel without blocking.
func (s *SyncLoop) sendProgress(update ProgressUpdate) {
	if s.progress == nil {
		return
	}
	select {
	case s.progress <- update:
	default:
	}
}

func (s *SyncLoop) record(logger *log.Logger, item *services.TrackDescriptor, status models.PlayStatus, apiPath string, blocks int) {
	if s.recorder == nil {
		return
	}

	play := models.NewPlay(item.Title, item.NormalizedArtist, item.Type, status)
	play.APIPath = apiPath
	play.Blocks = blocks

	if err := s.recorder.Create(play); err != nil {
		logger.Warn("failed to record play", "error", err)
	}
}
