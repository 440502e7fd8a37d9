// Package tasks implements the identification pipeline and the playback sync loop.
//
// # Pipeline
//
//  1. [TrackResolver.Resolve] : catalog search + artist disambiguation
//     - Builds a fresh [index.ArtistIndex] holding the playing artist
//     - Cuts each hit's credit at the first artist delimiter ("&" by default)
//     - Returns the first hit in catalog order whose credit matches
//
//  2. [LyricsFetcher.Fetch] : api path → page path → lyric blocks
//     - Removes script nodes, selects the lyric containers
//     - Replaces every br with "\n" and keeps each container's text as one [LyricBlock]
//
//  3. [SyncLoop.Run] : detect → resolve → fetch → display → wait → repeat
//     - Waits (duration - progress) / 1000 whole seconds between cycles
//     - The wait is cancellable through the context
//
// # Policies
//
// When no hit matches, the loop either stops with [shared.ErrResolutionNotFound]
// ("stop") or reports the miss and waits for the next item ("skip"). Items that
// are not tracks are waited out ("wait") or resolved like tracks ("resolve").
//
// # Progress Reporting
//
// [ProgressUpdate] values are sent on an optional channel with select/default,
// so a slow consumer never blocks the loop.
//
// # Play History
//
// The optional [PlayRecorder] receives one [models.Play] per cycle. Recording
// failures are logged and ignored.
package tasks
