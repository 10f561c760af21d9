// Package screencast records freehand drawing as a time-stamped command log
// and plays it back deterministically.
//
// # Overview
//
// A recording is a video.Video: an append-only sequence of chunks (one per
// stroke, canvas clear or start/pause transition), each holding the commands
// that were issued while it was open. Raw pointer samples are stabilized by
// the spring-mass filter in package drawing before they become path segments,
// so the log stores a small number of clean segments rather than the raw
// input.
//
// Playback is driven by player.Player, which advances through the log on each
// animation frame and can jump to any point in time. Jumps do not replay the
// log from the beginning: every full-canvas clear starts a new era, and a seek
// only reconstructs the chunks since the last clear before the target time.
//
// # Packages
//
//   - drawing: paths, segments, the smoothing filter and the rendering backend contract
//   - video: commands, chunks, the video and the seek index
//   - format: readers and writers for persisted videos
//   - player: the playback scheduler
//   - recorder: the recording session
//   - events: deferred notifications between loosely coupled components
//   - timer: the video clock
//   - store, server: storage and HTTP access for uploaded recordings
//
// # Logging
//
// The module is silent by default. Call SetLogger to receive diagnostics from
// every package:
//
//	screencast.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
package screencast
