// Package video provides the command log of a recorded screencast.
//
// A Video is an append-only arena of Chunks. Each chunk groups time-stamped
// Commands by role: a path chunk holds one stroke, an erase chunk clears the
// canvas, and a void chunk marks a start or pause of the recording.
//
// Every chunk stores the index of the latest erase chunk before it. These
// links form the erase chain that lets a player jump to any moment by
// replaying only what was drawn after the last clear:
//
//	start := v.RewindToLastEraseBefore(t)
//	v.SetCurrentChunkNumber(start - 1)
//	v.MoveNextChunk()
//
// Chunks also carry init commands (brush color, brush size and cursor state
// at the moment the chunk started) so playback can begin at any chunk
// without executing the commands before it.
//
// A Video is not safe for concurrent use. At any time it is owned either by
// a recorder (which appends) or by a player (which reads).
package video
