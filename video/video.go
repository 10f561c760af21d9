package video

import (
	"fmt"
	"math"
)

// AudioSource references one audio track recorded alongside the strokes.
type AudioSource struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// Metadata describes a recording.
type Metadata struct {
	Length      float64       `json:"length"` // milliseconds
	Width       float64       `json:"width"`
	Height      float64       `json:"height"`
	AudioTracks []AudioSource `json:"audioTracks,omitempty"`
}

// Video is the command log of one recording.
type Video struct {
	chunks  []Chunk
	current int
	meta    Metadata

	lastErase int
	state     [3]Command // latest color, size and cursor commands
	hasState  [3]bool
}

const (
	stateColor = iota
	stateSize
	stateCursor
)

// New creates an empty video.
func New() *Video {
	return &Video{current: -1, lastErase: NoErase}
}

// PushChunk appends c and makes it the current chunk. It links the chunk to
// the latest erase chunk and captures its init commands from the commands
// pushed so far. It returns the index of the chunk.
//
// Pointers returned by CurrentChunk or Chunk before the push may be
// invalidated by it.
func (v *Video) PushChunk(c Chunk) int {
	c.LastErase = v.lastErase
	c.InitCommands = nil
	for i, ok := range v.hasState {
		if ok {
			c.InitCommands = append(c.InitCommands, v.state[i].At(c.StartTime))
		}
	}
	c.cursor = 0

	v.chunks = append(v.chunks, c)
	i := len(v.chunks) - 1
	if c.Kind == ChunkErase {
		v.lastErase = i
	}
	v.current = i
	return i
}

// PushCommand appends cmd to the current chunk.
func (v *Video) PushCommand(cmd Command) error {
	c := v.CurrentChunk()
	if c == nil {
		return ErrNoChunk
	}
	c.PushCommand(cmd)

	switch cmd.Kind {
	case CommandChangeBrushColor:
		v.state[stateColor], v.hasState[stateColor] = cmd, true
	case CommandChangeBrushSize:
		v.state[stateSize], v.hasState[stateSize] = cmd, true
	case CommandMoveCursor:
		v.state[stateCursor], v.hasState[stateCursor] = cmd, true
	}
	if cmd.Time > v.meta.Length {
		v.meta.Length = cmd.Time
	}
	return nil
}

// Len returns the number of chunks.
func (v *Video) Len() int {
	return len(v.chunks)
}

// Chunks returns the chunks in recording order. The slice must not be modified.
func (v *Video) Chunks() []Chunk {
	return v.chunks
}

// Chunk returns the chunk at index i, or nil when i is out of range.
func (v *Video) Chunk(i int) *Chunk {
	if i < 0 || i >= len(v.chunks) {
		return nil
	}
	return &v.chunks[i]
}

// CurrentChunk returns the chunk under the cursor. It returns nil before
// the first chunk and after the last one; the latter is the end-of-video
// state.
func (v *Video) CurrentChunk() *Chunk {
	return v.Chunk(v.current)
}

// CurrentChunkNumber returns the cursor position.
func (v *Video) CurrentChunkNumber() int {
	return v.current
}

// SetCurrentChunkNumber moves the cursor. Values are clamped to
// [-1, Len()].
func (v *Video) SetCurrentChunkNumber(i int) {
	v.current = max(-1, min(i, len(v.chunks)))
}

// MoveNextChunk advances the cursor and rewinds the chunk it lands on.
// Moving past the last chunk leaves CurrentChunk nil.
func (v *Video) MoveNextChunk() {
	if v.current < len(v.chunks) {
		v.current++
	}
	if c := v.CurrentChunk(); c != nil {
		c.Rewind()
	}
}

// PeekNextChunk returns the chunk after the current one, or nil.
func (v *Video) PeekNextChunk() *Chunk {
	return v.Chunk(v.current + 1)
}

// RewindMinusOne places the cursor before the first chunk.
func (v *Video) RewindMinusOne() {
	v.current = -1
}

// Metadata returns the recording metadata.
func (v *Video) Metadata() Metadata {
	return v.meta
}

// SetMetadata replaces the recording metadata. Length is raised to the time
// of the last command if it is shorter.
func (v *Video) SetMetadata(m Metadata) {
	if n := len(v.chunks); n > 0 {
		m.Length = max(m.Length, v.chunks[n-1].EndTime())
	}
	v.meta = m
}

// Commands returns the total number of commands.
func (v *Video) Commands() int {
	n := 0
	for i := range v.chunks {
		n += len(v.chunks[i].Commands)
	}
	return n
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Validate checks the structural invariants of the log: non-decreasing
// chunk and command times, an erase chain pointing to strictly earlier erase
// chunks, path chunks with a stroke and enough segments for their draw
// commands, and a length covering every command.
func (v *Video) Validate() error {
	prev := 0.0
	lastErase := NoErase
	for i := range v.chunks {
		c := &v.chunks[i]
		if c.Kind >= chunkKindCount {
			return fmt.Errorf("%w: chunk %d has unknown kind %d", ErrInvalid, i, c.Kind)
		}
		if !finite(c.StartTime) || c.StartTime < prev {
			return fmt.Errorf("%w: chunk %d starts at %v before %v", ErrInvalid, i, c.StartTime, prev)
		}
		prev = c.StartTime
		if c.LastErase != lastErase {
			return fmt.Errorf("%w: chunk %d links erase %d, want %d", ErrInvalid, i, c.LastErase, lastErase)
		}
		if c.Kind == ChunkErase {
			lastErase = i
		}

		draws := 0
		for j, cmd := range c.Commands {
			if cmd.Kind >= commandKindCount {
				return fmt.Errorf("%w: chunk %d command %d has unknown kind %d", ErrInvalid, i, j, cmd.Kind)
			}
			if !finite(cmd.Time) || cmd.Time < prev {
				return fmt.Errorf("%w: chunk %d command %d at %v goes back in time", ErrInvalid, i, j, cmd.Time)
			}
			prev = cmd.Time
			if cmd.Kind == CommandDrawNextSegment {
				draws++
			}
		}
		if c.Kind == ChunkPath {
			if c.Path == nil {
				return fmt.Errorf("%w: path chunk %d has no path", ErrInvalid, i)
			}
			if draws > c.Path.Len() {
				return fmt.Errorf("%w: path chunk %d draws %d of %d segments", ErrInvalid, i, draws, c.Path.Len())
			}
		} else if draws > 0 {
			return fmt.Errorf("%w: %v chunk %d draws segments", ErrInvalid, c.Kind, i)
		}
	}
	if prev > v.meta.Length {
		return fmt.Errorf("%w: length %v shorter than last command at %v", ErrInvalid, v.meta.Length, prev)
	}
	return nil
}
