package video

import (
	"fmt"

	"github.com/gogpu/screencast"
	"github.com/gogpu/screencast/drawing"
)

// NoErase is the LastErase value of chunks recorded before the first erase.
const NoErase = -1

// ChunkKind identifies the variant of a Chunk.
type ChunkKind uint8

const (
	ChunkPath  ChunkKind = iota // One continuous stroke
	ChunkErase                  // Full canvas clear
	ChunkVoid                   // Start or pause of the recording

	chunkKindCount
)

var chunkKindNames = [...]string{
	ChunkPath:  "Path",
	ChunkErase: "Erase",
	ChunkVoid:  "Void",
}

// String returns the name of the chunk kind.
func (k ChunkKind) String() string {
	if k < chunkKindCount {
		return chunkKindNames[k]
	}
	return fmt.Sprintf("ChunkKind(%d)", k)
}

// ParseChunkKind is the inverse of ChunkKind.String.
func ParseChunkKind(name string) (ChunkKind, bool) {
	for k, n := range chunkKindNames {
		if n == name {
			return ChunkKind(k), true
		}
	}
	return 0, false
}

// Chunk is a group of commands sharing one role.
type Chunk struct {
	Kind      ChunkKind
	StartTime float64

	// LastErase is the index of the latest erase chunk pushed before this
	// one, or NoErase. It is set by Video.PushChunk.
	LastErase int

	// Path is the stroke of a path chunk. Its segments are revealed one by
	// one by DrawNextSegment commands.
	Path *drawing.Path

	// Color is the canvas color of an erase chunk.
	Color screencast.Color

	Commands []Command

	// InitCommands restore brush and cursor state when playback enters the
	// chunk. They are captured by Video.PushChunk.
	InitCommands []Command

	cursor int
}

// NewPathChunk creates a chunk for the given stroke.
func NewPathChunk(start float64, path *drawing.Path) Chunk {
	return Chunk{Kind: ChunkPath, StartTime: start, LastErase: NoErase, Path: path}
}

// NewEraseChunk creates a chunk that clears the canvas. The clearing itself
// is a ClearCanvas command pushed into the chunk.
func NewEraseChunk(start float64, color screencast.Color) Chunk {
	return Chunk{Kind: ChunkErase, StartTime: start, LastErase: NoErase, Color: color}
}

// NewVoidChunk creates a start/pause marker.
func NewVoidChunk(start float64) Chunk {
	return Chunk{Kind: ChunkVoid, StartTime: start, LastErase: NoErase}
}

// CurrentCommand returns the command under the chunk's cursor. It returns
// false once all commands were consumed.
func (c *Chunk) CurrentCommand() (Command, bool) {
	if c.cursor >= len(c.Commands) {
		return Command{}, false
	}
	return c.Commands[c.cursor], true
}

// MoveNextCommand advances the cursor.
func (c *Chunk) MoveNextCommand() {
	if c.cursor < len(c.Commands) {
		c.cursor++
	}
}

// Rewind moves the cursor back to the first command.
func (c *Chunk) Rewind() {
	c.cursor = 0
}

// PushCommand appends a command. Times must not decrease; this is not
// checked here, see Video.Validate.
func (c *Chunk) PushCommand(cmd Command) {
	c.Commands = append(c.Commands, cmd)
}

// ExecuteInitCommands runs the init commands on h.
func (c *Chunk) ExecuteInitCommands(h Handler) {
	for _, cmd := range c.InitCommands {
		cmd.Execute(h)
	}
}

// Render executes all remaining commands at once. Of the cursor moves only
// the last one is executed.
func (c *Chunk) Render(h Handler) {
	var (
		move    Command
		hasMove bool
	)
	for ; c.cursor < len(c.Commands); c.cursor++ {
		cmd := c.Commands[c.cursor]
		if cmd.Kind == CommandMoveCursor {
			move, hasMove = cmd, true
			continue
		}
		cmd.Execute(h)
	}
	if hasMove {
		move.Execute(h)
	}
}

// EndTime returns the time of the last command, or StartTime for an empty chunk.
func (c *Chunk) EndTime() float64 {
	if n := len(c.Commands); n > 0 {
		return c.Commands[n-1].Time
	}
	return c.StartTime
}
