package video

import (
	"fmt"

	"github.com/gogpu/screencast"
)

// CommandKind identifies the variant of a Command.
type CommandKind uint8

const (
	CommandMoveCursor       CommandKind = iota // Cursor position and pressure
	CommandDrawNextSegment                     // Reveal the next segment of the chunk's path
	CommandChangeBrushColor                    // Set the color of following paths
	CommandChangeBrushSize                     // Set the brush size
	CommandClearCanvas                         // Fill the canvas with a color

	commandKindCount
)

var commandKindNames = [...]string{
	CommandMoveCursor:       "MoveCursor",
	CommandDrawNextSegment:  "DrawNextSegment",
	CommandChangeBrushColor: "ChangeBrushColor",
	CommandChangeBrushSize:  "ChangeBrushSize",
	CommandClearCanvas:      "ClearCanvas",
}

// String returns the name of the command kind.
func (k CommandKind) String() string {
	if k < commandKindCount {
		return commandKindNames[k]
	}
	return fmt.Sprintf("CommandKind(%d)", k)
}

// ParseCommandKind is the inverse of CommandKind.String.
func ParseCommandKind(name string) (CommandKind, bool) {
	for k, n := range commandKindNames {
		if n == name {
			return CommandKind(k), true
		}
	}
	return 0, false
}

// Command is one time-stamped instruction. Which fields are meaningful
// depends on Kind:
//
//	MoveCursor        Position, Pressure
//	DrawNextSegment   -
//	ChangeBrushColor  Color
//	ChangeBrushSize   Size
//	ClearCanvas       Color
type Command struct {
	Kind     CommandKind
	Time     float64 // milliseconds since the start of the recording
	Position screencast.Point
	Pressure float64
	Color    screencast.Color
	Size     screencast.BrushSize
}

// MoveCursor creates a cursor state command.
func MoveCursor(t float64, pos screencast.Point, pressure float64) Command {
	return Command{Kind: CommandMoveCursor, Time: t, Position: pos, Pressure: pressure}
}

// DrawNextSegment creates a command revealing one more segment.
func DrawNextSegment(t float64) Command {
	return Command{Kind: CommandDrawNextSegment, Time: t}
}

// ChangeBrushColor creates a color change command.
func ChangeBrushColor(t float64, c screencast.Color) Command {
	return Command{Kind: CommandChangeBrushColor, Time: t, Color: c}
}

// ChangeBrushSize creates a brush size change command.
func ChangeBrushSize(t float64, s screencast.BrushSize) Command {
	return Command{Kind: CommandChangeBrushSize, Time: t, Size: s}
}

// ClearCanvas creates a canvas clearing command.
func ClearCanvas(t float64, c screencast.Color) Command {
	return Command{Kind: CommandClearCanvas, Time: t, Color: c}
}

// At returns a copy of the command stamped with time t.
func (c Command) At(t float64) Command {
	c.Time = t
	return c
}

// Handler executes commands. Players implement it on top of a
// drawing.Backend.
type Handler interface {
	MoveCursor(pos screencast.Point, pressure float64)
	DrawNextSegment()
	ChangeBrushColor(c screencast.Color)
	ChangeBrushSize(s screencast.BrushSize)
	ClearCanvas(c screencast.Color)
}

// Execute dispatches the command to h.
func (c Command) Execute(h Handler) {
	switch c.Kind {
	case CommandMoveCursor:
		h.MoveCursor(c.Position, c.Pressure)
	case CommandDrawNextSegment:
		h.DrawNextSegment()
	case CommandChangeBrushColor:
		h.ChangeBrushColor(c.Color)
	case CommandChangeBrushSize:
		h.ChangeBrushSize(c.Size)
	case CommandClearCanvas:
		h.ClearCanvas(c.Color)
	}
}
