package video

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/screencast"
	"github.com/gogpu/screencast/drawing"
)

// logHandler records executed commands as strings.
type logHandler struct {
	log []string
}

func (h *logHandler) MoveCursor(pos screencast.Point, pressure float64) {
	h.log = append(h.log, fmt.Sprintf("move %v,%v %v", pos.X, pos.Y, pressure))
}

func (h *logHandler) DrawNextSegment() {
	h.log = append(h.log, "draw")
}

func (h *logHandler) ChangeBrushColor(c screencast.Color) {
	h.log = append(h.log, "color "+c.String())
}

func (h *logHandler) ChangeBrushSize(s screencast.BrushSize) {
	h.log = append(h.log, fmt.Sprintf("size %v", s))
}

func (h *logHandler) ClearCanvas(c screencast.Color) {
	h.log = append(h.log, "clear "+c.String())
}

func mustPush(t *testing.T, v *Video, cmd Command) {
	t.Helper()
	if err := v.PushCommand(cmd); err != nil {
		t.Fatalf("PushCommand(%v): %v", cmd.Kind, err)
	}
}

func strokeChunk(t *testing.T, v *Video, times ...float64) {
	t.Helper()
	path := drawing.NewPath(screencast.Black)
	v.PushChunk(NewPathChunk(times[0], path))
	for i, tm := range times {
		x := float64(i * 10)
		if i == 0 {
			path.Append(drawing.StartSegment(screencast.Pt(x, 0), 2))
		} else {
			path.Append(drawing.QuadSegment(screencast.Pt(x, 0), screencast.Pt(x, -1), screencast.Pt(x, 1)))
		}
		mustPush(t, v, DrawNextSegment(tm))
	}
}

// scenario records [Void@0, Erase@0, Path@100..500, Erase@600, Path@700..900].
func scenario(t *testing.T) *Video {
	t.Helper()
	v := New()
	v.PushChunk(NewVoidChunk(0))
	v.PushChunk(NewEraseChunk(0, screencast.White))
	mustPush(t, v, ClearCanvas(0, screencast.White))
	strokeChunk(t, v, 100, 200, 300, 400, 500)
	v.PushChunk(NewEraseChunk(600, screencast.White))
	mustPush(t, v, ClearCanvas(600, screencast.White))
	strokeChunk(t, v, 700, 800, 900)
	return v
}

func TestScenarioSeek(t *testing.T) {
	v := scenario(t)

	if got := v.RewindToLastEraseBefore(650); got != 3 {
		t.Errorf("RewindToLastEraseBefore(650) = %d, want 3", got)
	}

	v.SetCurrentChunkNumber(0)
	if got := v.FastforwardErasedChunksUntil(50); got != 1 {
		t.Errorf("FastforwardErasedChunksUntil(50) = %d, want 1", got)
	}
}

func TestEraseChain(t *testing.T) {
	v := scenario(t)
	want := []int{NoErase, NoErase, 1, 1, 3}
	for i, c := range v.Chunks() {
		if c.LastErase != want[i] {
			t.Errorf("chunk %d LastErase = %d, want %d", i, c.LastErase, want[i])
		}
	}
	if err := v.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if got := v.Metadata().Length; got != 900 {
		t.Errorf("Length = %v, want 900", got)
	}
	if got := v.Commands(); got != 10 {
		t.Errorf("Commands = %d, want 10", got)
	}
}

func TestRewindToLastEraseBefore(t *testing.T) {
	tests := []struct {
		from int
		t    float64
		want int
	}{
		{4, 900, 3},
		{4, 600, 3},
		{4, 599, 1},
		{4, 0, 1},
		{4, -1, 0},
		{3, 650, 3},
		{3, 100, 1},
		{2, 1000, 1},
		{0, 1000, 0},
		{5, 650, 3}, // past the end
		{-1, 650, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("from%d_t%v", tt.from, tt.t), func(t *testing.T) {
			v := scenario(t)
			v.SetCurrentChunkNumber(tt.from)
			if got := v.RewindToLastEraseBefore(tt.t); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFastforwardErasedChunksUntil(t *testing.T) {
	tests := []struct {
		from int
		t    float64
		want int
	}{
		{0, 50, 1},
		{0, 0, 1},
		{0, 650, 3},
		{0, 10000, 3},
		{2, 500, 2},
		{2, 600, 3},
		{4, 10000, 4},
		{5, 10000, 5},
		{-1, 50, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("from%d_t%v", tt.from, tt.t), func(t *testing.T) {
			v := scenario(t)
			v.SetCurrentChunkNumber(tt.from)
			if got := v.FastforwardErasedChunksUntil(tt.t); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSeekEmptyVideo(t *testing.T) {
	v := New()
	if got := v.RewindToLastEraseBefore(100); got != 0 {
		t.Errorf("RewindToLastEraseBefore = %d, want 0", got)
	}
	if got := v.FastforwardErasedChunksUntil(100); got != -1 {
		t.Errorf("FastforwardErasedChunksUntil = %d, want -1", got)
	}
}

func TestPushCommandWithoutChunk(t *testing.T) {
	v := New()
	err := v.PushCommand(DrawNextSegment(0))
	if !errors.Is(err, ErrNoChunk) {
		t.Errorf("err = %v, want ErrNoChunk", err)
	}
}

func TestPushChunkCapturesInitCommands(t *testing.T) {
	red := screencast.MustHex("#ff0000")
	v := New()
	v.PushChunk(NewVoidChunk(0))
	if n := len(v.CurrentChunk().InitCommands); n != 0 {
		t.Fatalf("first chunk has %d init commands", n)
	}
	mustPush(t, v, ChangeBrushColor(10, screencast.White))
	mustPush(t, v, ChangeBrushSize(20, 3))
	mustPush(t, v, MoveCursor(30, screencast.Pt(1, 2), 0))
	mustPush(t, v, ChangeBrushColor(40, red))
	mustPush(t, v, MoveCursor(50, screencast.Pt(5, 6), 1))

	v.PushChunk(NewVoidChunk(100))
	h := &logHandler{}
	v.CurrentChunk().ExecuteInitCommands(h)

	want := []string{"color #ff0000", "size 3", "move 5,6 1"}
	if fmt.Sprint(h.log) != fmt.Sprint(want) {
		t.Errorf("init commands = %v, want %v", h.log, want)
	}
	for _, cmd := range v.CurrentChunk().InitCommands {
		if cmd.Time != 100 {
			t.Errorf("init %v at %v, want 100", cmd.Kind, cmd.Time)
		}
	}
}

func TestChunkCursor(t *testing.T) {
	c := NewVoidChunk(0)
	c.PushCommand(MoveCursor(1, screencast.Pt(0, 0), 0))
	c.PushCommand(MoveCursor(2, screencast.Pt(1, 1), 0))

	cmd, ok := c.CurrentCommand()
	if !ok || cmd.Time != 1 {
		t.Fatalf("CurrentCommand = %v, %v", cmd, ok)
	}
	c.MoveNextCommand()
	c.MoveNextCommand()
	if _, ok := c.CurrentCommand(); ok {
		t.Error("exhausted chunk still has a current command")
	}
	c.MoveNextCommand()
	c.Rewind()
	if cmd, ok := c.CurrentCommand(); !ok || cmd.Time != 1 {
		t.Errorf("after Rewind = %v, %v", cmd, ok)
	}
}

func TestChunkRenderCoalescesCursor(t *testing.T) {
	path := drawing.NewPath(screencast.White)
	c := NewPathChunk(0, path)
	c.PushCommand(MoveCursor(0, screencast.Pt(0, 0), 1))
	c.PushCommand(DrawNextSegment(1))
	c.PushCommand(MoveCursor(2, screencast.Pt(1, 0), 1))
	c.PushCommand(DrawNextSegment(3))
	c.PushCommand(MoveCursor(4, screencast.Pt(2, 0), 0))

	c.MoveNextCommand() // the first move was already executed
	h := &logHandler{}
	c.Render(h)

	want := []string{"draw", "draw", "move 2,0 0"}
	if fmt.Sprint(h.log) != fmt.Sprint(want) {
		t.Errorf("Render = %v, want %v", h.log, want)
	}
	if _, ok := c.CurrentCommand(); ok {
		t.Error("Render left commands")
	}
}

func TestVideoCursor(t *testing.T) {
	v := scenario(t)
	v.RewindMinusOne()
	if v.CurrentChunk() != nil {
		t.Fatal("chunk before start")
	}
	if next := v.PeekNextChunk(); next == nil || next.Kind != ChunkVoid {
		t.Fatalf("PeekNextChunk = %v", next)
	}

	kinds := []ChunkKind{ChunkVoid, ChunkErase, ChunkPath, ChunkErase, ChunkPath}
	for i, want := range kinds {
		v.MoveNextChunk()
		if v.CurrentChunkNumber() != i {
			t.Fatalf("CurrentChunkNumber = %d, want %d", v.CurrentChunkNumber(), i)
		}
		if got := v.CurrentChunk().Kind; got != want {
			t.Errorf("chunk %d kind = %v, want %v", i, got, want)
		}
	}
	if v.PeekNextChunk() != nil {
		t.Error("PeekNextChunk past the last chunk")
	}

	v.MoveNextChunk()
	v.MoveNextChunk()
	if v.CurrentChunk() != nil {
		t.Error("CurrentChunk past the end")
	}
	if got := v.CurrentChunkNumber(); got != v.Len() {
		t.Errorf("CurrentChunkNumber = %d, want %d", got, v.Len())
	}

	v.SetCurrentChunkNumber(100)
	if got := v.CurrentChunkNumber(); got != v.Len() {
		t.Errorf("clamped CurrentChunkNumber = %d, want %d", got, v.Len())
	}
}

func TestMoveNextChunkRewindsCommands(t *testing.T) {
	v := scenario(t)
	v.SetCurrentChunkNumber(2)
	c := v.CurrentChunk()
	c.Render(&logHandler{})

	v.SetCurrentChunkNumber(1)
	v.MoveNextChunk()
	if _, ok := v.CurrentChunk().CurrentCommand(); !ok {
		t.Error("re-entered chunk is still exhausted")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(v *Video)
	}{
		{"decreasing start", func(v *Video) { v.chunks[3].StartTime = 50 }},
		{"broken chain", func(v *Video) { v.chunks[4].LastErase = 1 }},
		{"command before chunk", func(v *Video) { v.chunks[4].Commands[0].Time = 10 }},
		{"too many draws", func(v *Video) { v.chunks[4].Path.Segments = v.chunks[4].Path.Segments[:1] }},
		{"draw outside path", func(v *Video) { v.chunks[3].Commands[0].Kind = CommandDrawNextSegment }},
		{"missing path", func(v *Video) { v.chunks[2].Path = nil }},
		{"short length", func(v *Video) { v.meta.Length = 10 }},
		{"unknown kind", func(v *Video) { v.chunks[0].Kind = ChunkKind(7) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := scenario(t)
			tt.mutate(v)
			if err := v.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestSetMetadataRaisesLength(t *testing.T) {
	v := scenario(t)
	v.SetMetadata(Metadata{Length: 100, Width: 800, Height: 600})
	m := v.Metadata()
	if m.Length != 900 {
		t.Errorf("Length = %v, want 900", m.Length)
	}
	if m.Width != 800 || m.Height != 600 {
		t.Errorf("size = %vx%v", m.Width, m.Height)
	}
}

func TestKindStrings(t *testing.T) {
	for k := CommandKind(0); k < commandKindCount; k++ {
		got, ok := ParseCommandKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseCommandKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	for k := ChunkKind(0); k < chunkKindCount; k++ {
		got, ok := ParseChunkKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseChunkKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseCommandKind("Nope"); ok {
		t.Error("ParseCommandKind accepted an unknown name")
	}
	if s := CommandKind(42).String(); s != "CommandKind(42)" {
		t.Errorf("String = %q", s)
	}
}
