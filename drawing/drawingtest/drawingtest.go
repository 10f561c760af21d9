// Package drawingtest provides an in-memory drawing.Backend that remembers
// what is visible, for tests of players and recorders.
package drawingtest

import (
	"slices"

	"github.com/gogpu/screencast"
	"github.com/gogpu/screencast/drawing"
)

// Stroke is one path as it is visible on the fake canvas.
type Stroke struct {
	Color    screencast.Color
	Segments []drawing.Segment
}

// Snapshot is a copy of the visible canvas content.
type Snapshot struct {
	Background screencast.Color
	Strokes    []Stroke
}

// Equal reports whether two snapshots show the same picture.
func (s Snapshot) Equal(o Snapshot) bool {
	if s.Background != o.Background || len(s.Strokes) != len(o.Strokes) {
		return false
	}
	for i := range s.Strokes {
		if s.Strokes[i].Color != o.Strokes[i].Color ||
			!slices.Equal(s.Strokes[i].Segments, o.Strokes[i].Segments) {
			return false
		}
	}
	return true
}

// Segments returns the number of visible segments.
func (s Snapshot) Segments() int {
	n := 0
	for _, st := range s.Strokes {
		n += len(st.Segments)
	}
	return n
}

// Backend is a drawing.Backend that keeps the canvas as a list of strokes.
type Backend struct {
	Width, Height     int
	VideoW, VideoH    float64
	Color             screencast.Color
	Size              screencast.BrushSize
	Clears            int
	Flushes           int
	Stretches         int
	SegmentsSubmitted int

	background screencast.Color
	strokes    []*Stroke
}

var _ drawing.Backend = (*Backend)(nil)

// New creates an empty fake backend with the given output size.
func New(width, height int) *Backend {
	return &Backend{Width: width, Height: height}
}

func (b *Backend) Resize(width, height int) {
	b.Width, b.Height = width, height
	b.strokes = nil
}

func (b *Backend) Stretch() {
	b.Stretches++
}

func (b *Backend) SetupOutputCorrection(width, height float64) float64 {
	b.VideoW, b.VideoH = width, height
	if width <= 0 || height <= 0 {
		return 1
	}
	return min(float64(b.Width)/width, float64(b.Height)/height)
}

func (b *Backend) ClearCanvas(color screencast.Color) {
	b.Clears++
	b.background = color
	b.strokes = nil
}

func (b *Backend) SetCurrentColor(color screencast.Color) {
	b.Color = color
}

func (b *Backend) SetBrushSize(size screencast.BrushSize) {
	b.Size = size
}

func (b *Backend) CreatePath(path *drawing.Path) drawing.PathDrawer {
	s := &Stroke{Color: path.Color}
	b.strokes = append(b.strokes, s)
	return &pathDrawer{backend: b, stroke: s}
}

// Snapshot copies the visible content.
func (b *Backend) Snapshot() Snapshot {
	snap := Snapshot{Background: b.background}
	for _, s := range b.strokes {
		snap.Strokes = append(snap.Strokes, Stroke{
			Color:    s.Color,
			Segments: slices.Clone(s.Segments),
		})
	}
	return snap
}

type pathDrawer struct {
	backend *Backend
	stroke  *Stroke
}

func (d *pathDrawer) DrawSegment(s drawing.Segment) {
	d.backend.SegmentsSubmitted++
	d.stroke.Segments = append(d.stroke.Segments, s)
}

func (d *pathDrawer) Flush() {
	d.backend.Flushes++
}
