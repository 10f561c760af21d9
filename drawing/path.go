package drawing

import "github.com/gogpu/screencast"

// Path is one continuous stroke: an ordered, append-only list of segments
// drawn in a single color. The first segment is a zero-length start dot.
type Path struct {
	Color    screencast.Color
	Segments []Segment
}

// NewPath creates an empty path of the given color.
func NewPath(color screencast.Color) *Path {
	return &Path{
		Color:    color,
		Segments: make([]Segment, 0, 32),
	}
}

// Append adds a segment to the end of the path.
func (p *Path) Append(s Segment) {
	p.Segments = append(p.Segments, s)
}

// Len returns the number of segments.
func (p *Path) Len() int {
	return len(p.Segments)
}

// Clone creates a deep copy of the path.
func (p *Path) Clone() *Path {
	result := &Path{
		Color:    p.Color,
		Segments: make([]Segment, len(p.Segments)),
	}
	copy(result.Segments, p.Segments)
	return result
}
