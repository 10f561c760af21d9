package drawing

import "github.com/gogpu/screencast"

// SegmentKind identifies the shape of a Segment.
type SegmentKind uint8

const (
	// SegmentZeroLength is the dot that starts every path.
	SegmentZeroLength SegmentKind = iota
	// SegmentQuad spans from the previous segment's edge to its own edge.
	SegmentQuad
)

// String returns the name of the segment kind.
func (k SegmentKind) String() string {
	switch k {
	case SegmentZeroLength:
		return "ZeroLength"
	case SegmentQuad:
		return "Quad"
	}
	return "Unknown"
}

// Segment is one piece of a stroke.
//
// Every segment ends with an edge Left-Right perpendicular to the direction
// of the stroke, centered on Center. For a zero-length segment the edge
// collapses to the center and Radius gives the size of the dot.
type Segment struct {
	Kind   SegmentKind
	Center screencast.Point
	Left   screencast.Point
	Right  screencast.Point
	Radius float64
}

// StartSegment creates the zero-length dot that opens a path.
func StartSegment(center screencast.Point, radius float64) Segment {
	return Segment{
		Kind:   SegmentZeroLength,
		Center: center,
		Left:   center,
		Right:  center,
		Radius: radius,
	}
}

// QuadSegment creates a segment ending with the edge left-right.
func QuadSegment(center, left, right screencast.Point) Segment {
	return Segment{
		Kind:   SegmentQuad,
		Center: center,
		Left:   left,
		Right:  right,
		Radius: left.Distance(right) / 2,
	}
}

// Width returns the thickness of the stroke at the end of the segment.
func (s Segment) Width() float64 {
	return 2 * s.Radius
}
