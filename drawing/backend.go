package drawing

import (
	"image"
	"io"

	"github.com/gogpu/screencast"
)

// Backend is the rendering collaborator of a player or recorder. It consumes
// committed segments plus color and size changes and turns them into pixels,
// PDF pages or whatever its output format is.
//
// Video coordinates are given in the resolution the video was recorded at;
// the backend maps them onto its output surface, preserving the aspect ratio.
type Backend interface {
	// Resize changes the size of the output surface in pixels.
	// The content is lost; callers redraw it afterwards.
	Resize(width, height int)

	// Stretch refits the video area into the current output surface.
	Stretch()

	// SetupOutputCorrection declares the dimensions of the video being drawn
	// and returns the resulting scaling factor (output units per video unit).
	SetupOutputCorrection(width, height float64) float64

	// ClearCanvas fills the whole surface with the given color.
	ClearCanvas(color screencast.Color)

	// SetCurrentColor sets the color of subsequently created paths.
	SetCurrentColor(color screencast.Color)

	// SetBrushSize records the current brush size.
	SetBrushSize(size screencast.BrushSize)

	// CreatePath starts drawing a new stroke. Segments are added to the
	// path by the caller and handed to the drawer one at a time.
	CreatePath(path *Path) PathDrawer
}

// PathDrawer draws one stroke incrementally.
type PathDrawer interface {
	// DrawSegment draws the next segment of the path. The drawer remembers
	// the previous segment to connect the quadrilateral to it.
	DrawSegment(s Segment)

	// Flush makes everything drawn so far visible. Players call it once
	// per tick.
	Flush()
}

// WriterBackend extends Backend with the ability to write the output to a writer.
type WriterBackend interface {
	Backend

	// WriteTo writes the rendered content (PNG, PDF, ...) to w.
	WriteTo(w io.Writer) (int64, error)
}

// ImageBackend extends Backend with access to the rendered pixels.
type ImageBackend interface {
	Backend

	// Image returns the output surface.
	Image() image.Image
}
