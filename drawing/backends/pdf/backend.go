// Package pdf renders the visible canvas as a single vector PDF page using
// github.com/jung-kurt/gofpdf.
//
// Clearing the canvas starts a new document, so the page written by WriteTo
// holds exactly what a player shows at that moment.
package pdf

import (
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/gogpu/screencast"
	"github.com/gogpu/screencast/drawing"
)

func init() {
	drawing.Register("pdf", func(width, height int) drawing.Backend {
		return New(width, height)
	})
}

// Backend draws strokes as filled polygons and circles.
type Backend struct {
	doc           *gofpdf.Fpdf
	width, height float64

	videoW, videoH float64
	scale          float64
	offset         screencast.Point

	background screencast.Color
	color      screencast.Color
	size       screencast.BrushSize
}

var _ drawing.WriterBackend = (*Backend)(nil)

// New creates a backend with a page of width x height points.
func New(width, height int) *Backend {
	b := &Backend{
		scale:      1,
		background: screencast.DefaultBackground,
		color:      screencast.DefaultForeground,
	}
	b.Resize(width, height)
	return b
}

// Resize changes the page size and starts a new document.
func (b *Backend) Resize(width, height int) {
	b.width, b.height = float64(max(width, 1)), float64(max(height, 1))
	b.Stretch()
	b.ClearCanvas(b.background)
}

// Stretch fits the video area into the page, centered.
func (b *Backend) Stretch() {
	if b.videoW <= 0 || b.videoH <= 0 {
		b.scale = 1
		b.offset = screencast.Point{}
		return
	}
	b.scale = min(b.width/b.videoW, b.height/b.videoH)
	b.offset = screencast.Pt((b.width-b.videoW*b.scale)/2, (b.height-b.videoH*b.scale)/2)
}

// SetupOutputCorrection declares the video dimensions and returns the
// scaling factor in points per video pixel.
func (b *Backend) SetupOutputCorrection(width, height float64) float64 {
	b.videoW, b.videoH = width, height
	b.Stretch()
	return b.scale
}

// ClearCanvas discards everything drawn so far and paints the background.
func (b *Backend) ClearCanvas(color screencast.Color) {
	b.background = color
	b.doc = gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: b.width, Ht: b.height},
	})
	b.doc.SetCreator("screencast", true)
	b.doc.AddPage()
	b.setFill(color)
	b.doc.Rect(0, 0, b.width, b.height, "F")
}

func (b *Backend) SetCurrentColor(color screencast.Color) {
	b.color = color
}

func (b *Backend) SetBrushSize(size screencast.BrushSize) {
	b.size = size
}

func (b *Backend) CreatePath(path *drawing.Path) drawing.PathDrawer {
	return &pathDrawer{backend: b, color: path.Color}
}

// WriteTo writes the document. The document is closed afterwards; the next
// ClearCanvas or Resize starts a new one.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := b.doc.Output(cw)
	return cw.n, err
}

// Err returns the first error gofpdf ran into, if any.
func (b *Backend) Err() error {
	return b.doc.Error()
}

func (b *Backend) setFill(c screencast.Color) {
	b.doc.SetFillColor(int(c.R), int(c.G), int(c.B))
	b.doc.SetAlpha(float64(c.A)/255, "Normal")
}

func (b *Backend) toPage(p screencast.Point) gofpdf.PointType {
	q := p.Mul(b.scale).Add(b.offset)
	return gofpdf.PointType{X: q.X, Y: q.Y}
}

type pathDrawer struct {
	backend *Backend
	color   screencast.Color
	prev    drawing.Segment
	started bool
}

func (d *pathDrawer) DrawSegment(s drawing.Segment) {
	b := d.backend
	b.setFill(d.color)
	if d.started && s.Kind == drawing.SegmentQuad {
		b.doc.Polygon([]gofpdf.PointType{
			b.toPage(d.prev.Left),
			b.toPage(s.Left),
			b.toPage(s.Right),
			b.toPage(d.prev.Right),
		}, "F")
	}
	if s.Radius > 0 {
		c := b.toPage(s.Center)
		b.doc.Circle(c.X, c.Y, s.Radius*b.scale, "F")
	}
	d.prev = s
	d.started = true
}

func (d *pathDrawer) Flush() {}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
