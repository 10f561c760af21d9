// Package raster provides a pixel backend for players and frame exports.
// Strokes are scan-converted with golang.org/x/image/vector into an RGBA
// image that can be encoded as PNG.
//
// # Example
//
//	import _ "github.com/gogpu/screencast/drawing/backends/raster"
//
//	backend, _ := drawing.NewBackend("raster", 1280, 720)
//
//	// Or directly
//	backend := raster.New(1280, 720)
package raster

import (
	"image"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/screencast"
	"github.com/gogpu/screencast/drawing"
)

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498

func init() {
	drawing.Register("raster", func(width, height int) drawing.Backend {
		return New(width, height)
	})
}

// Backend renders strokes into an *image.RGBA.
type Backend struct {
	img *image.RGBA
	ras *vector.Rasterizer

	videoW, videoH float64
	scale          float64
	offset         screencast.Point

	background screencast.Color
	color      screencast.Color
	size       screencast.BrushSize
}

var (
	_ drawing.Backend       = (*Backend)(nil)
	_ drawing.WriterBackend = (*Backend)(nil)
	_ drawing.ImageBackend  = (*Backend)(nil)
)

// New creates a backend with an output surface of width x height pixels
// filled with the default background.
func New(width, height int) *Backend {
	b := &Backend{
		scale:      1,
		background: screencast.DefaultBackground,
		color:      screencast.DefaultForeground,
	}
	b.Resize(width, height)
	return b
}

// Resize replaces the output surface. The new surface shows only the
// background color.
func (b *Backend) Resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	b.img = image.NewRGBA(image.Rect(0, 0, width, height))
	b.ras = vector.NewRasterizer(width, height)
	b.Stretch()
	b.ClearCanvas(b.background)
}

// Stretch fits the video area into the surface, centered, keeping its
// aspect ratio.
func (b *Backend) Stretch() {
	if b.videoW <= 0 || b.videoH <= 0 {
		b.scale = 1
		b.offset = screencast.Point{}
		return
	}
	w := float64(b.img.Bounds().Dx())
	h := float64(b.img.Bounds().Dy())
	b.scale = min(w/b.videoW, h/b.videoH)
	b.offset = screencast.Pt((w-b.videoW*b.scale)/2, (h-b.videoH*b.scale)/2)
}

// SetupOutputCorrection declares the video dimensions and returns the
// scaling factor.
func (b *Backend) SetupOutputCorrection(width, height float64) float64 {
	b.videoW, b.videoH = width, height
	b.Stretch()
	return b.scale
}

// ClearCanvas fills the whole surface.
func (b *Backend) ClearCanvas(color screencast.Color) {
	b.background = color
	draw.Draw(b.img, b.img.Bounds(), image.NewUniform(color), image.Point{}, draw.Src)
}

// SetCurrentColor sets the default color of new paths.
func (b *Backend) SetCurrentColor(color screencast.Color) {
	b.color = color
}

// SetBrushSize records the brush size.
func (b *Backend) SetBrushSize(size screencast.BrushSize) {
	b.size = size
}

// CreatePath returns a drawer painting the path's segments.
func (b *Backend) CreatePath(path *drawing.Path) drawing.PathDrawer {
	return &pathDrawer{backend: b, color: path.Color}
}

// Image returns the output surface.
func (b *Backend) Image() image.Image {
	return b.img
}

// Scaled returns a copy of the surface resampled to width x height.
func (b *Backend) Scaled(width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), b.img, b.img.Bounds(), draw.Src, nil)
	return dst
}

// DrawLabel prints a short text, such as the playback time, in the top
// left corner of the surface.
func (b *Backend) DrawLabel(text string, color screencast.Color) {
	d := &font.Drawer{
		Dst:  b.img,
		Src:  image.NewUniform(color),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(8, 8+basicfont.Face7x13.Ascent),
	}
	d.DrawString(text)
}

// WriteTo encodes the surface as PNG.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := png.Encode(cw, b.img)
	return cw.n, err
}

// SavePNG writes the surface to a PNG file.
func (b *Backend) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := b.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Scale returns the current output correction factor.
func (b *Backend) Scale() float64 {
	return b.scale
}

func (b *Backend) toOutput(p screencast.Point) (float32, float32) {
	q := p.Mul(b.scale).Add(b.offset)
	return float32(q.X), float32(q.Y)
}

func (b *Backend) fill(color screencast.Color) {
	b.ras.DrawOp = draw.Over
	b.ras.Draw(b.img, b.img.Bounds(), image.NewUniform(color), image.Point{})
	w, h := b.img.Bounds().Dx(), b.img.Bounds().Dy()
	b.ras.Reset(w, h)
}

// circle adds a closed circle in video coordinates.
func (b *Backend) circle(center screencast.Point, radius float64) {
	if radius <= 0 {
		return
	}
	cx, cy := center.X, center.Y
	k := radius * kappa
	pt := func(x, y float64) (float32, float32) { return b.toOutput(screencast.Pt(x, y)) }

	b.ras.MoveTo(pt(cx+radius, cy))
	x1, y1 := pt(cx+radius, cy+k)
	x2, y2 := pt(cx+k, cy+radius)
	x3, y3 := pt(cx, cy+radius)
	b.ras.CubeTo(x1, y1, x2, y2, x3, y3)
	x1, y1 = pt(cx-k, cy+radius)
	x2, y2 = pt(cx-radius, cy+k)
	x3, y3 = pt(cx-radius, cy)
	b.ras.CubeTo(x1, y1, x2, y2, x3, y3)
	x1, y1 = pt(cx-radius, cy-k)
	x2, y2 = pt(cx-k, cy-radius)
	x3, y3 = pt(cx, cy-radius)
	b.ras.CubeTo(x1, y1, x2, y2, x3, y3)
	x1, y1 = pt(cx+k, cy-radius)
	x2, y2 = pt(cx+radius, cy-k)
	x3, y3 = pt(cx+radius, cy)
	b.ras.CubeTo(x1, y1, x2, y2, x3, y3)
	b.ras.ClosePath()
}

// quad adds the quadrilateral between two segment edges.
func (b *Backend) quad(prev, cur drawing.Segment) {
	b.ras.MoveTo(b.toOutput(prev.Left))
	b.ras.LineTo(b.toOutput(cur.Left))
	b.ras.LineTo(b.toOutput(cur.Right))
	b.ras.LineTo(b.toOutput(prev.Right))
	b.ras.ClosePath()
}

type pathDrawer struct {
	backend *Backend
	color   screencast.Color
	prev    drawing.Segment
	started bool
}

// DrawSegment paints s joined to the previously drawn segment with a round
// cap so that consecutive quadrilaterals leave no gaps at sharp turns.
func (d *pathDrawer) DrawSegment(s drawing.Segment) {
	b := d.backend
	if d.started && s.Kind == drawing.SegmentQuad {
		b.quad(d.prev, s)
	}
	b.circle(s.Center, s.Radius)
	b.fill(d.color)
	d.prev = s
	d.started = true
}

// Flush is a no-op; segments are painted immediately.
func (d *pathDrawer) Flush() {}

// countingWriter wraps an io.Writer and counts bytes written.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
