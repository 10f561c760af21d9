// Package svganim stores videos as SVG documents. Opening the file in a
// browser shows the final picture of every chunk stacked on top of each
// other; the timing lives in data attributes and <set> elements:
//
//	<svg xmlns="http://www.w3.org/2000/svg" width="800" height="600" data-version="1" data-length="900">
//	  <g data-kind="Erase" data-start="0" fill="#ffffff">
//	    <set data-cmd="ClearCanvas" data-t="0" data-color="#ffffff"></set>
//	    <rect width="800" height="600"></rect>
//	  </g>
//	  <g data-kind="Path" data-start="100" fill="#000000" stroke="#000000">
//	    <set data-cmd="DrawNextSegment" data-t="100"></set>
//	    <circle cx="10" cy="10" r="1"></circle>
//	  </g>
//	</svg>
package svganim

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/gogpu/screencast/drawing"
	"github.com/gogpu/screencast/format"
	"github.com/gogpu/screencast/video"
)

// Name is the registry name of the format.
const Name = "svganim"

const svgNamespace = "http://www.w3.org/2000/svg"

func init() {
	format.Register(Name, Format{})
}

// Format implements format.Format.
type Format struct{}

var _ format.Format = Format{}

type svgDocument struct {
	XMLName xml.Name   `xml:"svg"`
	Xmlns   string     `xml:"xmlns,attr,omitempty"`
	Width   float64    `xml:"width,attr"`
	Height  float64    `xml:"height,attr"`
	Version int        `xml:"data-version,attr"`
	Length  float64    `xml:"data-length,attr"`
	Audio   []svgAudio `xml:"metadata>audio"`
	Chunks  []svgChunk `xml:"g"`
}

type svgAudio struct {
	Src  string `xml:"src,attr"`
	Type string `xml:"type,attr"`
}

type svgChunk struct {
	Kind     string       `xml:"data-kind,attr"`
	Start    float64      `xml:"data-start,attr"`
	Fill     string       `xml:"fill,attr,omitempty"`
	Stroke   string       `xml:"stroke,attr,omitempty"`
	Commands []svgCommand `xml:"set"`
	Shapes   []svgShape   `xml:",any"`
}

type svgCommand struct {
	Kind     string  `xml:"data-cmd,attr"`
	Time     float64 `xml:"data-t,attr"`
	X        float64 `xml:"data-x,attr,omitempty"`
	Y        float64 `xml:"data-y,attr,omitempty"`
	Pressure float64 `xml:"data-p,attr,omitempty"`
	Color    string  `xml:"data-color,attr,omitempty"`
	Size     float64 `xml:"data-size,attr,omitempty"`
}

// svgShape is a <circle> (start dot), a <line> (segment edge, x1/y1 left
// and x2/y2 right) or the <rect> painted by erase chunks.
type svgShape struct {
	XMLName xml.Name
	CX      float64 `xml:"cx,attr,omitempty"`
	CY      float64 `xml:"cy,attr,omitempty"`
	R       float64 `xml:"r,attr,omitempty"`
	X1      float64 `xml:"x1,attr,omitempty"`
	Y1      float64 `xml:"y1,attr,omitempty"`
	X2      float64 `xml:"x2,attr,omitempty"`
	Y2      float64 `xml:"y2,attr,omitempty"`
	Width   float64 `xml:"width,attr,omitempty"`
	Height  float64 `xml:"height,attr,omitempty"`
}

// Extension returns "svg".
func (Format) Extension() string {
	return "svg"
}

// SaveVideo writes v to w as an SVG document.
func (Format) SaveVideo(w io.Writer, v *video.Video) error {
	doc := toSVG(format.Encode(v))
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("svganim: encode video: %w", err)
	}
	return enc.Close()
}

// LoadVideo parses an SVG document written by SaveVideo.
func (Format) LoadVideo(r io.Reader) (*video.Video, error) {
	var doc svgDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: svganim: %w", format.ErrCorrupted, err)
	}
	d, err := fromSVG(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: svganim: %w", format.ErrCorrupted, err)
	}
	return d.Decode()
}

func toSVG(d format.Document) svgDocument {
	doc := svgDocument{
		Xmlns:   svgNamespace,
		Width:   d.Width,
		Height:  d.Height,
		Version: d.Version,
		Length:  d.Length,
		Chunks:  make([]svgChunk, 0, len(d.Chunks)),
	}
	for _, a := range d.Audio {
		doc.Audio = append(doc.Audio, svgAudio{Src: a.URL, Type: a.Type})
	}

	for _, cd := range d.Chunks {
		c := svgChunk{Kind: cd.Kind, Start: cd.Start, Fill: cd.Color}
		for _, cmd := range cd.Commands {
			c.Commands = append(c.Commands, svgCommand(cmd))
		}
		switch cd.Kind {
		case video.ChunkPath.String():
			c.Stroke = cd.Color
		case video.ChunkErase.String():
			c.Shapes = append(c.Shapes, svgShape{XMLName: xml.Name{Local: "rect"}, Width: d.Width, Height: d.Height})
		}
		for _, s := range cd.Segments {
			shape := svgShape{CX: s.X, CY: s.Y, R: s.Radius}
			if s.Kind == drawing.SegmentQuad.String() {
				shape.XMLName.Local = "line"
				shape.X1, shape.Y1, shape.X2, shape.Y2 = s.LX, s.LY, s.RX, s.RY
			} else {
				shape.XMLName.Local = "circle"
			}
			c.Shapes = append(c.Shapes, shape)
		}
		doc.Chunks = append(doc.Chunks, c)
	}
	return doc
}

func fromSVG(doc svgDocument) (format.Document, error) {
	d := format.Document{
		Version: doc.Version,
		Length:  doc.Length,
		Width:   doc.Width,
		Height:  doc.Height,
		Chunks:  make([]format.ChunkDocument, 0, len(doc.Chunks)),
	}
	for _, a := range doc.Audio {
		d.Audio = append(d.Audio, format.AudioDocument{URL: a.Src, Type: a.Type})
	}

	for i, c := range doc.Chunks {
		cd := format.ChunkDocument{
			Kind:     c.Kind,
			Start:    c.Start,
			Color:    c.Fill,
			Commands: make([]format.CommandDocument, 0, len(c.Commands)),
		}
		for _, cmd := range c.Commands {
			cd.Commands = append(cd.Commands, format.CommandDocument(cmd))
		}
		for _, s := range c.Shapes {
			seg := format.SegmentDocument{X: s.CX, Y: s.CY, Radius: s.R}
			switch s.XMLName.Local {
			case "circle":
				seg.Kind = drawing.SegmentZeroLength.String()
			case "line":
				seg.Kind = drawing.SegmentQuad.String()
				seg.LX, seg.LY, seg.RX, seg.RY = s.X1, s.Y1, s.X2, s.Y2
			case "rect":
				continue
			default:
				return format.Document{}, fmt.Errorf("chunk %d: unexpected element <%s>", i, s.XMLName.Local)
			}
			cd.Segments = append(cd.Segments, seg)
		}
		d.Chunks = append(d.Chunks, cd)
	}
	return d, nil
}
