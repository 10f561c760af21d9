package format

import (
	"fmt"

	"github.com/gogpu/screencast"
	"github.com/gogpu/screencast/drawing"
	"github.com/gogpu/screencast/video"
)

// Version of the Document layout.
const Version = 1

// Document is the serializable form of a video.
type Document struct {
	Version int             `msgpack:"v"`
	Length  float64         `msgpack:"len"`
	Width   float64         `msgpack:"w"`
	Height  float64         `msgpack:"h"`
	Audio   []AudioDocument `msgpack:"audio,omitempty"`
	Chunks  []ChunkDocument `msgpack:"chunks"`
}

// AudioDocument references an audio track.
type AudioDocument struct {
	URL  string `msgpack:"url"`
	Type string `msgpack:"type"`
}

// ChunkDocument is one chunk. Color is the path color of path chunks and
// the canvas color of erase chunks.
type ChunkDocument struct {
	Kind     string            `msgpack:"k"`
	Start    float64           `msgpack:"t"`
	Color    string            `msgpack:"c,omitempty"`
	Segments []SegmentDocument `msgpack:"s,omitempty"`
	Commands []CommandDocument `msgpack:"cmd"`
}

// SegmentDocument is one segment of a path.
type SegmentDocument struct {
	Kind   string  `msgpack:"k"`
	X      float64 `msgpack:"x"`
	Y      float64 `msgpack:"y"`
	LX     float64 `msgpack:"lx,omitempty"`
	LY     float64 `msgpack:"ly,omitempty"`
	RX     float64 `msgpack:"rx,omitempty"`
	RY     float64 `msgpack:"ry,omitempty"`
	Radius float64 `msgpack:"r"`
}

// CommandDocument is one command.
type CommandDocument struct {
	Kind     string  `msgpack:"k"`
	Time     float64 `msgpack:"t"`
	X        float64 `msgpack:"x,omitempty"`
	Y        float64 `msgpack:"y,omitempty"`
	Pressure float64 `msgpack:"p,omitempty"`
	Color    string  `msgpack:"c,omitempty"`
	Size     float64 `msgpack:"s,omitempty"`
}

// Encode converts v into a document.
func Encode(v *video.Video) Document {
	m := v.Metadata()
	doc := Document{
		Version: Version,
		Length:  m.Length,
		Width:   m.Width,
		Height:  m.Height,
		Chunks:  make([]ChunkDocument, 0, v.Len()),
	}
	for _, a := range m.AudioTracks {
		doc.Audio = append(doc.Audio, AudioDocument{URL: a.URL, Type: a.Type})
	}

	for _, c := range v.Chunks() {
		cd := ChunkDocument{
			Kind:     c.Kind.String(),
			Start:    c.StartTime,
			Commands: make([]CommandDocument, 0, len(c.Commands)),
		}
		switch c.Kind {
		case video.ChunkPath:
			cd.Color = c.Path.Color.String()
			cd.Segments = make([]SegmentDocument, 0, c.Path.Len())
			for _, s := range c.Path.Segments {
				cd.Segments = append(cd.Segments, encodeSegment(s))
			}
		case video.ChunkErase:
			cd.Color = c.Color.String()
		}
		for _, cmd := range c.Commands {
			cd.Commands = append(cd.Commands, encodeCommand(cmd))
		}
		doc.Chunks = append(doc.Chunks, cd)
	}
	return doc
}

func encodeSegment(s drawing.Segment) SegmentDocument {
	sd := SegmentDocument{
		Kind:   s.Kind.String(),
		X:      s.Center.X,
		Y:      s.Center.Y,
		Radius: s.Radius,
	}
	if s.Kind == drawing.SegmentQuad {
		sd.LX, sd.LY = s.Left.X, s.Left.Y
		sd.RX, sd.RY = s.Right.X, s.Right.Y
	}
	return sd
}

func encodeCommand(c video.Command) CommandDocument {
	cd := CommandDocument{Kind: c.Kind.String(), Time: c.Time}
	switch c.Kind {
	case video.CommandMoveCursor:
		cd.X, cd.Y, cd.Pressure = c.Position.X, c.Position.Y, c.Pressure
	case video.CommandChangeBrushColor, video.CommandClearCanvas:
		cd.Color = c.Color.String()
	case video.CommandChangeBrushSize:
		cd.Size = float64(c.Size)
	}
	return cd
}

// Decode rebuilds the video by pushing the chunks and commands in order.
// Any inconsistency is reported as ErrCorrupted.
func (d *Document) Decode() (*video.Video, error) {
	if d.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupted, d.Version)
	}

	v := video.New()
	for i, cd := range d.Chunks {
		c, err := cd.chunk()
		if err != nil {
			return nil, fmt.Errorf("%w: chunk %d: %w", ErrCorrupted, i, err)
		}
		v.PushChunk(c)
		for j, cmdDoc := range cd.Commands {
			cmd, err := cmdDoc.command()
			if err != nil {
				return nil, fmt.Errorf("%w: chunk %d command %d: %w", ErrCorrupted, i, j, err)
			}
			if err := v.PushCommand(cmd); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrCorrupted, err)
			}
		}
	}

	m := video.Metadata{Length: d.Length, Width: d.Width, Height: d.Height}
	for _, a := range d.Audio {
		m.AudioTracks = append(m.AudioTracks, video.AudioSource{URL: a.URL, Type: a.Type})
	}
	v.SetMetadata(m)

	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupted, err)
	}
	return v, nil
}

func (cd ChunkDocument) chunk() (video.Chunk, error) {
	kind, ok := video.ParseChunkKind(cd.Kind)
	if !ok {
		return video.Chunk{}, fmt.Errorf("unknown chunk kind %q", cd.Kind)
	}
	switch kind {
	case video.ChunkPath:
		color, err := screencast.Hex(cd.Color)
		if err != nil {
			return video.Chunk{}, err
		}
		path := drawing.NewPath(color)
		for _, sd := range cd.Segments {
			s, err := sd.segment()
			if err != nil {
				return video.Chunk{}, err
			}
			path.Append(s)
		}
		return video.NewPathChunk(cd.Start, path), nil
	case video.ChunkErase:
		color, err := screencast.Hex(cd.Color)
		if err != nil {
			return video.Chunk{}, err
		}
		return video.NewEraseChunk(cd.Start, color), nil
	default:
		return video.NewVoidChunk(cd.Start), nil
	}
}

func (sd SegmentDocument) segment() (drawing.Segment, error) {
	center := screencast.Pt(sd.X, sd.Y)
	switch sd.Kind {
	case drawing.SegmentZeroLength.String():
		return drawing.StartSegment(center, sd.Radius), nil
	case drawing.SegmentQuad.String():
		return drawing.Segment{
			Kind:   drawing.SegmentQuad,
			Center: center,
			Left:   screencast.Pt(sd.LX, sd.LY),
			Right:  screencast.Pt(sd.RX, sd.RY),
			Radius: sd.Radius,
		}, nil
	}
	return drawing.Segment{}, fmt.Errorf("unknown segment kind %q", sd.Kind)
}

func (cd CommandDocument) command() (video.Command, error) {
	kind, ok := video.ParseCommandKind(cd.Kind)
	if !ok {
		return video.Command{}, fmt.Errorf("unknown command kind %q", cd.Kind)
	}
	switch kind {
	case video.CommandMoveCursor:
		return video.MoveCursor(cd.Time, screencast.Pt(cd.X, cd.Y), cd.Pressure), nil
	case video.CommandDrawNextSegment:
		return video.DrawNextSegment(cd.Time), nil
	case video.CommandChangeBrushSize:
		return video.ChangeBrushSize(cd.Time, screencast.BrushSize(cd.Size)), nil
	}

	color, err := screencast.Hex(cd.Color)
	if err != nil {
		return video.Command{}, err
	}
	if kind == video.CommandClearCanvas {
		return video.ClearCanvas(cd.Time, color), nil
	}
	return video.ChangeBrushColor(cd.Time, color), nil
}
