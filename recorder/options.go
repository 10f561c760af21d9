package recorder

import (
	"github.com/gogpu/screencast"
	"github.com/gogpu/screencast/events"
	"github.com/gogpu/screencast/format"
	"github.com/gogpu/screencast/timer"
)

// Option configures a Recorder during creation.
type Option func(*options)

type options struct {
	bus              *events.Bus
	timer            *timer.Timer
	uploader         Uploader
	writer           format.Writer
	audio            AudioRecorder
	recordAllRawData bool
	brushSizes       []screencast.BrushSize
	background       screencast.Color
	foreground       screencast.Color
	width, height    float64
}

func defaultOptions() options {
	return options{
		recordAllRawData: true,
		brushSizes:       screencast.DefaultBrushSizes,
		background:       screencast.DefaultBackground,
		foreground:       screencast.DefaultForeground,
		width:            800,
		height:           600,
	}
}

// WithEvents connects the recorder to a bus. The recorder publishes its
// state changes there and follows Busy and Ready events.
func WithEvents(bus *events.Bus) Option {
	return func(o *options) {
		o.bus = bus
	}
}

// WithTimer replaces the recording clock.
func WithTimer(t *timer.Timer) Option {
	return func(o *options) {
		o.timer = t
	}
}

// WithUploader sets where StartUpload sends the finished recording.
func WithUploader(u Uploader) Option {
	return func(o *options) {
		o.uploader = u
	}
}

// WithFormat sets the format the recording is serialized with.
// The default is the registered format.DefaultFormat.
func WithFormat(w format.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

// WithAudio records a voice track alongside the strokes.
func WithAudio(a AudioRecorder) Option {
	return func(o *options) {
		o.audio = a
	}
}

// WithRecordAllRawData controls whether cursor movement is recorded while
// the recording is paused, together with the pen pressure. It is on by
// default; when off, only moves during recording are kept and their
// pressure is stored as zero.
func WithRecordAllRawData(all bool) Option {
	return func(o *options) {
		o.recordAllRawData = all
	}
}

// WithBrushSizes sets the brush sizes offered to the user. Their bounds
// tune the smoothing filter.
func WithBrushSizes(sizes ...screencast.BrushSize) Option {
	return func(o *options) {
		if len(sizes) > 0 {
			o.brushSizes = sizes
		}
	}
}

// WithColors sets the initial canvas and brush colors.
func WithColors(background, foreground screencast.Color) Option {
	return func(o *options) {
		o.background = background
		o.foreground = foreground
	}
}

// WithCanvasSize sets the canvas size stored in the video metadata.
func WithCanvasSize(width, height float64) Option {
	return func(o *options) {
		o.width, o.height = width, height
	}
}
