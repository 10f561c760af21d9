// Package recorder captures pointer input as a video.
//
// The recorder turns raw cursor states into smoothed strokes with the
// drawing.Filter, shows them live on a drawing.Backend and stores every
// action as a command of a video.Video. A finished recording is serialized
// with a format.Writer and handed to an Uploader.
//
// A Recorder is not safe for concurrent use.
package recorder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gogpu/screencast"
	"github.com/gogpu/screencast/drawing"
	"github.com/gogpu/screencast/events"
	"github.com/gogpu/screencast/format"
	"github.com/gogpu/screencast/format/svganim"
	"github.com/gogpu/screencast/timer"
	"github.com/gogpu/screencast/video"
)

// DefaultBrushSize is the brush size of a new recording.
const DefaultBrushSize screencast.BrushSize = 5

var (
	// ErrNoUploader is returned by StartUpload when no Uploader is configured.
	// The recording can still be saved with Download.
	ErrNoUploader = errors.New("recorder: no uploader configured")

	// ErrBlocked is returned when the upload was already started.
	ErrBlocked = errors.New("recorder: recording is finished")
)

// CursorState is one reading of the pointing device in canvas pixels.
// Pressure is in [0, 1]; zero means the pen is up.
type CursorState struct {
	X, Y     float64
	Pressure float64
}

// Recorder records one video.
type Recorder struct {
	backend          drawing.Backend
	bus              *events.Bus
	timer            *timer.Timer
	filter           *drawing.Filter
	uploader         Uploader
	writer           format.Writer
	audio            AudioRecorder
	recordAllRawData bool
	width, height    float64
	subs             []events.Subscription

	video     *video.Video
	recording bool
	blocked   bool
	data      []byte // serialized video once the upload started

	color  screencast.Color
	size   screencast.BrushSize
	path   *drawing.Path
	drawer drawing.PathDrawer

	busyLevel            int
	wasRecordingWhenBusy bool
}

// New creates a paused recorder drawing on backend. The video starts with
// a blank canvas, the default brush color and a brush of DefaultBrushSize.
func New(backend drawing.Backend, opts ...Option) *Recorder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.bus == nil {
		o.bus = events.New(0)
	}
	if o.timer == nil {
		o.timer = timer.New(false)
	}
	if o.writer == nil {
		o.writer = svganim.Format{}
	}
	lo, hi := screencast.BrushBounds(o.brushSizes)

	r := &Recorder{
		backend:          backend,
		bus:              o.bus,
		timer:            o.timer,
		filter:           drawing.NewFilter(o.timer, lo, hi),
		uploader:         o.uploader,
		writer:           o.writer,
		audio:            o.audio,
		recordAllRawData: o.recordAllRawData,
		width:            o.width,
		height:           o.height,
		video:            video.New(),
	}
	r.subs = append(r.subs,
		r.bus.On(events.TypeBusy, func(events.Event) { r.Busy() }),
		r.bus.On(events.TypeReady, func(events.Event) { r.Ready() }),
	)

	backend.Stretch()
	r.ClearCanvas(o.background)
	r.ChangeColor(o.foreground)
	r.ChangeBrushSize(DefaultBrushSize)
	return r
}

// Close detaches the recorder from its bus.
func (r *Recorder) Close() {
	for _, sub := range r.subs {
		r.bus.Off(sub)
	}
	r.subs = nil
}

// Events returns the bus the recorder publishes to.
func (r *Recorder) Events() *events.Bus {
	return r.bus
}

// Video returns the recorded video.
func (r *Recorder) Video() *video.Video {
	return r.video
}

// Recording reports whether the recording is running.
func (r *Recorder) Recording() bool {
	return r.recording
}

// CurrentTime returns the length of the recording so far in milliseconds.
func (r *Recorder) CurrentTime() float64 {
	return r.timer.CurrentTime()
}

// Start starts or resumes recording.
func (r *Recorder) Start() {
	if r.recording || r.blocked {
		return
	}
	if r.busyLevel > 0 {
		r.wasRecordingWhenBusy = true
		return
	}
	r.recording = true
	r.pushChunk(video.NewVoidChunk(r.timer.CurrentTime()))
	r.timer.Resume()
	if r.audio != nil {
		r.audio.Start()
	}
	r.publish(events.Start{})
	screencast.Logger().Info("recorder: recording", "time", r.timer.CurrentTime())
}

// Pause stops recording temporarily. Input is still shown and, with raw
// data recording on, still stored, but the clock does not move.
func (r *Recorder) Pause() {
	if !r.recording {
		return
	}
	r.recording = false
	r.pushChunk(video.NewVoidChunk(r.timer.CurrentTime()))
	r.timer.Pause()
	if r.audio != nil {
		r.audio.Pause()
	}
	r.publish(events.Pause{})
	screencast.Logger().Info("recorder: paused", "time", r.timer.CurrentTime())
}

// ChangeColor changes the brush color of the following strokes.
func (r *Recorder) ChangeColor(c screencast.Color) {
	if !r.blocked {
		r.push(video.ChangeBrushColor(r.timer.CurrentTime(), c))
	}
	r.color = c
	r.backend.SetCurrentColor(c)
	r.publish(events.ChangeColor{Color: c.String()})
}

// ChangeBrushSize changes the brush size of the following strokes.
func (r *Recorder) ChangeBrushSize(size screencast.BrushSize) {
	if !r.blocked {
		r.push(video.ChangeBrushSize(r.timer.CurrentTime(), size))
	}
	r.size = size
	r.filter.SetBrushSize(size)
	r.backend.SetBrushSize(size)
	r.publish(events.ChangeBrushSize{Size: float64(size)})
}

// ClearCanvas erases everything with color.
func (r *Recorder) ClearCanvas(color screencast.Color) {
	if r.blocked {
		return
	}
	now := r.timer.CurrentTime()
	r.pushChunk(video.NewEraseChunk(now, color))
	r.push(video.ClearCanvas(now, color))
	r.backend.ClearCanvas(color)
}

// ProcessCursorState records one cursor reading. A positive pressure
// starts a stroke or continues the current one; zero pressure ends it.
func (r *Recorder) ProcessCursorState(s CursorState) {
	if r.blocked {
		return
	}
	pos := screencast.Pt(s.X, s.Y)
	if r.recordAllRawData || r.recording {
		pressure := 0.0
		if r.recordAllRawData {
			pressure = s.Pressure
		}
		r.push(video.MoveCursor(r.timer.CurrentTime(), pos, pressure))
	}

	sample := drawing.Sample{Position: pos, Pressure: s.Pressure}
	switch {
	case s.Pressure <= 0:
		r.endPath()
		return
	case r.path == nil:
		r.startPath(sample)
	default:
		e, ok := r.filter.Observe(sample)
		if !ok {
			return
		}
		r.path.Append(e.Segment)
		r.push(video.DrawNextSegment(e.Time))
		r.drawer.DrawSegment(e.Segment)
	}
	r.drawer.Flush()
}

func (r *Recorder) startPath(s drawing.Sample) {
	path := drawing.NewPath(r.color)
	e := r.filter.Begin(s)
	path.Append(e.Segment)
	r.pushChunk(video.NewPathChunk(e.Time, path))
	r.push(video.DrawNextSegment(e.Time))

	r.path = path
	r.drawer = r.backend.CreatePath(path)
	r.drawer.DrawSegment(e.Segment)
}

func (r *Recorder) endPath() {
	r.path, r.drawer = nil, nil
}

// pushChunk ends the current stroke: segments are only drawn inside the
// path chunk they belong to.
func (r *Recorder) pushChunk(c video.Chunk) {
	r.endPath()
	r.video.PushChunk(c)
}

func (r *Recorder) push(cmd video.Command) {
	if err := r.video.PushCommand(cmd); err != nil {
		screencast.Logger().Warn("recorder: command dropped", "command", cmd.Kind, "err", err)
	}
}

// StartUpload finishes the recording and uploads it. Afterwards the
// recorder ignores all input. RecordingFinished is published with the
// outcome; after a failure the recording is still available via Download.
func (r *Recorder) StartUpload(ctx context.Context) error {
	if r.blocked {
		return ErrBlocked
	}
	r.Pause()
	r.blocked = true
	r.endPath()

	meta := r.metadata()
	if r.audio != nil && r.audio.Active() {
		tracks, err := r.audio.Stop(ctx)
		if err != nil {
			r.finish(false, "")
			return fmt.Errorf("recorder: stop audio: %w", err)
		}
		meta.AudioTracks = tracks
	}
	r.video.SetMetadata(meta)

	var buf bytes.Buffer
	if err := r.writer.SaveVideo(&buf, r.video); err != nil {
		r.finish(false, "")
		return fmt.Errorf("recorder: serialize video: %w", err)
	}
	r.data = buf.Bytes()

	if r.uploader == nil {
		r.finish(false, "")
		return ErrNoUploader
	}
	r.Busy()
	res, err := r.uploader.Upload(ctx, r.writer.Extension(), bytes.NewReader(r.data))
	r.Ready()
	if err != nil {
		r.finish(false, "")
		return fmt.Errorf("recorder: upload: %w", err)
	}
	if !res.Success {
		r.finish(false, "")
		return ErrUploadFailed
	}
	r.finish(true, res.Redirect)
	return nil
}

func (r *Recorder) metadata() video.Metadata {
	return video.Metadata{
		Length: r.timer.CurrentTime(),
		Width:  r.width,
		Height: r.height,
	}
}

func (r *Recorder) finish(success bool, redirect string) {
	r.publish(events.RecordingFinished{Success: success, Redirect: redirect})
	if success {
		screencast.Logger().Info("recorder: upload finished", "redirect", redirect, "bytes", len(r.data))
	} else {
		screencast.Logger().Warn("recorder: upload failed", "bytes", len(r.data))
	}
}

// Download writes the serialized recording to w, for saving it locally
// when the upload failed.
func (r *Recorder) Download(w io.Writer) error {
	if r.data != nil {
		_, err := w.Write(r.data)
		return err
	}
	r.video.SetMetadata(r.metadata())
	return r.writer.SaveVideo(w, r.video)
}

// Filename returns the name a downloaded recording is saved under.
func (r *Recorder) Filename() string {
	return "recorded-animation." + r.writer.Extension()
}

// Busy pauses recording for a long operation. Calls nest; recording
// resumes after the matching number of Ready calls.
func (r *Recorder) Busy() {
	r.busyLevel++
	r.wasRecordingWhenBusy = r.wasRecordingWhenBusy || r.recording
	r.Pause()
}

// Ready ends one Busy.
func (r *Recorder) Ready() {
	if r.busyLevel == 0 {
		return
	}
	r.busyLevel--
	if r.busyLevel == 0 && r.wasRecordingWhenBusy {
		r.wasRecordingWhenBusy = false
		r.Start()
	}
}

// BusyLevel returns the number of unfinished Busy calls.
func (r *Recorder) BusyLevel() int {
	return r.busyLevel
}

func (r *Recorder) publish(e events.Event) {
	if err := r.bus.Trigger(e); err != nil {
		screencast.Logger().Debug("recorder: event dropped", "event", e.Type(), "err", err)
	}
}
