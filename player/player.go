// Package player plays recorded videos back on a drawing.Backend.
//
// The player is driven by the host's animation clock (Frames). Every tick
// executes the commands that became due since the previous tick; a jump to
// another moment uses the erase chain of the video to replay only what is
// visible at the target time.
//
// A Player is not safe for concurrent use. Call its methods from the
// goroutine that runs the frame callbacks, e.g. by scheduling them with
// Loop.RequestFrame.
package player

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/gogpu/screencast"
	"github.com/gogpu/screencast/drawing"
	"github.com/gogpu/screencast/events"
	"github.com/gogpu/screencast/format"
	"github.com/gogpu/screencast/timer"
	"github.com/gogpu/screencast/video"
)

// ErrNoVideo is returned by operations that need a loaded video.
var ErrNoVideo = errors.New("player: no video loaded")

// Player plays one video at a time.
type Player struct {
	backend    drawing.Backend
	frames     Frames
	bus        *events.Bus
	timer      *timer.Timer
	newAudio   func([]video.AudioSource) Audio
	autoplay   bool
	background screencast.Color
	subs       []events.Subscription

	video   *video.Video
	audio   Audio
	scale   float64
	playing bool
	ended   bool
	frame   FrameID
	ticking bool

	// stroke being revealed
	path         *drawing.Path
	drawer       drawing.PathDrawer
	drawnSegment int

	lastMove video.Command
	hasMove  bool

	busyLevel          int
	wasPlayingWhenBusy bool

	cursor   screencast.Point
	pressure float64
	color    screencast.Color
	size     screencast.BrushSize
}

// New creates a player drawing on backend.
func New(backend drawing.Backend, opts ...Option) *Player {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.bus == nil {
		o.bus = events.New(0)
	}
	if o.frames == nil {
		o.frames = NewLoop(o.bus)
	}
	if o.timer == nil {
		o.timer = timer.New(false)
	}

	p := &Player{
		backend:    backend,
		frames:     o.frames,
		bus:        o.bus,
		timer:      o.timer,
		newAudio:   o.newAudio,
		autoplay:   o.autoplay,
		background: o.background,
		audio:      nopAudio{},
		scale:      1,
		color:      screencast.DefaultForeground,
	}
	p.subs = append(p.subs,
		p.bus.On(events.TypeBusy, func(events.Event) { p.Busy() }),
		p.bus.On(events.TypeReady, func(events.Event) { p.Ready() }),
	)
	return p
}

// Close stops playback and detaches the player from its bus.
func (p *Player) Close() {
	p.Pause()
	for _, sub := range p.subs {
		p.bus.Off(sub)
	}
	p.subs = nil
}

// Frames returns the animation clock of the player.
func (p *Player) Frames() Frames {
	return p.frames
}

// Events returns the bus the player publishes to.
func (p *Player) Events() *events.Bus {
	return p.bus
}

// Load reads a video with r and starts showing it. Malformed data is
// reported with a DataCorrupted event; the player then keeps no video and
// stays busy.
func (p *Player) Load(src io.Reader, r format.Reader) error {
	p.Busy()
	v, err := r.LoadVideo(src)
	if err != nil {
		p.video = nil
		p.publish(events.DataCorrupted{Err: err})
		screencast.Logger().Warn("player: cannot load video", "err", err)
		return fmt.Errorf("player: load video: %w", err)
	}
	p.SetVideo(v)
	p.Ready()
	if p.autoplay {
		p.Play()
	}
	return nil
}

// SetVideo replaces the played video and shows its first moment.
func (p *Player) SetVideo(v *video.Video) {
	p.Pause()
	p.video = v
	m := v.Metadata()
	p.audio = p.newAudio(m.AudioTracks)
	p.publish(events.VideoInfoLoaded{
		Length:      m.Length,
		Width:       m.Width,
		Height:      m.Height,
		AudioTracks: len(m.AudioTracks),
	})
	p.scale = p.backend.SetupOutputCorrection(m.Width, m.Height)
	p.publish(events.CanvasScalingFactor{Factor: p.scale})

	p.timer.SetTime(0)
	p.ended = false
	p.restartFrom(0)
	screencast.Logger().Debug("player: video loaded", "chunks", v.Len(), "length", m.Length)
}

// Video returns the loaded video, or nil.
func (p *Player) Video() *video.Video {
	return p.video
}

// Play starts or resumes playback. At the end of the video it starts over.
// While the player is busy, playback starts once it is ready.
func (p *Player) Play() {
	if p.video == nil || p.playing {
		return
	}
	if p.busyLevel > 0 {
		p.wasPlayingWhenBusy = true
		return
	}
	if p.ended {
		p.SeekTo(0)
		// A zero-length video is still at its end after the rewind.
		p.ended = false
	}
	p.playing = true
	p.timer.Resume()
	p.audio.Play()
	p.requestTick()
	p.publish(events.Start{})
}

// Pause stops playback immediately and cancels the pending tick.
func (p *Player) Pause() {
	if !p.playing {
		return
	}
	p.timer.Pause()
	p.playing = false
	p.audio.Pause()
	p.cancelTick()
	p.publish(events.Pause{})
}

// Playing reports whether the video is playing.
func (p *Player) Playing() bool {
	return p.playing
}

// Ended reports whether playback arrived at the end of the video.
func (p *Player) Ended() bool {
	return p.ended
}

// CurrentTime returns the playback position in milliseconds.
func (p *Player) CurrentTime() float64 {
	return p.timer.CurrentTime()
}

// Scale returns the output correction factor reported by the backend.
func (p *Player) Scale() float64 {
	return p.scale
}

// Tick synchronizes the canvas with the clock and schedules the next tick
// while playing.
func (p *Player) Tick() {
	p.ticking = false
	p.Sync()
	p.publish(events.CurrentTime{Milliseconds: p.timer.CurrentTime()})
	if p.playing {
		p.requestTick()
	}
}

func (p *Player) requestTick() {
	if p.ticking {
		return
	}
	p.frame = p.frames.RequestFrame(p.Tick)
	p.ticking = true
}

func (p *Player) cancelTick() {
	if p.ticking {
		p.frames.CancelFrame(p.frame)
		p.ticking = false
	}
}

// Sync executes every command due at the current time. Of the cursor moves
// only the latest is executed, and the stroke being drawn is flushed once.
func (p *Player) Sync() {
	if p.video == nil {
		return
	}
	now := p.timer.CurrentTime()
	for {
		c := p.video.CurrentChunk()
		if c == nil {
			break
		}
		cmd, ok := c.CurrentCommand()
		if !ok {
			p.moveToNextChunk()
			continue
		}
		if cmd.Time > now {
			break
		}
		if cmd.Kind == video.CommandMoveCursor {
			p.lastMove, p.hasMove = cmd, true
		} else {
			cmd.Execute(executor{p})
		}
		c.MoveNextCommand()
	}

	if p.hasMove {
		p.lastMove.Execute(executor{p})
		p.hasMove = false
	}
	if p.drawer != nil {
		p.drawer.Flush()
	}
	if p.video.CurrentChunk() == nil && now >= p.video.Metadata().Length {
		p.reachEnd()
	}
}

// moveToNextChunk enters the next chunk. Chunks followed by a chunk that
// already started are rendered at once, until the chunk containing the
// current time is entered.
func (p *Player) moveToNextChunk() {
	now := p.timer.CurrentTime()
	for {
		p.video.MoveNextChunk()
		c := p.video.CurrentChunk()
		if c == nil {
			p.path, p.drawer = nil, nil
			return
		}

		// Init commands run for every chunk entered, including the ones
		// rendered at once, so a seek costs one pass over the chunks since
		// the last erase.
		c.ExecuteInitCommands(executor{p})
		if c.Kind == video.ChunkPath {
			p.path = c.Path
			p.drawer = p.backend.CreatePath(c.Path)
			p.drawnSegment = 0
		} else {
			p.path, p.drawer = nil, nil
		}

		next := p.video.PeekNextChunk()
		if next == nil || next.StartTime > now {
			return
		}
		c.Render(executor{p})
		if p.drawer != nil {
			p.drawer.Flush()
		}
	}
}

// restartFrom replays the video from chunk start. Starting from the first
// chunk begins with a blank canvas.
func (p *Player) restartFrom(start int) {
	if start <= 0 {
		p.backend.ClearCanvas(p.background)
	}
	p.video.SetCurrentChunkNumber(start - 1)
	p.moveToNextChunk()
}

func (p *Player) reachEnd() {
	if p.ended {
		return
	}
	p.ended = true
	p.Pause()
	p.publish(events.ReachEnd{})
	screencast.Logger().Debug("player: reached the end", "time", p.timer.CurrentTime())
}

// JumpTo moves playback to progress in [0, 1] of the video length.
func (p *Player) JumpTo(progress float64) {
	if p.video == nil {
		return
	}
	p.SeekTo(max(0, min(progress, 1)) * p.video.Metadata().Length)
}

// SeekTo moves playback to ms milliseconds, clamped to the video. Playback
// is paused during the jump and resumed afterwards if it was playing. NaN
// is ignored.
func (p *Player) SeekTo(ms float64) {
	if p.video == nil || math.IsNaN(ms) {
		return
	}
	length := p.video.Metadata().Length
	ms = max(0, min(ms, length))

	wasPlaying := p.playing
	videoTime := p.timer.CurrentTime()
	p.Pause()
	p.timer.SetTime(ms)

	progress := 0.0
	if length > 0 {
		progress = ms / length
	}
	p.audio.JumpTo(progress)
	p.publish(events.JumpTo{Progress: progress})
	if ms < length {
		p.ended = false
	}

	// Going back always replays from the erase chunk, even when it is the
	// current one: commands executed after ms cannot be undone.
	if ms >= videoTime {
		if start := p.video.FastforwardErasedChunksUntil(ms); start != p.video.CurrentChunkNumber() {
			p.restartFrom(start)
		}
	} else {
		p.restartFrom(p.video.RewindToLastEraseBefore(ms))
	}
	p.Sync()
	p.publish(events.CurrentTime{Milliseconds: ms})

	if wasPlaying && !p.ended {
		p.Play()
	}
}

// Resize changes the output size and redraws the current moment.
func (p *Player) Resize(width, height int) {
	p.backend.Resize(width, height)
	p.backend.Stretch()
	if p.video == nil {
		return
	}
	m := p.video.Metadata()
	p.scale = p.backend.SetupOutputCorrection(m.Width, m.Height)
	p.publish(events.CanvasScalingFactor{Factor: p.scale})
	p.redrawCurrentScreen()
}

func (p *Player) redrawCurrentScreen() {
	wasPlaying := p.playing
	p.Pause()
	p.restartFrom(p.video.RewindToLastEraseBefore(p.timer.CurrentTime()))
	p.Sync()
	if wasPlaying && !p.ended {
		p.Play()
	}
}

// Busy pauses playback for a long operation, such as loading data.
// Calls nest; playback resumes after the matching number of Ready calls.
func (p *Player) Busy() {
	p.busyLevel++
	p.wasPlayingWhenBusy = p.wasPlayingWhenBusy || p.playing
	p.Pause()
}

// Ready ends one Busy. When the last one ends, playback resumes if it was
// running before.
func (p *Player) Ready() {
	if p.busyLevel == 0 {
		return
	}
	p.busyLevel--
	if p.busyLevel == 0 && p.wasPlayingWhenBusy {
		p.wasPlayingWhenBusy = false
		p.Play()
	}
}

// BusyLevel returns the number of unfinished Busy calls.
func (p *Player) BusyLevel() int {
	return p.busyLevel
}

// State is the brush and cursor state established by the executed commands.
type State struct {
	Cursor   screencast.Point
	Pressure float64
	Color    screencast.Color
	Size     screencast.BrushSize
}

// State returns the current brush and cursor state.
func (p *Player) State() State {
	return State{Cursor: p.cursor, Pressure: p.pressure, Color: p.color, Size: p.size}
}

func (p *Player) publish(e events.Event) {
	if err := p.bus.Trigger(e); err != nil {
		screencast.Logger().Debug("player: event dropped", "event", e.Type(), "err", err)
	}
}

// executor runs commands against the player's backend.
type executor struct {
	p *Player
}

func (e executor) MoveCursor(pos screencast.Point, pressure float64) {
	e.p.cursor, e.p.pressure = pos, pressure
}

func (e executor) DrawNextSegment() {
	p := e.p
	if p.drawer == nil || p.drawnSegment >= p.path.Len() {
		return
	}
	p.drawer.DrawSegment(p.path.Segments[p.drawnSegment])
	p.drawnSegment++
}

func (e executor) ChangeBrushColor(c screencast.Color) {
	e.p.color = c
	e.p.backend.SetCurrentColor(c)
}

func (e executor) ChangeBrushSize(s screencast.BrushSize) {
	e.p.size = s
	e.p.backend.SetBrushSize(s)
}

func (e executor) ClearCanvas(c screencast.Color) {
	e.p.backend.ClearCanvas(c)
}
