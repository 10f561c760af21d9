package player

import (
	"github.com/gogpu/screencast"
	"github.com/gogpu/screencast/events"
	"github.com/gogpu/screencast/timer"
	"github.com/gogpu/screencast/video"
)

// Option configures a Player during creation.
type Option func(*options)

type options struct {
	frames     Frames
	bus        *events.Bus
	timer      *timer.Timer
	newAudio   func([]video.AudioSource) Audio
	autoplay   bool
	background screencast.Color
}

func defaultOptions() options {
	return options{
		newAudio:   func([]video.AudioSource) Audio { return nopAudio{} },
		background: screencast.DefaultBackground,
	}
}

// WithFrames sets the animation clock that schedules ticks. By default the
// player creates its own Loop, available through Player.Frames.
func WithFrames(f Frames) Option {
	return func(o *options) {
		o.frames = f
	}
}

// WithEvents connects the player to a bus. The player publishes its state
// changes there and follows Busy and Ready events.
func WithEvents(bus *events.Bus) Option {
	return func(o *options) {
		o.bus = bus
	}
}

// WithTimer replaces the playback clock.
func WithTimer(t *timer.Timer) Option {
	return func(o *options) {
		o.timer = t
	}
}

// WithAudio sets the factory of the audio collaborator. It is called with
// the audio tracks of every loaded video.
func WithAudio(newAudio func(tracks []video.AudioSource) Audio) Option {
	return func(o *options) {
		o.newAudio = newAudio
	}
}

// WithAutoplay starts playback as soon as a video is loaded.
func WithAutoplay(autoplay bool) Option {
	return func(o *options) {
		o.autoplay = autoplay
	}
}

// WithBackground sets the color of a blank canvas.
func WithBackground(c screencast.Color) Option {
	return func(o *options) {
		o.background = c
	}
}
