package recorder

import (
	"context"

	"github.com/gogpu/screencast/video"
)

// AudioRecorder captures the voice track of a recording.
type AudioRecorder interface {
	Start()
	Pause()
	// Active reports whether a track was started and not stopped yet.
	Active() bool
	// Stop finishes the recording and returns the uploaded tracks.
	Stop(ctx context.Context) ([]video.AudioSource, error)
}
