package player

import (
	"github.com/gogpu/screencast/drawing"
	"github.com/gogpu/screencast/video"
)

// RenderAt draws the moment ms of v on b, as a paused player would show
// it. The video's chunk cursor is moved.
func RenderAt(b drawing.Backend, v *video.Video, ms float64) {
	p := New(b)
	p.SetVideo(v)
	p.SeekTo(ms)
	p.Close()
}
