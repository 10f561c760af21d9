package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/screencast"
	"github.com/gogpu/screencast/drawing/backends/raster"
	"github.com/gogpu/screencast/events"
	"github.com/gogpu/screencast/player"
	"github.com/gogpu/screencast/video"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
	sendQueueSize  = 256
)

// Op is a client request of a playback session.
//
//	{"op": "play"}
//	{"op": "pause"}
//	{"op": "seek", "progress": 0.5}
//	{"op": "resize", "width": 640, "height": 480}
//	{"op": "frame"}
//
// "frame" is answered with a binary message holding the current picture
// as PNG. Everything else is answered by the events the player publishes,
// as text messages of the form {"type": "JumpTo", "progress": 0.5}.
type Op struct {
	Op       string  `json:"op"`
	Progress float64 `json:"progress,omitempty"`
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
}

type message struct {
	json any
	png  []byte
}

// session plays one video for one websocket client. The player and its
// backend belong to the loop goroutine; the reader hands ops over with
// RequestFrame and only the writer touches the connection's write side.
type session struct {
	conn     *websocket.Conn
	video    *video.Video
	interval time.Duration

	bus     *events.Bus
	loop    *player.Loop
	backend *raster.Backend
	player  *player.Player
	send    chan message
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	rec, v, ok := s.loadVideo(w, r)
	if !ok {
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		screencast.Logger().Warn("server: websocket upgrade failed", "id", rec.ID, "err", err)
		return
	}
	defer conn.Close()

	screencast.Logger().Info("server: session started", "id", rec.ID, "remote", r.RemoteAddr)
	err = newSession(conn, v, s.interval).run(r.Context())
	screencast.Logger().Info("server: session ended", "id", rec.ID, "err", err)
}

func newSession(conn *websocket.Conn, v *video.Video, interval time.Duration) *session {
	width, height := FrameSize(v.Metadata())
	bus := events.New(0)
	loop := player.NewLoop(bus)
	backend := raster.New(width, height)
	return &session{
		conn:     conn,
		video:    v,
		interval: interval,
		bus:      bus,
		loop:     loop,
		backend:  backend,
		player:   player.New(backend, player.WithFrames(loop), player.WithEvents(bus)),
		send:     make(chan message, sendQueueSize),
	}
}

// run serves the client until the connection closes. It returns nil after
// a regular close.
func (ss *session) run(ctx context.Context) error {
	for _, typ := range events.Types() {
		ss.bus.On(typ, ss.forward)
	}
	ss.loop.RequestFrame(func() { ss.player.SetVideo(ss.video) })

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ss.loop.Run(ctx, ss.interval) })
	g.Go(func() error { return ss.writePump(ctx) })
	g.Go(ss.readPump)
	g.Go(func() error {
		<-ctx.Done()
		return ss.conn.Close()
	})
	err := g.Wait()
	ss.player.Close()

	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return nil
	}
	return err
}

func (ss *session) readPump() error {
	ss.conn.SetReadLimit(maxMessageSize)
	_ = ss.conn.SetReadDeadline(time.Now().Add(pongWait))
	ss.conn.SetPongHandler(func(string) error {
		return ss.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var op Op
		err := ss.conn.ReadJSON(&op)
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
			ss.enqueue(message{json: errorMessage(err)})
			continue
		case err != nil:
			return err
		}
		ss.loop.RequestFrame(func() { ss.apply(op) })
	}
}

func (ss *session) writePump(ctx context.Context) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = ss.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return ctx.Err()
		case m := <-ss.send:
			_ = ss.conn.SetWriteDeadline(time.Now().Add(writeWait))
			var err error
			if m.png != nil {
				err = ss.conn.WriteMessage(websocket.BinaryMessage, m.png)
			} else {
				err = ss.conn.WriteJSON(m.json)
			}
			if err != nil {
				return err
			}
		case <-ticker.C:
			if err := ss.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

// apply runs on the loop goroutine.
func (ss *session) apply(op Op) {
	switch op.Op {
	case "play":
		ss.player.Play()
	case "pause":
		ss.player.Pause()
	case "seek":
		ss.player.JumpTo(op.Progress)
	case "resize":
		if op.Width < 1 || op.Height < 1 || op.Width > maxFrameSize || op.Height > maxFrameSize {
			ss.enqueue(message{json: errorMessage(fmt.Errorf("invalid size %dx%d", op.Width, op.Height))})
			return
		}
		ss.player.Resize(op.Width, op.Height)
	case "frame":
		var buf bytes.Buffer
		if _, err := ss.backend.WriteTo(&buf); err != nil {
			ss.enqueue(message{json: errorMessage(err)})
			return
		}
		ss.enqueue(message{png: buf.Bytes()})
	default:
		ss.enqueue(message{json: errorMessage(fmt.Errorf("unknown op %q", op.Op))})
	}
}

func (ss *session) forward(e events.Event) {
	ss.enqueue(message{json: eventMessage(e)})
}

func (ss *session) enqueue(m message) {
	select {
	case ss.send <- m:
	default:
		screencast.Logger().Warn("server: session queue full, message dropped")
	}
}

func eventMessage(e events.Event) map[string]any {
	m := map[string]any{"type": e.Type().String()}
	switch e := e.(type) {
	case events.JumpTo:
		m["progress"] = e.Progress
	case events.VideoInfoLoaded:
		m["length"] = e.Length
		m["width"] = e.Width
		m["height"] = e.Height
		m["audioTracks"] = e.AudioTracks
	case events.CanvasScalingFactor:
		m["factor"] = e.Factor
	case events.CurrentTime:
		m["milliseconds"] = e.Milliseconds
	case events.DataCorrupted:
		if e.Err != nil {
			m["error"] = e.Err.Error()
		}
	case events.RecordingFinished:
		m["success"] = e.Success
		m["redirect"] = e.Redirect
	case events.ChangeColor:
		m["color"] = e.Color
	case events.ChangeBrushSize:
		m["size"] = e.Size
	}
	return m
}

func errorMessage(err error) map[string]any {
	return map[string]any{"type": "Error", "error": err.Error()}
}
