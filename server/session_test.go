package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gogpu/screencast/drawing/backends/raster"
	"github.com/gogpu/screencast/events"
	"github.com/gogpu/screencast/player"
)

func dialSession(t *testing.T, ts *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/videos/" + id + "/session"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

// next returns the next message of the given event type, skipping others.
// An empty type matches binary messages.
func next(t *testing.T, conn *websocket.Conn, typ string) (map[string]any, []byte) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %q: %v", typ, err)
		}
		if kind == websocket.BinaryMessage {
			if typ == "" {
				return nil, data
			}
			continue
		}
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("bad message %s: %v", data, err)
		}
		if m["type"] == typ {
			return m, nil
		}
	}
}

// ready waits for the announcement of the loaded video.
func ready(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	next(t, conn, "VideoInfoLoaded")
	next(t, conn, "CanvasScalingFactor")
}

func send(t *testing.T, conn *websocket.Conn, op Op) {
	t.Helper()
	if err := conn.WriteJSON(op); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
}

func TestSessionAnnouncesVideo(t *testing.T) {
	ts, st := newTestServer(t, WithSessionInterval(time.Millisecond))
	rec, v := createSample(t, st)
	conn := dialSession(t, ts, rec.ID)

	m, _ := next(t, conn, "VideoInfoLoaded")
	if m["length"] != v.Metadata().Length || m["width"] != 800.0 || m["height"] != 600.0 {
		t.Errorf("VideoInfoLoaded = %v", m)
	}
	if m, _ = next(t, conn, "CanvasScalingFactor"); m["factor"] != 1.0 {
		t.Errorf("CanvasScalingFactor = %v", m)
	}
}

func TestSessionSeekAndFrame(t *testing.T) {
	ts, st := newTestServer(t, WithSessionInterval(time.Millisecond))
	rec, v := createSample(t, st)
	conn := dialSession(t, ts, rec.ID)
	ready(t, conn)

	send(t, conn, Op{Op: "seek", Progress: 1})
	if m, _ := next(t, conn, "JumpTo"); m["progress"] != 1.0 {
		t.Errorf("JumpTo = %v", m)
	}
	next(t, conn, "ReachEnd")

	send(t, conn, Op{Op: "frame"})
	_, got := next(t, conn, "")

	b := raster.New(800, 600)
	player.RenderAt(b, v, v.Metadata().Length)
	var want bytes.Buffer
	if _, err := b.WriteTo(&want); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want.Bytes()) {
		t.Error("session frame differs from a local rendering of the end")
	}
}

func TestSessionPlaysToEnd(t *testing.T) {
	ts, st := newTestServer(t, WithSessionInterval(time.Millisecond))
	rec, _ := createSample(t, st)
	conn := dialSession(t, ts, rec.ID)
	ready(t, conn)

	send(t, conn, Op{Op: "play"})
	next(t, conn, "Start")
	next(t, conn, "Pause")
	next(t, conn, "ReachEnd")
}

func TestSessionResize(t *testing.T) {
	ts, st := newTestServer(t, WithSessionInterval(time.Millisecond))
	rec, _ := createSample(t, st)
	conn := dialSession(t, ts, rec.ID)
	ready(t, conn)

	send(t, conn, Op{Op: "resize", Width: 400, Height: 300})
	if m, _ := next(t, conn, "CanvasScalingFactor"); m["factor"] != 0.5 {
		t.Errorf("CanvasScalingFactor = %v", m)
	}
	send(t, conn, Op{Op: "resize"})
	next(t, conn, "Error")
}

func TestSessionErrors(t *testing.T) {
	ts, st := newTestServer(t, WithSessionInterval(time.Millisecond))
	rec, _ := createSample(t, st)
	conn := dialSession(t, ts, rec.ID)
	ready(t, conn)

	send(t, conn, Op{Op: "rewind"})
	if m, _ := next(t, conn, "Error"); !strings.Contains(m["error"].(string), "rewind") {
		t.Errorf("Error = %v", m)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	next(t, conn, "Error")

	send(t, conn, Op{Op: "pause"})
	send(t, conn, Op{Op: "seek", Progress: 0})
	next(t, conn, "JumpTo")
}

func TestSessionRejectsForeignOrigin(t *testing.T) {
	ts, st := newTestServer(t)
	rec, _ := createSample(t, st)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/videos/" + rec.ID + "/session"
	header := http.Header{"Origin": {"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		t.Fatal("Dial succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %v, want 403", resp)
	}
}

func TestEventMessage(t *testing.T) {
	tests := []struct {
		e    events.Event
		want map[string]any
	}{
		{events.Start{}, map[string]any{"type": "Start"}},
		{events.JumpTo{Progress: 0.25}, map[string]any{"type": "JumpTo", "progress": 0.25}},
		{events.CurrentTime{Milliseconds: 1500}, map[string]any{"type": "CurrentTime", "milliseconds": 1500.0}},
		{events.ChangeColor{Color: "#fa5959"}, map[string]any{"type": "ChangeColor", "color": "#fa5959"}},
		{events.DataCorrupted{Err: errBoom}, map[string]any{"type": "DataCorrupted", "error": "boom"}},
		{events.RecordingFinished{Success: true, Redirect: "/x"}, map[string]any{"type": "RecordingFinished", "success": true, "redirect": "/x"}},
	}
	for _, tt := range tests {
		t.Run(tt.e.Type().String(), func(t *testing.T) {
			got := eventMessage(tt.e)
			if len(got) != len(tt.want) {
				t.Fatalf("eventMessage = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

type testError string

func (e testError) Error() string { return string(e) }

const errBoom = testError("boom")
