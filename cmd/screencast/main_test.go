package main

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/screencast/drawing/drawingtest"
	"github.com/gogpu/screencast/recorder"
	"github.com/gogpu/screencast/timer"
)

// writeSample records a short stroke and saves it as dir/sample.svg.
func writeSample(t *testing.T, dir string) string {
	t.Helper()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }

	rec := recorder.New(drawingtest.New(800, 600), recorder.WithTimer(timer.New(false, timer.WithClock(now))))
	rec.Start()
	for i := 0; i < 20; i++ {
		rec.ProcessCursorState(recorder.CursorState{X: 100 + float64(5*i), Y: 100 + float64(3*i), Pressure: 1})
		clock = clock.Add(60 * time.Millisecond)
	}
	rec.ProcessCursorState(recorder.CursorState{X: 300, Y: 200})
	rec.Pause()

	path := filepath.Join(dir, "sample.svg")
	var buf bytes.Buffer
	if err := rec.Download(&buf); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInfo(t *testing.T) {
	path := writeSample(t, t.TempDir())

	var out bytes.Buffer
	if err := run(context.Background(), []string{"info", path}, &out); err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{
		"file:       sample.svg",
		"format:     svg",
		"duration:   0:01 (1,200 ms)",
		"canvas:     800 x 600",
		"1 strokes",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output lacks %q:\n%s", want, out.String())
		}
	}
}

func TestConvertRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeSample(t, dir)
	packed := filepath.Join(dir, "sample.msgpack")
	back := filepath.Join(dir, "back.svg")

	if err := run(context.Background(), []string{"convert", "-o", packed, path}, nil); err != nil {
		t.Fatalf("convert to msgpack: %v", err)
	}
	if err := run(context.Background(), []string{"convert", "-o", back, packed}, nil); err != nil {
		t.Fatalf("convert back: %v", err)
	}

	orig, err := loadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got, err := loadFile(back)
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != orig.Len() || got.Commands() != orig.Commands() || got.Metadata().Length != orig.Metadata().Length {
		t.Errorf("round trip = %d/%d/%v, want %d/%d/%v",
			got.Len(), got.Commands(), got.Metadata().Length,
			orig.Len(), orig.Commands(), orig.Metadata().Length)
	}
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	path := writeSample(t, dir)

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, data []byte)
	}{
		{
			name: "png",
			args: []string{"render", "-t", "600", "-w", "320", "-h", "240", "-label", "-o", filepath.Join(dir, "frame.png"), path},
			check: func(t *testing.T, data []byte) {
				cfg, err := png.DecodeConfig(bytes.NewReader(data))
				if err != nil {
					t.Fatal(err)
				}
				if cfg.Width != 320 || cfg.Height != 240 {
					t.Errorf("size = %dx%d", cfg.Width, cfg.Height)
				}
			},
		},
		{
			name: "pdf",
			args: []string{"render", "-o", filepath.Join(dir, "frame.pdf"), path},
			check: func(t *testing.T, data []byte) {
				if !bytes.HasPrefix(data, []byte("%PDF")) {
					t.Error("not a PDF")
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(context.Background(), tt.args, nil); err != nil {
				t.Fatalf("render: %v", err)
			}
			data, err := os.ReadFile(tt.args[len(tt.args)-2])
			if err != nil {
				t.Fatal(err)
			}
			tt.check(t, data)
		})
	}
}

func TestUsageErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeSample(t, dir)

	for _, args := range [][]string{
		nil,
		{"play"},
		{"info"},
		{"info", path, path},
		{"render", "-o", filepath.Join(dir, "frame.gif"), path},
		{"convert", "-o", filepath.Join(dir, "out.txt"), path},
		{"serve", "-port", "1"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			err := run(context.Background(), args, nil)
			if !errors.Is(err, errUsage) {
				t.Errorf("err = %v, want a usage error", err)
			}
		})
	}
}

func TestMissingFile(t *testing.T) {
	err := run(context.Background(), []string{"info", filepath.Join(t.TempDir(), "nope.svg")}, nil)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want not exist", err)
	}
}

func TestConvertRemovesOutputOnFailure(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.svg")
	if err := os.WriteFile(bad, []byte("<svg"), 0o600); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.msgpack")
	if err := run(context.Background(), []string{"convert", "-o", out, bad}, nil); err == nil {
		t.Fatal("convert of a corrupted file succeeded")
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output left behind: %v", err)
	}
}
