package pdf

import (
	"bytes"
	"testing"

	"github.com/gogpu/screencast"
	"github.com/gogpu/screencast/drawing"
)

func TestBackendRegistration(t *testing.T) {
	if !drawing.IsRegistered("pdf") {
		t.Fatal("pdf backend not registered")
	}
	b, err := drawing.NewBackend("pdf", 400, 300)
	if err != nil {
		t.Fatalf("NewBackend failed: %v", err)
	}
	if _, ok := b.(*Backend); !ok {
		t.Fatal("backend is not *pdf.Backend")
	}
}

func TestBackendWriteTo(t *testing.T) {
	b := New(400, 300)
	if s := b.SetupOutputCorrection(800, 600); s != 0.5 {
		t.Errorf("scale = %v, want 0.5", s)
	}
	b.ClearCanvas(screencast.Black)

	d := b.CreatePath(drawing.NewPath(screencast.White))
	d.DrawSegment(drawing.StartSegment(screencast.Pt(100, 100), 4))
	d.DrawSegment(drawing.QuadSegment(screencast.Pt(140, 100), screencast.Pt(140, 96), screencast.Pt(140, 104)))
	d.Flush()

	var buf bytes.Buffer
	n, err := b.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo reported %d bytes, buffer has %d", n, buf.Len())
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", buf.Bytes()[:min(8, buf.Len())])
	}
}

func TestBackendClearStartsNewDocument(t *testing.T) {
	b := New(100, 100)
	d := b.CreatePath(drawing.NewPath(screencast.White))
	for i := 0; i < 200; i++ {
		d.DrawSegment(drawing.StartSegment(screencast.Pt(float64(i%100), 50), 3))
	}
	var full bytes.Buffer
	if _, err := b.WriteTo(&full); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}

	b.ClearCanvas(screencast.Black)
	var cleared bytes.Buffer
	if _, err := b.WriteTo(&cleared); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if cleared.Len() >= full.Len() {
		t.Errorf("cleared document (%d bytes) not smaller than drawn one (%d bytes)", cleared.Len(), full.Len())
	}
}
