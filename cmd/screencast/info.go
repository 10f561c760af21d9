package main

import (
	"io"
	"path/filepath"

	"golang.org/x/text/message"

	"github.com/gogpu/screencast"
	"github.com/gogpu/screencast/internal/config"
	"github.com/gogpu/screencast/store"
	"github.com/gogpu/screencast/video"
)

func info(cfg config.Config, args []string, w io.Writer) error {
	path, err := oneFile(args)
	if err != nil {
		return err
	}
	v, err := loadFile(path)
	if err != nil {
		return err
	}

	m := v.Metadata()
	kinds := make(map[video.ChunkKind]int)
	for _, c := range v.Chunks() {
		kinds[c.Kind]++
	}

	p := message.NewPrinter(cfg.Language())
	p.Fprintf(w, "file:       %s\n", filepath.Base(path))
	p.Fprintf(w, "format:     %s\n", store.CleanExtension(filepath.Ext(path)))
	p.Fprintf(w, "duration:   %s (%d ms)\n", screencast.FormatMilliseconds(m.Length), int64(m.Length))
	p.Fprintf(w, "canvas:     %d x %d\n", int(m.Width), int(m.Height))
	p.Fprintf(w, "chunks:     %d (%d strokes, %d erases, %d pauses)\n",
		v.Len(), kinds[video.ChunkPath], kinds[video.ChunkErase], kinds[video.ChunkVoid])
	p.Fprintf(w, "commands:   %d\n", v.Commands())
	for i, t := range m.AudioTracks {
		p.Fprintf(w, "audio %d:    %s (%s)\n", i+1, t.URL, t.Type)
	}
	return nil
}
