package main

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"github.com/gogpu/screencast/server"
	"github.com/gogpu/screencast/store"
)

var backendByExtension = map[string]string{
	"png": "raster",
	"pdf": "pdf",
}

func render(args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	at := fs.Float64("t", -1, "time in milliseconds, the end of the video when negative")
	width := fs.Int("w", 0, "output width, the recorded width when 0")
	height := fs.Int("h", 0, "output height, the recorded height when 0")
	label := fs.Bool("label", false, "print the time onto PNG frames")
	out := fs.String("o", "", "output file, .png or .pdf")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	path, err := oneFile(fs.Args())
	if err != nil {
		return err
	}
	backend, ok := backendByExtension[store.CleanExtension(filepath.Ext(*out))]
	if !ok {
		return fmt.Errorf("%w: -o must name a .png or .pdf file", errUsage)
	}

	v, err := loadFile(path)
	if err != nil {
		return err
	}
	m := v.Metadata()
	if *at < 0 {
		*at = m.Length
	}
	w, h := server.FrameSize(m)
	if *width > 0 {
		w = *width
	}
	if *height > 0 {
		h = *height
	}
	return createFile(*out, func(dst io.Writer) error {
		return server.RenderFrame(dst, backend, v, *at, w, h, *label)
	})
}
