package main

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"github.com/gogpu/screencast/format"
)

func convert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	out := fs.String("o", "", "output file; its extension selects the format")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	path, err := oneFile(fs.Args())
	if err != nil {
		return err
	}
	f, err := format.ForExtension(filepath.Ext(*out))
	if err != nil {
		return fmt.Errorf("%w: -o: %w", errUsage, err)
	}
	v, err := loadFile(path)
	if err != nil {
		return err
	}
	return createFile(*out, func(w io.Writer) error {
		return f.SaveVideo(w, v)
	})
}
