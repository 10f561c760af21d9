// Package format defines how recordings are stored and exchanged.
//
// A Format reads and writes a video.Video. Formats register themselves
// under a name, like drawing backends do:
//
//	import _ "github.com/gogpu/screencast/format/svganim"
//
//	f, err := format.Lookup("svganim")
//	v, err := f.LoadVideo(r)
//
// Every format only has to preserve what Document holds: chunk order,
// command order and the exact time stamps. Erase links and init commands
// are derived again when a document is decoded.
package format

import (
	"errors"
	"io"

	"github.com/gogpu/screencast/video"
)

// DefaultFormat is used when nothing else is configured.
const DefaultFormat = "svganim"

var (
	// ErrCorrupted is wrapped by every error caused by malformed input.
	ErrCorrupted = errors.New("format: data is corrupted")

	// ErrUnknownFormat is returned by lookups of unregistered formats.
	ErrUnknownFormat = errors.New("format: unknown format")
)

// Reader parses a serialized video.
type Reader interface {
	LoadVideo(r io.Reader) (*video.Video, error)
}

// Writer serializes a video.
type Writer interface {
	SaveVideo(w io.Writer, v *video.Video) error

	// Extension returns the file extension without the leading dot.
	Extension() string
}

// Format is both a Reader and a Writer.
type Format interface {
	Reader
	Writer
}
