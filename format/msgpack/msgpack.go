// Package msgpack stores videos as MessagePack encoded format.Document
// values. It is the compact format used for uploads.
package msgpack

import (
	"fmt"
	"io"

	vmsgpack "github.com/vmihailenco/msgpack/v5"

	"github.com/gogpu/screencast/format"
	"github.com/gogpu/screencast/video"
)

// Name is the registry name of the format.
const Name = "msgpack"

func init() {
	format.Register(Name, Format{})
}

// Format implements format.Format.
type Format struct{}

var _ format.Format = Format{}

// Extension returns "msgpack".
func (Format) Extension() string {
	return "msgpack"
}

// SaveVideo writes v to w.
func (Format) SaveVideo(w io.Writer, v *video.Video) error {
	doc := format.Encode(v)
	if err := vmsgpack.NewEncoder(w).Encode(&doc); err != nil {
		return fmt.Errorf("msgpack: encode video: %w", err)
	}
	return nil
}

// LoadVideo reads a video from r.
func (Format) LoadVideo(r io.Reader) (*video.Video, error) {
	var doc format.Document
	if err := vmsgpack.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: msgpack: %w", format.ErrCorrupted, err)
	}
	return doc.Decode()
}
