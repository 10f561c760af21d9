package video

import "errors"

var (
	// ErrNoChunk is returned when a command is pushed before any chunk.
	ErrNoChunk = errors.New("video: no current chunk")

	// ErrInvalid is wrapped by the errors returned from Validate.
	ErrInvalid = errors.New("video: invalid command log")
)
