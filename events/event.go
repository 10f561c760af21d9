// Package events provides a small publish/subscribe bus for notifications
// that genuinely have many producers and many consumers (busy/ready state,
// end of video, metadata announcements).
//
// Handlers never run inside Trigger. Every handler invocation becomes a task
// in a bounded queue that the host drains between animation frames, so a
// trigger never blocks and never re-enters the caller.
package events

import "fmt"

// Type identifies the kind of an event.
type Type uint8

const (
	TypeStart               Type = iota // playback or recording started
	TypePause                           // playback or recording paused
	TypeReachEnd                        // playback reached the end of the video
	TypeJumpTo                          // user requested a jump
	TypeBusy                            // a long operation started
	TypeReady                           // a long operation finished
	TypeVideoInfoLoaded                 // metadata of a loaded video is known
	TypeCanvasScalingFactor             // output correction was computed
	TypeCurrentTime                     // playback position changed
	TypeDataCorrupted                   // recorded data could not be parsed
	TypeRecordingFinished               // upload of a recording finished
	TypeChangeColor                     // brush color changed
	TypeChangeBrushSize                 // brush size changed

	typeCount
)

var typeNames = [...]string{
	TypeStart:               "Start",
	TypePause:               "Pause",
	TypeReachEnd:            "ReachEnd",
	TypeJumpTo:              "JumpTo",
	TypeBusy:                "Busy",
	TypeReady:               "Ready",
	TypeVideoInfoLoaded:     "VideoInfoLoaded",
	TypeCanvasScalingFactor: "CanvasScalingFactor",
	TypeCurrentTime:         "CurrentTime",
	TypeDataCorrupted:       "DataCorrupted",
	TypeRecordingFinished:   "RecordingFinished",
	TypeChangeColor:         "ChangeColor",
	TypeChangeBrushSize:     "ChangeBrushSize",
}

// String returns the name of the event type.
func (t Type) String() string {
	if t < typeCount {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Types returns every event type in declaration order.
func Types() []Type {
	types := make([]Type, typeCount)
	for i := range types {
		types[i] = Type(i)
	}
	return types
}

// Event is implemented by every event payload in this package.
// The set is closed; switch on the concrete type to read the payload.
type Event interface {
	Type() Type
	isEvent()
}

// Start is published when playback or recording starts.
type Start struct{}

// Pause is published when playback or recording pauses.
type Pause struct{}

// ReachEnd is published once when playback arrives at the end of the video.
type ReachEnd struct{}

// JumpTo reports a jump to a relative position in [0, 1].
type JumpTo struct {
	Progress float64
}

// Busy announces the start of a long operation.
type Busy struct{}

// Ready announces the end of a long operation.
type Ready struct{}

// VideoInfoLoaded carries the metadata of a freshly loaded video.
type VideoInfoLoaded struct {
	Length        float64 // milliseconds
	Width, Height float64
	AudioTracks   int
}

// CanvasScalingFactor carries the factor between recorded and output pixels.
type CanvasScalingFactor struct {
	Factor float64
}

// CurrentTime reports the playback position in milliseconds.
type CurrentTime struct {
	Milliseconds float64
}

// DataCorrupted reports that a recording could not be loaded.
type DataCorrupted struct {
	Err error
}

// RecordingFinished reports the outcome of an upload.
type RecordingFinished struct {
	Success  bool
	Redirect string
}

// ChangeColor reports a new brush color in "#rrggbb" form.
type ChangeColor struct {
	Color string
}

// ChangeBrushSize reports a new brush size in pixels.
type ChangeBrushSize struct {
	Size float64
}

func (Start) Type() Type               { return TypeStart }
func (Pause) Type() Type               { return TypePause }
func (ReachEnd) Type() Type            { return TypeReachEnd }
func (JumpTo) Type() Type              { return TypeJumpTo }
func (Busy) Type() Type                { return TypeBusy }
func (Ready) Type() Type               { return TypeReady }
func (VideoInfoLoaded) Type() Type     { return TypeVideoInfoLoaded }
func (CanvasScalingFactor) Type() Type { return TypeCanvasScalingFactor }
func (CurrentTime) Type() Type         { return TypeCurrentTime }
func (DataCorrupted) Type() Type       { return TypeDataCorrupted }
func (RecordingFinished) Type() Type   { return TypeRecordingFinished }
func (ChangeColor) Type() Type         { return TypeChangeColor }
func (ChangeBrushSize) Type() Type     { return TypeChangeBrushSize }

func (Start) isEvent()               {}
func (Pause) isEvent()               {}
func (ReachEnd) isEvent()            {}
func (JumpTo) isEvent()              {}
func (Busy) isEvent()                {}
func (Ready) isEvent()               {}
func (VideoInfoLoaded) isEvent()     {}
func (CanvasScalingFactor) isEvent() {}
func (CurrentTime) isEvent()         {}
func (DataCorrupted) isEvent()       {}
func (RecordingFinished) isEvent()   {}
func (ChangeColor) isEvent()         {}
func (ChangeBrushSize) isEvent()     {}
