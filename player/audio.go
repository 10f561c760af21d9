package player

// Audio is the audio collaborator. The player's clock is authoritative;
// audio is told to follow it.
type Audio interface {
	Play()
	Pause()
	JumpTo(progress float64)
}

type nopAudio struct{}

func (nopAudio) Play()            {}
func (nopAudio) Pause()           {}
func (nopAudio) JumpTo(_ float64) {}
