package video

// RewindToLastEraseBefore walks the erase chain backwards from the current
// chunk and returns the index of the latest erase chunk starting at or
// before t. An erase chunk under the cursor is a candidate itself. It
// returns 0 when no such chunk exists, i.e. playback restarts from the
// beginning on a blank canvas.
//
// When the cursor is past the end, the walk starts at the last chunk.
func (v *Video) RewindToLastEraseBefore(t float64) int {
	if len(v.chunks) == 0 {
		return 0
	}
	i := min(max(v.current, 0), len(v.chunks)-1)
	if v.chunks[i].Kind != ChunkErase {
		i = v.chunks[i].LastErase
	}
	for i != NoErase {
		if v.chunks[i].StartTime <= t {
			return i
		}
		i = v.chunks[i].LastErase
	}
	return 0
}

// FastforwardErasedChunksUntil scans forward from the current chunk over
// the chunks starting at or before t and returns the index of the last
// erase chunk among them. Everything drawn before that chunk is invisible at
// time t. Without such a chunk the current chunk number is returned, i.e.
// playback simply continues from where it is.
func (v *Video) FastforwardErasedChunksUntil(t float64) int {
	found := v.current
	for i := max(v.current, 0); i < len(v.chunks) && v.chunks[i].StartTime <= t; i++ {
		if v.chunks[i].Kind == ChunkErase {
			found = i
		}
	}
	return found
}
