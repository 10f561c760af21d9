package screencast

import (
	"fmt"
	"math"
)

// FormatMilliseconds renders a video time as "m:ss".
// Negative times are treated as zero.
func FormatMilliseconds(ms float64) string {
	s := int(math.Floor(math.Max(ms, 0) / 1000))
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
