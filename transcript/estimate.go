package transcript

import "math"

// CharsPerSecond is the assumed speaking rate used to estimate a duration
// from transcript length when the real media duration is unknown.
const CharsPerSecond = 15.0

// EstimateDuration returns known when it is a usable duration (finite and at
// least one second), otherwise a fallback derived from transcript length at
// CharsPerSecond. A zero transcript length gives 0: segmentation must be
// skipped entirely in that case.
func EstimateDuration(known float64, transcriptLen int) float64 {
	if known >= 1 && !math.IsInf(known, 1) && !math.IsNaN(known) {
		return known
	}
	return float64(transcriptLen) / CharsPerSecond
}
