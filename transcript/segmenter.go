package transcript

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidDuration is returned when Segment is asked to spread text over a
// non-positive duration. Callers must substitute an estimate first, see
// EstimateDuration.
var ErrInvalidDuration = errors.New("transcript: duration must be positive")

// sentencePattern splits transcript text into sentence-like runs, keeping the
// terminal punctuation with the sentence it closes. A trailing run without
// terminal punctuation still matches.
var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]*`)

// Unit is one sentence-like span of transcript text together with its
// estimated position on the playback timeline.
type Unit struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Segment splits text into ordered units and assigns each a time span by
// mapping character offsets proportionally onto duration. Offsets count raw
// characters, whitespace and punctuation included, so the spans tile
// [0, duration) exactly. Empty or whitespace-only text yields no units.
//
// The result is rebuilt from scratch on every call; callers replace their
// previous sequence wholesale whenever text or duration changes.
func Segment(text string, duration float64) ([]Unit, error) {
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	raw := sentencePattern.FindAllString(text, -1)
	if len(raw) == 0 {
		// Text made only of terminal punctuation. Treat it as a single unit.
		raw = []string{text}
	}

	totalChars := 0
	for _, seg := range raw {
		totalChars += len(seg)
	}

	units := make([]Unit, 0, len(raw))
	consumed := 0
	for _, seg := range raw {
		start := float64(consumed) / float64(totalChars) * duration
		consumed += len(seg)
		end := float64(consumed) / float64(totalChars) * duration

		trimmed := strings.TrimSpace(seg)
		if trimmed == "" {
			// A whitespace-only run carries no text of its own; fold its
			// span into the previous unit so the timeline stays gapless.
			if n := len(units); n > 0 {
				units[n-1].End = end
			}
			continue
		}
		units = append(units, Unit{Text: trimmed, Start: start, End: end})
	}
	return units, nil
}

// ActiveIndex returns the index of the unit playing at time t, defined as the
// first unit whose [Start, End) interval contains t, or -1 when no unit does.
func ActiveIndex(units []Unit, t float64) int {
	for i, u := range units {
		if t >= u.Start && t < u.End {
			return i
		}
	}
	return -1
}
