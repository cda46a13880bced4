package transcript

import (
	"errors"
	"strings"
)

// ErrInvalidRange is returned when an extraction range is inverted. The
// mark-out rewind swap happens in the marker state machine; by the time a
// range reaches this package it must already be normalized.
var ErrInvalidRange = errors.New("transcript: range start after range end")

// ExtractRange returns the text of every unit whose span has positive overlap
// with [start, end), in original order, joined with single spaces.
// Widening the range only ever adds units. No overlap yields "".
func ExtractRange(units []Unit, start, end float64) (string, error) {
	if start > end {
		return "", ErrInvalidRange
	}
	var parts []string
	for _, u := range units {
		lo := u.Start
		if start > lo {
			lo = start
		}
		hi := u.End
		if end < hi {
			hi = end
		}
		if hi-lo > 0 {
			parts = append(parts, u.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " ")), nil
}

// DurationPolicy selects which duration an Extractor segments against.
type DurationPolicy int

const (
	// DurationCanonical segments against the item's own known duration (or
	// its transcript-length estimate). Marker text derived under this policy
	// is stable across sessions regardless of what the player has loaded.
	DurationCanonical DurationPolicy = iota

	// DurationLiveFirst prefers the live playback duration when one is
	// available, falling back to the item's known duration. This matches
	// what the transcript view highlights during playback, but can shift if
	// text is extracted before the real duration is known.
	DurationLiveFirst
)

// Extractor derives marker text for a time range by re-segmenting the item's
// transcript. It deliberately does not reuse any cached unit sequence: the
// duration it segments against is chosen by Policy, which may differ from
// whatever a display layer is currently showing.
type Extractor struct {
	Policy DurationPolicy

	// Live is the player-reported duration in seconds, 0 when not yet known.
	// Only consulted under DurationLiveFirst.
	Live float64
}

// Extract segments text against the policy-selected duration and returns the
// text covered by [start, end). Text without a usable duration falls back to
// the reading-rate estimate; empty text yields "".
func (e Extractor) Extract(text string, knownDuration, start, end float64) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	chosen := knownDuration
	if e.Policy == DurationLiveFirst && e.Live >= 1 {
		chosen = e.Live
	}
	duration := EstimateDuration(chosen, len(text))
	if duration <= 0 {
		return "", nil
	}
	units, err := Segment(text, duration)
	if err != nil {
		return "", err
	}
	return ExtractRange(units, start, end)
}
