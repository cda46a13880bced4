package models

import "time"

// MediaItem represents one imported audio/video file paired with its
// transcript. Items are keyed by the normalized pairing key derived from the
// file name, not by a surrogate id, so re-importing the same pair overwrites
// in place.
type MediaItem struct {
	Key        string  `json:"key"`
	Name       string  `json:"name"`
	MediaPath  string  `json:"media_path"`
	Size       int64   `json:"size"`
	Date       int64   `json:"date"` // source file mtime, unix millis
	Transcript string  `json:"transcript,omitempty"`
	Duration   float64 `json:"duration,omitempty"`    // seconds; 0 = unknown
	ResumeTime float64 `json:"resume_time,omitempty"` // seconds
	LastPlayed int64   `json:"last_played,omitempty"` // unix millis
}

// HasTranscript reports whether the item carries transcript text.
func (m *MediaItem) HasTranscript() bool {
	return m.Transcript != ""
}

// Touch records a playback interaction at the given wall-clock time.
func (m *MediaItem) Touch(at time.Time) {
	m.LastPlayed = at.UnixMilli()
}
