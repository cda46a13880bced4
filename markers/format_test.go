package markers

import (
	"testing"

	"studyvault/media-hub/models"
)

func TestFormatTime(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name    string
		seconds *float64
		want    string
	}{
		{"nil renders as dashes", nil, "--:--"},
		{"zero", f(0), "00:00"},
		{"sub-minute", f(59.9), "00:59"},
		{"minute rollover", f(65), "01:05"},
		{"minutes past two digits", f(6000), "100:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTime(tt.seconds); got != tt.want {
				t.Errorf("FormatTime() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatClipWithOpenSegment(t *testing.T) {
	in := 12.0
	m := models.Marker{InTime: &in, Text: "pending"}
	if got := FormatClip(m); got != "[00:12 - --:--] pending" {
		t.Errorf("FormatClip() = %q", got)
	}
}
