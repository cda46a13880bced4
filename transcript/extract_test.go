package transcript

import (
	"strings"
	"testing"
)

func TestExtractRange(t *testing.T) {
	// "One." [0,7.5) " Two." [7.5,16.875) " Three." [16.875,30)
	units, err := Segment("One. Two. Three.", 30)
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}

	tests := []struct {
		name       string
		start, end float64
		want       string
	}{
		{"covers everything", 0, 30, "One. Two. Three."},
		{"single unit", 1, 2, "One."},
		{"straddles a boundary", 7, 8, "One. Two."},
		{"middle unit only", 8, 16, "Two."},
		{"empty range", 5, 5, ""},
		{"touching boundary only", 0, 0, ""},
		{"outside all units", 40, 50, ""},
		{"range clipped at both ends", 16.9, 999, "Three."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractRange(units, tt.start, tt.end)
			if err != nil {
				t.Fatalf("ExtractRange() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractRange(%v, %v) = %q, want %q", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestExtractRangeInverted(t *testing.T) {
	units, _ := Segment("One. Two.", 10)
	if _, err := ExtractRange(units, 8, 2); err != ErrInvalidRange {
		t.Errorf("ExtractRange() error = %v, want ErrInvalidRange", err)
	}
}

// Widening a range can only add units, never remove them.
func TestExtractRangeMonotonic(t *testing.T) {
	units, err := Segment("Alpha. Beta. Gamma. Delta. Epsilon.", 50)
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}

	prev := ""
	for width := 1.0; width <= 50; width += 1.0 {
		got, err := ExtractRange(units, 10, 10+width)
		if err != nil {
			t.Fatalf("ExtractRange() error = %v", err)
		}
		if !strings.HasPrefix(got, prev) {
			t.Fatalf("widening lost text: %q -> %q", prev, got)
		}
		prev = got
	}
}

func TestEstimateDuration(t *testing.T) {
	tests := []struct {
		name          string
		known         float64
		transcriptLen int
		want          float64
	}{
		{"known duration passes through", 42, 12345, 42},
		{"zero falls back to reading rate", 0, 1500, 100},
		{"sub-second falls back", 0.5, 150, 10},
		{"negative falls back", -3, 150, 10},
		{"no transcript either", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateDuration(tt.known, tt.transcriptLen); got != tt.want {
				t.Errorf("EstimateDuration(%v, %d) = %v, want %v",
					tt.known, tt.transcriptLen, got, tt.want)
			}
		})
	}
}

func TestExtractorPolicies(t *testing.T) {
	// 38 chars of text: the reading-rate estimate without a known duration
	// would be 38/15 ≈ 2.5s, known duration is 100s, live duration is 10s.
	text := "First sentence here. Second one after."

	tests := []struct {
		name      string
		extractor Extractor
		known     float64
		start     float64
		end       float64
		want      string
	}{
		{
			name:      "canonical uses the item duration",
			extractor: Extractor{Policy: DurationCanonical, Live: 10},
			known:     100,
			start:     0,
			end:       50,
			want:      "First sentence here.",
		},
		{
			name:      "live-first prefers the player duration",
			extractor: Extractor{Policy: DurationLiveFirst, Live: 10},
			known:     100,
			start:     0,
			end:       5,
			want:      "First sentence here.",
		},
		{
			name:      "live-first falls back to known when player has none",
			extractor: Extractor{Policy: DurationLiveFirst, Live: 0},
			known:     100,
			start:     0,
			end:       100,
			want:      "First sentence here. Second one after.",
		},
		{
			name:      "reading-rate estimate when nothing is known",
			extractor: Extractor{Policy: DurationCanonical},
			known:     0,
			start:     0,
			end:       999,
			want:      "First sentence here. Second one after.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.extractor.Extract(text, tt.known, tt.start, tt.end)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractorEmptyTranscript(t *testing.T) {
	got, err := Extractor{}.Extract("", 120, 0, 10)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != "" {
		t.Errorf("Extract() = %q, want empty", got)
	}
}
