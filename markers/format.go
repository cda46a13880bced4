package markers

import (
	"fmt"
	"math"

	"studyvault/media-hub/models"
)

// FormatTime renders seconds as zero-padded mm:ss. Minutes grow past two
// digits naturally, there is no hour rollover. A nil time renders as --:--.
func FormatTime(seconds *float64) string {
	if seconds == nil {
		return "--:--"
	}
	total := int(math.Floor(*seconds))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// FormatClip renders the clipboard export line for a marker:
// "[mm:ss - mm:ss] text".
func FormatClip(m models.Marker) string {
	return fmt.Sprintf("[%s - %s] %s", FormatTime(m.InTime), FormatTime(m.OutTime), m.Text)
}
