package markers

import "time"

// DoubleTapWindow is how quickly two slot activations must follow each other
// to read as a seek request instead of two selections.
const DoubleTapWindow = 350 * time.Millisecond

// Debounce detects rapid repeat activations. It keeps a single timestamp
// shared across every control it guards, so two quick taps on different
// slots also collapse. The clock is injected so tests can feed synthetic
// timestamps; it must be monotonic.
type Debounce struct {
	window time.Duration
	clock  func() time.Time
	last   time.Time
}

// NewDebounce returns a Debounce with the given window. A nil clock defaults
// to time.Now.
func NewDebounce(window time.Duration, clock func() time.Time) *Debounce {
	if clock == nil {
		clock = time.Now
	}
	return &Debounce{window: window, clock: clock}
}

// Tap records an activation and reports whether it landed inside the window
// opened by the previous one. The first tap ever is never a double.
func (d *Debounce) Tap() bool {
	now := d.clock()
	double := !d.last.IsZero() && now.Sub(d.last) < d.window
	d.last = now
	return double
}
