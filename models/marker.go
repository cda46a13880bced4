package models

// Slot names one of the three marker holders a user can populate.
type Slot string

const (
	SlotA Slot = "a"
	SlotB Slot = "b"
	SlotC Slot = "c"
)

// AllSlots lists the fixed slot set in display order.
var AllSlots = []Slot{SlotA, SlotB, SlotC}

// Valid reports whether s is one of the three known slot names.
func (s Slot) Valid() bool {
	return s == SlotA || s == SlotB || s == SlotC
}

// Marker is one in/out segment. Times are pointers so an unset bound is
// distinguishable from zero seconds. Text is always derived from the time
// range, never hand-edited; it stays empty while OutTime is nil.
//
// JSON field names match the serialized blobs the original clients wrote, so
// remote marker documents round-trip unchanged.
type Marker struct {
	InTime  *float64 `json:"inTime"`
	OutTime *float64 `json:"outTime"`
	Text    string   `json:"text"`
}

// IsEmpty reports whether neither bound is set.
func (m Marker) IsEmpty() bool {
	return m.InTime == nil && m.OutTime == nil
}

// IsOpen reports an in point without a matching out point.
func (m Marker) IsOpen() bool {
	return m.InTime != nil && m.OutTime == nil
}

// IsClosed reports a fully bounded segment.
func (m Marker) IsClosed() bool {
	return m.InTime != nil && m.OutTime != nil
}

// MarkerSlots maps the fixed slot set to marker state for one media item.
type MarkerSlots map[Slot]Marker

// NewMarkerSlots returns the empty three-slot map.
func NewMarkerSlots() MarkerSlots {
	return MarkerSlots{
		SlotA: {},
		SlotB: {},
		SlotC: {},
	}
}

// Clone returns an independent copy of the slot map.
func (ms MarkerSlots) Clone() MarkerSlots {
	out := make(MarkerSlots, len(ms))
	for slot, m := range ms {
		if m.InTime != nil {
			v := *m.InTime
			m.InTime = &v
		}
		if m.OutTime != nil {
			v := *m.OutTime
			m.OutTime = &v
		}
		out[slot] = m
	}
	return out
}
