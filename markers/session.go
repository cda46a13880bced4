package markers

import (
	"fmt"
	"strings"
	"time"

	"studyvault/media-hub/models"
	"studyvault/media-hub/transcript"
)

// Store persists the three-slot marker map keyed by item. A Session reads it
// once on creation and writes through it after every mutation.
type Store interface {
	LoadMarkers(itemKey string) (models.MarkerSlots, error)
	SaveMarkers(itemKey string, slots models.MarkerSlots) error
}

// Session owns marker editing for a single media item. It is the explicit
// state machine behind the in/out buttons: each slot is EMPTY (both bounds
// nil), OPEN (in set, out nil) or CLOSED (both set). MarkIn always reopens
// the selected slot; MarkOut closes an open slot, or revises the most
// recently closed one when nothing is open.
//
// A session is single-owner state: callers serialize access to it.
type Session struct {
	itemKey    string
	transcript string
	duration   float64 // item's known duration, 0 when unknown

	slots         models.MarkerSlots
	selected      models.Slot
	lastCompleted models.Slot // "" when no slot has been closed yet

	extractor transcript.Extractor
	debounce  *Debounce
	store     Store
}

// NewSession builds the editing session for item, loading any persisted slot
// state. store and clock may be nil (no persistence, wall clock).
func NewSession(item *models.MediaItem, extractor transcript.Extractor, store Store, clock func() time.Time) *Session {
	s := &Session{
		itemKey:    item.Key,
		transcript: item.Transcript,
		duration:   item.Duration,
		slots:      models.NewMarkerSlots(),
		selected:   models.SlotA,
		extractor:  extractor,
		debounce:   NewDebounce(DoubleTapWindow, clock),
		store:      store,
	}
	if store != nil {
		if saved, err := store.LoadMarkers(item.Key); err == nil && saved != nil {
			s.slots = saved.Clone()
		}
	}
	return s
}

// ItemKey returns the key of the item this session edits.
func (s *Session) ItemKey() string { return s.itemKey }

// Selected returns the currently selected slot.
func (s *Session) Selected() models.Slot { return s.selected }

// Slots returns an independent snapshot of all three markers.
func (s *Session) Slots() models.MarkerSlots { return s.slots.Clone() }

// Marker returns a snapshot of one slot.
func (s *Session) Marker(slot models.Slot) models.Marker {
	m := s.slots[slot]
	if m.InTime != nil {
		v := *m.InTime
		m.InTime = &v
	}
	if m.OutTime != nil {
		v := *m.OutTime
		m.OutTime = &v
	}
	return m
}

// SetLiveDuration updates the player-reported duration consulted by the
// live-first extraction policy. No effect under the canonical policy.
func (s *Session) SetLiveDuration(d float64) {
	s.extractor.Live = d
}

// SetKnownDuration records the item's real duration once the player reports
// it, so later extractions segment against it instead of the estimate.
func (s *Session) SetKnownDuration(d float64) {
	s.duration = d
}

// SelectSlot changes the selected slot. Nothing else.
func (s *Session) SelectSlot(slot models.Slot) {
	s.selected = slot
}

// Activate handles a tap on a slot. A second tap within the double-tap
// window on a slot that has an in point is a seek request: the returned
// pointer is the time to jump to, and marker state is untouched. Any other
// tap selects the slot.
func (s *Session) Activate(slot models.Slot) (jumpTo *float64, n Notice) {
	if s.debounce.Tap() {
		if m := s.slots[slot]; m.InTime != nil {
			t := *m.InTime
			return &t, infof("JUMP: %s", slotLabel(slot))
		}
		return nil, Notice{}
	}
	s.selected = slot
	return nil, Notice{}
}

// MarkIn starts a fresh segment in the selected slot at currentTime,
// discarding any previously completed segment held there.
func (s *Session) MarkIn(currentTime float64) Notice {
	m := s.slots[s.selected]
	t := currentTime
	m.InTime = &t
	m.OutTime = nil
	m.Text = ""
	s.slots[s.selected] = m
	if err := s.persist(); err != nil {
		return errorf("MARKER SAVE FAILED: %v", err)
	}
	return infof("%s IN", slotLabel(s.selected))
}

// MarkOut closes the selected slot's open segment at currentTime. When the
// selected slot has nothing open, it instead revises the out point of the
// most recently completed slot, which may be a different slot than the
// selected one. With neither, it does nothing.
//
// Rewinds are tolerated: an out time earlier than the in time swaps the
// bounds for the closing case, and only widens text for the extend case.
func (s *Session) MarkOut(currentTime float64) Notice {
	sel := s.slots[s.selected]
	if sel.InTime != nil {
		start, end := *sel.InTime, currentTime
		if end < start {
			start, end = end, start
		}
		sel.InTime = &start
		sel.OutTime = &end
		sel.Text = s.extractText(start, end)
		s.slots[s.selected] = sel
		s.lastCompleted = s.selected
		if err := s.persist(); err != nil {
			return errorf("MARKER SAVE FAILED: %v", err)
		}
		return successf("%s LOCKED", slotLabel(s.selected))
	}

	if s.lastCompleted != "" {
		prev := s.slots[s.lastCompleted]
		if prev.IsClosed() {
			start, end := *prev.InTime, currentTime
			if end < start {
				start, end = end, start
			}
			// In point stays fixed; only the out bound and text move.
			prev.OutTime = &end
			prev.Text = s.extractText(start, end)
			s.slots[s.lastCompleted] = prev
			if err := s.persist(); err != nil {
				return errorf("MARKER SAVE FAILED: %v", err)
			}
			return successf("EXTENDED %s", slotLabel(s.lastCompleted))
		}
	}
	return Notice{}
}

// ClearSlot empties the slot. If the cleared slot was the extend target it
// stops being one: a later MarkOut must not resurrect a cleared segment.
func (s *Session) ClearSlot(slot models.Slot) Notice {
	s.slots[slot] = models.Marker{}
	if s.lastCompleted == slot {
		s.lastCompleted = ""
	}
	if err := s.persist(); err != nil {
		return errorf("MARKER SAVE FAILED: %v", err)
	}
	return Notice{}
}

// Copy renders the clipboard line for a slot. ok is false when the slot has
// no derived text yet, in which case there is nothing to copy.
func (s *Session) Copy(slot models.Slot) (clip string, n Notice, ok bool) {
	m := s.slots[slot]
	if m.Text == "" {
		return "", Notice{}, false
	}
	return FormatClip(m), successf("COPIED SLOT %s", slotLabel(slot)), true
}

func (s *Session) extractText(start, end float64) string {
	text, err := s.extractor.Extract(s.transcript, s.duration, start, end)
	if err != nil {
		return ""
	}
	return text
}

func (s *Session) persist() error {
	if s.store == nil {
		return nil
	}
	if err := s.store.SaveMarkers(s.itemKey, s.slots.Clone()); err != nil {
		return fmt.Errorf("save markers for %q: %w", s.itemKey, err)
	}
	return nil
}

func slotLabel(slot models.Slot) string {
	return strings.ToUpper(string(slot))
}
