package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"studyvault/media-hub/markers"
	"studyvault/media-hub/models"
	"studyvault/media-hub/storage"
	"studyvault/media-hub/transcript"
	"studyvault/media-hub/utils"
)

// session resolves the marker session for the :key item, or writes the error
// response and returns nil.
func (h *ApplicationHandler) session(c *fiber.Ctx) *markers.Session {
	key := itemKey(c)
	item, err := h.Library.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		utils.RespondWithError(c, fiber.StatusNotFound, fmt.Sprintf("Item %q not found", key))
		return nil
	}
	if err != nil {
		h.Logger.Errorf("Error fetching item %q: %v", key, err)
		utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not fetch item")
		return nil
	}
	return h.Sessions.Session(item)
}

// slotParam validates the :slot route parameter.
func slotParam(c *fiber.Ctx) (models.Slot, bool) {
	slot := models.Slot(strings.ToLower(c.Params("slot")))
	if !slot.Valid() {
		utils.RespondWithError(c, fiber.StatusBadRequest,
			fmt.Sprintf("Unknown slot %q, want one of a, b, c", c.Params("slot")))
		return "", false
	}
	return slot, true
}

// GetMarkers returns the three-slot state and the current selection.
func (h *ApplicationHandler) GetMarkers(c *fiber.Ctx) error {
	s := h.session(c)
	if s == nil {
		return nil
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"selected": s.Selected(),
		"slots":    s.Slots(),
	})
}

// SelectSlot changes the selected slot.
func (h *ApplicationHandler) SelectSlot(c *fiber.Ctx) error {
	s := h.session(c)
	if s == nil {
		return nil
	}
	slot, ok := slotParam(c)
	if !ok {
		return nil
	}
	s.SelectSlot(slot)
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"selected": s.Selected()})
}

// ActivateSlot handles a slot tap: selection, or a jump request when the tap
// lands inside the double-tap window.
func (h *ApplicationHandler) ActivateSlot(c *fiber.Ctx) error {
	s := h.session(c)
	if s == nil {
		return nil
	}
	slot, ok := slotParam(c)
	if !ok {
		return nil
	}

	jumpTo, notice := s.Activate(slot)
	payload := fiber.Map{"selected": s.Selected()}
	if jumpTo != nil {
		payload["jump_to"] = *jumpTo
	}
	if !notice.IsZero() {
		payload["notice"] = notice
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, payload)
}

// MarkPayload carries the playback time of a mark-in/mark-out press. The
// pointer keeps an explicit 0.0 distinguishable from a missing field.
type MarkPayload struct {
	Time *float64 `json:"time" validate:"required,gte=0"`
}

func parseMarkPayload(c *fiber.Ctx) (float64, bool) {
	payload := new(MarkPayload)
	if err := c.BodyParser(payload); err != nil {
		utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return 0, false
	}
	if err := validate.Struct(payload); err != nil {
		utils.RespondWithError(c, fiber.StatusBadRequest,
			strings.Join(utils.FormatValidationErrors(err), "; "))
		return 0, false
	}
	return *payload.Time, true
}

// MarkIn opens a fresh segment in the selected slot.
func (h *ApplicationHandler) MarkIn(c *fiber.Ctx) error {
	s := h.session(c)
	if s == nil {
		return nil
	}
	t, ok := parseMarkPayload(c)
	if !ok {
		return nil
	}
	notice := s.MarkIn(t)
	return h.respondWithNotice(c, s, notice)
}

// MarkOut closes the open segment, or extends the last completed one.
func (h *ApplicationHandler) MarkOut(c *fiber.Ctx) error {
	s := h.session(c)
	if s == nil {
		return nil
	}
	t, ok := parseMarkPayload(c)
	if !ok {
		return nil
	}
	notice := s.MarkOut(t)
	return h.respondWithNotice(c, s, notice)
}

// ClearSlot empties one slot.
func (h *ApplicationHandler) ClearSlot(c *fiber.Ctx) error {
	s := h.session(c)
	if s == nil {
		return nil
	}
	slot, ok := slotParam(c)
	if !ok {
		return nil
	}
	notice := s.ClearSlot(slot)
	return h.respondWithNotice(c, s, notice)
}

// CopySlot renders the clipboard export line for a closed slot.
func (h *ApplicationHandler) CopySlot(c *fiber.Ctx) error {
	s := h.session(c)
	if s == nil {
		return nil
	}
	slot, ok := slotParam(c)
	if !ok {
		return nil
	}
	clip, notice, ok := s.Copy(slot)
	if !ok {
		return utils.RespondWithError(c, fiber.StatusConflict, "Slot has no text to copy")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"clip":   clip,
		"notice": notice,
	})
}

func (h *ApplicationHandler) respondWithNotice(c *fiber.Ctx, s *markers.Session, notice markers.Notice) error {
	payload := fiber.Map{
		"selected": s.Selected(),
		"slots":    s.Slots(),
	}
	if !notice.IsZero() {
		payload["notice"] = notice
	}
	status := fiber.StatusOK
	if notice.Kind == markers.NoticeError {
		status = fiber.StatusInternalServerError
	}
	return utils.RespondWithJSON(c, status, payload)
}

// GetTranscript returns the timed unit sequence for an item, with the active
// unit index for an optional ?t= playback time.
func (h *ApplicationHandler) GetTranscript(c *fiber.Ctx) error {
	key := itemKey(c)
	item, err := h.Library.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return utils.RespondWithError(c, fiber.StatusNotFound, fmt.Sprintf("Item %q not found", key))
	}
	if err != nil {
		h.Logger.Errorf("Error fetching item %q: %v", key, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not fetch item")
	}

	duration := transcript.EstimateDuration(item.Duration, len(item.Transcript))
	if !item.HasTranscript() || duration <= 0 {
		return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
			"units":    []transcript.Unit{},
			"active":   -1,
			"duration": duration,
		})
	}

	units, err := transcript.Segment(item.Transcript, duration)
	if err != nil {
		h.Logger.Errorf("Error segmenting transcript for %q: %v", key, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not segment transcript")
	}

	active := -1
	if t := c.QueryFloat("t", -1); t >= 0 {
		active = transcript.ActiveIndex(units, t)
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"units":    units,
		"active":   active,
		"duration": duration,
	})
}
