package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"studyvault/media-hub/storage"
	"studyvault/media-hub/utils"
)

// libraryEntry is the list view of an item: metadata only, transcript bodies
// stay out of the listing payload.
type libraryEntry struct {
	Key           string  `json:"key"`
	Name          string  `json:"name"`
	Size          int64   `json:"size"`
	Date          int64   `json:"date"`
	Duration      float64 `json:"duration,omitempty"`
	ResumeTime    float64 `json:"resume_time,omitempty"`
	LastPlayed    int64   `json:"last_played,omitempty"`
	HasTranscript bool    `json:"has_transcript"`
}

// ListLibrary returns every imported item.
func (h *ApplicationHandler) ListLibrary(c *fiber.Ctx) error {
	items, err := h.Library.GetAll()
	if err != nil {
		h.Logger.Errorf("Error listing library: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not list library")
	}

	entries := make([]libraryEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, libraryEntry{
			Key:           item.Key,
			Name:          item.Name,
			Size:          item.Size,
			Date:          item.Date,
			Duration:      item.Duration,
			ResumeTime:    item.ResumeTime,
			LastPlayed:    item.LastPlayed,
			HasTranscript: item.HasTranscript(),
		})
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, entries)
}

// GetItem returns one item including its transcript text.
func (h *ApplicationHandler) GetItem(c *fiber.Ctx) error {
	key := itemKey(c)
	item, err := h.Library.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return utils.RespondWithError(c, fiber.StatusNotFound, fmt.Sprintf("Item %q not found", key))
	}
	if err != nil {
		h.Logger.Errorf("Error fetching item %q: %v", key, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not fetch item")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, item)
}

// UpdateItemPayload carries the mutable playback fields. Pointers
// distinguish "not sent" from explicit zeros.
type UpdateItemPayload struct {
	ResumeTime *float64 `json:"resume_time" validate:"omitempty,gte=0"`
	Duration   *float64 `json:"duration" validate:"omitempty,gt=0"`
	LastPlayed *int64   `json:"last_played" validate:"omitempty,gte=0"`
}

// UpdateItem patches playback progress and the known duration of an item.
func (h *ApplicationHandler) UpdateItem(c *fiber.Ctx) error {
	key := itemKey(c)
	item, err := h.Library.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return utils.RespondWithError(c, fiber.StatusNotFound, fmt.Sprintf("Item %q not found", key))
	}
	if err != nil {
		h.Logger.Errorf("Error fetching item %q: %v", key, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not fetch item")
	}

	payload := new(UpdateItemPayload)
	if err := c.BodyParser(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}
	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest,
			strings.Join(utils.FormatValidationErrors(err), "; "))
	}

	if payload.ResumeTime != nil {
		item.ResumeTime = *payload.ResumeTime
		item.Touch(time.Now())
	}
	if payload.LastPlayed != nil {
		item.LastPlayed = *payload.LastPlayed
	}
	if payload.Duration != nil {
		item.Duration = *payload.Duration
		if s := h.Sessions.Peek(key); s != nil {
			s.SetKnownDuration(*payload.Duration)
		}
	}

	if err := h.Library.Put(item); err != nil {
		h.Logger.Errorf("Error updating item %q: %v", key, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not update item")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, item)
}

// ImportRequest optionally overrides the directory an import pass scans.
type ImportRequest struct {
	Dir string `json:"dir"`
}

// ImportLibrary triggers a pairing scan over the import directory.
func (h *ApplicationHandler) ImportLibrary(c *fiber.Ctx) error {
	req := new(ImportRequest)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		}
	}
	dir := req.Dir
	if dir == "" {
		dir = h.ImportDir
	}

	result, err := h.Importer.ScanDir(dir)
	if err != nil {
		h.Logger.Errorf("Import scan of %q failed: %v", dir, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Import failed: %v", err))
	}
	if len(result.Imported) == 0 && result.Skipped > 0 {
		return utils.RespondWithError(c, fiber.StatusUnprocessableEntity,
			"No matching pairs found. Provide both media and transcript files.")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, result)
}

// PurgeLibrary deletes every item, its markers and all live sessions.
func (h *ApplicationHandler) PurgeLibrary(c *fiber.Ctx) error {
	if err := h.Library.Clear(); err != nil {
		h.Logger.Errorf("Error clearing library: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not clear library")
	}
	if err := h.Markers.Clear(); err != nil {
		h.Logger.Errorf("Error clearing markers: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not clear markers")
	}
	h.Sessions.DropAll()
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"purged": true})
}
