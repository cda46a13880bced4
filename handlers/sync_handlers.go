package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"studyvault/media-hub/cloudsync"
	"studyvault/media-hub/utils"
)

// PushAll uploads every item's progress and markers, best effort per item.
func (h *ApplicationHandler) PushAll(c *fiber.Ctx) error {
	if h.Sync == nil {
		return utils.RespondWithError(c, fiber.StatusServiceUnavailable, "Sync is not configured")
	}

	pushed, total, err := h.Sync.PushAll()
	if errors.Is(err, cloudsync.ErrAuthFailed) {
		return utils.RespondWithError(c, fiber.StatusUnauthorized, "Sync authentication failed")
	}
	if err != nil {
		h.Logger.Errorf("Sync push failed: %v", err)
		return utils.RespondWithError(c, fiber.StatusBadGateway, "Sync push failed")
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"pushed": pushed,
		"total":  total,
	})
}

// Pull downloads remote state and reconciles it under last-write-wins.
// Sessions of changed items are dropped so the next access reloads the
// synced markers.
func (h *ApplicationHandler) Pull(c *fiber.Ctx) error {
	if h.Sync == nil {
		return utils.RespondWithError(c, fiber.StatusServiceUnavailable, "Sync is not configured")
	}

	updated, err := h.Sync.Pull()
	if errors.Is(err, cloudsync.ErrAuthFailed) {
		return utils.RespondWithError(c, fiber.StatusUnauthorized, "Sync authentication failed")
	}
	if err != nil {
		h.Logger.Errorf("Sync pull failed: %v", err)
		return utils.RespondWithError(c, fiber.StatusBadGateway, "Sync pull failed")
	}

	for _, key := range updated {
		h.Sessions.Drop(key)
	}
	if updated == nil {
		updated = []string{}
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"updated": updated})
}
