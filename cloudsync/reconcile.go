package cloudsync

import (
	"errors"

	"studyvault/media-hub/models"
	"studyvault/media-hub/storage"
)

// Reconcile applies remote records to the local stores under last-write-wins:
// a remote row overwrites local progress and markers only when its
// last-played timestamp is strictly greater than the local one. Rows for
// items the library does not hold are skipped, as are rows that fail to
// apply. Returns the keys that changed locally.
func (s *Service) Reconcile(records []models.SyncRecord) []string {
	var updated []string
	for _, rec := range records {
		local, err := s.library.Get(rec.ItemKey)
		if errors.Is(err, storage.ErrNotFound) {
			s.log.WithField("item", rec.ItemKey).Debug("Remote row for unknown item, skipping")
			continue
		}
		if err != nil {
			s.log.WithError(err).WithField("item", rec.ItemKey).Error("Reconcile lookup failed")
			continue
		}
		if rec.LastPlayed <= local.LastPlayed {
			continue
		}

		local.ResumeTime = rec.Progress
		local.LastPlayed = rec.LastPlayed
		if err := s.library.Put(local); err != nil {
			s.log.WithError(err).WithField("item", rec.ItemKey).Error("Reconcile write failed")
			continue
		}
		if rec.Markers != nil {
			if err := s.markers.SaveMarkers(rec.ItemKey, rec.Markers); err != nil {
				s.log.WithError(err).WithField("item", rec.ItemKey).Error("Reconcile marker write failed")
			}
		}
		updated = append(updated, rec.ItemKey)
	}
	return updated
}
