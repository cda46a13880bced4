package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncRecord is one row of the remote media_progress table: the per-item
// state subset that travels between devices. Markers is stored as JSONB and
// carries the full three-slot map.
type SyncRecord struct {
	ID         uuid.UUID   `json:"id"`
	UserID     string      `json:"user_id"`
	ItemKey    string      `json:"item_key"`
	Progress   float64     `json:"progress"`
	Markers    MarkerSlots `json:"markers,omitempty"`
	LastPlayed int64       `json:"last_played"`
	UpdatedAt  time.Time   `json:"updated_at"`
}
