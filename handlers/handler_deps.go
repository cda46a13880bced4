package handlers

import (
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"studyvault/media-hub/cloudsync"
	"studyvault/media-hub/importer"
	"studyvault/media-hub/markers"
	"studyvault/media-hub/storage"
)

var validate = validator.New()

// MarkerStore is the slice of the marker persistence layer the handlers
// need: per-item load/save plus the purge.
type MarkerStore interface {
	markers.Store
	Clear() error
}

// ApplicationHandler holds shared dependencies for handlers.
type ApplicationHandler struct {
	Logger    *logrus.Logger
	Library   storage.LibraryStore
	Markers   MarkerStore
	Sessions  *markers.Registry
	Importer  *importer.Importer
	Sync      *cloudsync.Service // nil when sync is not configured
	ImportDir string
}

// NewApplicationHandler creates an ApplicationHandler with the given
// dependencies.
func NewApplicationHandler(
	logger *logrus.Logger,
	library storage.LibraryStore,
	markerStore MarkerStore,
	sessions *markers.Registry,
	imp *importer.Importer,
	sync *cloudsync.Service,
	importDir string,
) *ApplicationHandler {
	return &ApplicationHandler{
		Logger:    logger,
		Library:   library,
		Markers:   markerStore,
		Sessions:  sessions,
		Importer:  imp,
		Sync:      sync,
		ImportDir: importDir,
	}
}

// itemKey decodes the :key route parameter. Item keys contain spaces, so
// they arrive percent-encoded.
func itemKey(c *fiber.Ctx) string {
	key, err := url.PathUnescape(c.Params("key"))
	if err != nil {
		return c.Params("key")
	}
	return key
}
