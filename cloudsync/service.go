package cloudsync

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"

	"studyvault/media-hub/markers"
	"studyvault/media-hub/models"
	"studyvault/media-hub/storage"
	"studyvault/media-hub/worker"
)

// ErrAuthFailed means no sync identity could be established. A failed
// authentication is terminal for the whole sync attempt: no push or pull
// happens without an identity.
var ErrAuthFailed = errors.New("cloudsync: authentication failed")

// progressTable is the remote table holding per-user, per-item progress and
// marker rows.
const progressTable = "media_progress"

// Service synchronizes the shareable slice of item state (progress, markers,
// last-played) with the cloud document store. Everything it does is best
// effort: individual item failures are logged and skipped, never fatal to
// the batch, and local state is only touched by an explicit Reconcile.
type Service struct {
	db      *supa.Client
	userID  string
	library storage.LibraryStore
	markers markers.Store
	workers int
	log     *logrus.Logger
}

// New creates a sync Service. db may be nil when sync is unconfigured; every
// remote operation then fails authentication.
func New(db *supa.Client, userID string, library storage.LibraryStore, markerStore markers.Store, workers int, log *logrus.Logger) *Service {
	if workers < 1 {
		workers = 2
	}
	return &Service{
		db:      db,
		userID:  userID,
		library: library,
		markers: markerStore,
		workers: workers,
		log:     log,
	}
}

// Authenticate establishes the sync identity, returning the user id all
// remote rows are keyed under.
func (s *Service) Authenticate() (string, error) {
	if s.db == nil || s.userID == "" {
		return "", ErrAuthFailed
	}
	return s.userID, nil
}

// pushRow is the upsert payload. The row id is owned by the remote store;
// conflict resolution runs on (user_id, item_key).
type pushRow struct {
	UserID     string             `json:"user_id"`
	ItemKey    string             `json:"item_key"`
	Progress   float64            `json:"progress"`
	Markers    models.MarkerSlots `json:"markers,omitempty"`
	LastPlayed int64              `json:"last_played"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// PushItem uploads one item's progress and marker state.
func (s *Service) PushItem(item *models.MediaItem) error {
	userID, err := s.Authenticate()
	if err != nil {
		return err
	}

	slots, err := s.markers.LoadMarkers(item.Key)
	if err != nil {
		return fmt.Errorf("load markers for %q: %w", item.Key, err)
	}

	row := pushRow{
		UserID:     userID,
		ItemKey:    item.Key,
		Progress:   item.ResumeTime,
		Markers:    slots,
		LastPlayed: item.LastPlayed,
		UpdatedAt:  time.Now().UTC(),
	}
	_, _, err = s.db.From(progressTable).
		Insert(row, true, "user_id,item_key", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("push %q: %w", item.Key, err)
	}
	return nil
}

// pushJob adapts PushItem to the worker pool.
type pushJob struct {
	svc  *Service
	item *models.MediaItem
	ok   *atomic.Int32
}

func (j *pushJob) Execute() error {
	if err := j.svc.PushItem(j.item); err != nil {
		return err
	}
	j.ok.Add(1)
	return nil
}

func (j *pushJob) ID() string { return "push:" + j.item.Key }

// PushAll uploads every library item through the worker pool. It returns how
// many pushes succeeded out of how many items; per-item failures are logged
// by the pool and skipped.
func (s *Service) PushAll() (pushed, total int, err error) {
	if _, err := s.Authenticate(); err != nil {
		return 0, 0, err
	}
	items, err := s.library.GetAll()
	if err != nil {
		return 0, 0, fmt.Errorf("list library: %w", err)
	}
	if len(items) == 0 {
		return 0, 0, nil
	}

	pool := worker.NewPool(s.workers, len(items), s.log)
	pool.Run()
	var ok atomic.Int32
	for _, item := range items {
		pool.Submit(&pushJob{svc: s, item: item, ok: &ok})
	}
	pool.Wait()
	pool.Stop()

	return int(ok.Load()), len(items), nil
}

// PullAll downloads every remote row for the authenticated user.
func (s *Service) PullAll() ([]models.SyncRecord, error) {
	userID, err := s.Authenticate()
	if err != nil {
		return nil, err
	}

	body, _, err := s.db.From(progressTable).
		Select("", "", false).
		Eq("user_id", userID).
		Order("updated_at", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("pull: %w", err)
	}

	var records []models.SyncRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode pull response: %w", err)
	}
	return records, nil
}

// Pull downloads remote state and reconciles it into the local stores,
// returning the keys of items that changed.
func (s *Service) Pull() ([]string, error) {
	records, err := s.PullAll()
	if err != nil {
		return nil, err
	}
	return s.Reconcile(records), nil
}
