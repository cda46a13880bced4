package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"studyvault/media-hub/models"
)

// FileMarkerStore persists each item's three-slot marker map, all in one
// JSON document keyed by item key. Unknown items load as empty slot maps:
// marker state exists lazily, it is only ever destroyed with the item.
type FileMarkerStore struct {
	mu   sync.Mutex
	path string
}

// NewFileMarkerStore creates a FileMarkerStore storing under dir.
func NewFileMarkerStore(dir string) (*FileMarkerStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create marker dir: %w", err)
	}
	return &FileMarkerStore{path: filepath.Join(dir, "markers.json")}, nil
}

// LoadMarkers returns the stored slot map for an item, or a fresh empty one.
func (s *FileMarkerStore) LoadMarkers(itemKey string) (models.MarkerSlots, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.load()
	if err != nil {
		return nil, err
	}
	if slots, ok := all[itemKey]; ok {
		return slots, nil
	}
	return models.NewMarkerSlots(), nil
}

// SaveMarkers stores the slot map for an item.
func (s *FileMarkerStore) SaveMarkers(itemKey string, slots models.MarkerSlots) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.load()
	if err != nil {
		return err
	}
	all[itemKey] = slots
	return s.save(all)
}

// DeleteMarkers removes an item's marker state entirely.
func (s *FileMarkerStore) DeleteMarkers(itemKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.load()
	if err != nil {
		return err
	}
	delete(all, itemKey)
	return s.save(all)
}

// Clear removes marker state for every item.
func (s *FileMarkerStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(map[string]models.MarkerSlots{})
}

func (s *FileMarkerStore) load() (map[string]models.MarkerSlots, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]models.MarkerSlots{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read markers: %w", err)
	}
	all := map[string]models.MarkerSlots{}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("decode markers: %w", err)
	}
	return all, nil
}

func (s *FileMarkerStore) save(all map[string]models.MarkerSlots) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("encode markers: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write markers: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace markers: %w", err)
	}
	return nil
}
