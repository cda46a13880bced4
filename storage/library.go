package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"studyvault/media-hub/models"
)

// ErrNotFound is returned by lookups for an unknown item key.
var ErrNotFound = errors.New("storage: item not found")

// LibraryStore is the local writer-of-record for media item metadata.
// Implementations read the full record before edits and write it back whole;
// there are no partial field-level writes.
type LibraryStore interface {
	Get(key string) (*models.MediaItem, error)
	Put(item *models.MediaItem) error
	GetAll() ([]*models.MediaItem, error)
	Clear() error
}

// FileLibrary keeps the whole library in one JSON document on disk, keyed by
// item key. Every operation loads the document, applies the change and
// rewrites it atomically, serialized by a mutex.
type FileLibrary struct {
	mu   sync.Mutex
	path string
}

// NewFileLibrary creates a FileLibrary storing under dir.
func NewFileLibrary(dir string) (*FileLibrary, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create library dir: %w", err)
	}
	return &FileLibrary{path: filepath.Join(dir, "library.json")}, nil
}

func (l *FileLibrary) Get(key string) (*models.MediaItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	items, err := l.load()
	if err != nil {
		return nil, err
	}
	item, ok := items[key]
	if !ok {
		return nil, ErrNotFound
	}
	return item, nil
}

func (l *FileLibrary) Put(item *models.MediaItem) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	items, err := l.load()
	if err != nil {
		return err
	}
	items[item.Key] = item
	return l.save(items)
}

func (l *FileLibrary) GetAll() ([]*models.MediaItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	items, err := l.load()
	if err != nil {
		return nil, err
	}
	all := make([]*models.MediaItem, 0, len(items))
	for _, item := range items {
		all = append(all, item)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Key < all[j].Key })
	return all, nil
}

func (l *FileLibrary) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.save(map[string]*models.MediaItem{})
}

func (l *FileLibrary) load() (map[string]*models.MediaItem, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return map[string]*models.MediaItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read library: %w", err)
	}
	items := map[string]*models.MediaItem{}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode library: %w", err)
	}
	return items, nil
}

func (l *FileLibrary) save(items map[string]*models.MediaItem) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode library: %w", err)
	}
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write library: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return fmt.Errorf("replace library: %w", err)
	}
	return nil
}
