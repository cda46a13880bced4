package markers

import (
	"sync"
	"time"

	"studyvault/media-hub/models"
	"studyvault/media-hub/transcript"
)

// Registry hands out the single editing session per media item, creating it
// lazily on first access. Dropping an item's session forces the next access
// to reload marker state from the store, which is how remote sync updates
// become visible.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	store    Store
	policy   transcript.DurationPolicy
	clock    func() time.Time
}

// NewRegistry creates a Registry persisting through store. policy selects
// how session extractors choose their segmentation duration.
func NewRegistry(store Store, policy transcript.DurationPolicy, clock func() time.Time) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		store:    store,
		policy:   policy,
		clock:    clock,
	}
}

// Session returns the editing session for item, creating one if needed.
func (r *Registry) Session(item *models.MediaItem) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[item.Key]; ok {
		return s
	}
	s := NewSession(item, transcript.Extractor{Policy: r.policy}, r.store, r.clock)
	r.sessions[item.Key] = s
	return s
}

// Peek returns the live session for an item without creating one, or nil.
func (r *Registry) Peek(itemKey string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[itemKey]
}

// Drop discards the in-memory session for an item, if any.
func (r *Registry) Drop(itemKey string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, itemKey)
}

// DropAll discards every in-memory session.
func (r *Registry) DropAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = make(map[string]*Session)
}
