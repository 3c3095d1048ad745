package debate

import (
	"sort"
	"sync"

	"github.com/Rrens/ai-debate/internal/domain"
)

// MemoryRegistry is an in-process domain.SessionRegistry
type MemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*domain.DebateSession
}

// NewMemoryRegistry creates an empty registry
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{sessions: make(map[string]*domain.DebateSession)}
}

// Put registers a session. At most one session per ID is active.
func (r *MemoryRegistry) Put(session *domain.DebateSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[session.ID]; exists {
		return domain.ErrSessionActive
	}
	r.sessions[session.ID] = session
	return nil
}

// Get returns the running session for an ID
func (r *MemoryRegistry) Get(id string) (*domain.DebateSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	return s, ok
}

// Remove deletes the entry only if it still belongs to owner.
// Removing an absent or foreign entry is a no-op.
func (r *MemoryRegistry) Remove(id string, owner *domain.DebateSession) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.sessions[id]; ok && current == owner {
		delete(r.sessions, id)
	}
}

// IDs returns the IDs of running sessions, sorted
func (r *MemoryRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of running sessions
func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
