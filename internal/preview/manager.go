package preview

import "sync"

// Manager is the registry of live (acquired, not yet released)
// previews. Destructive filesystem operations call ReleaseAll first
// so no decoded buffer for a path being removed is still resident.
type Manager struct {
	mu   sync.Mutex
	live map[*Preview]struct{}
}

// NewManager returns an empty registry.
func NewManager() *Manager {
	return &Manager{live: make(map[*Preview]struct{})}
}

// Acquire decodes the preview at path for a tile edge and registers
// it as live. It never fails: decode problems yield a placeholder.
func (m *Manager) Acquire(path string, edge int) *Preview {
	p := decode(path, edge)
	m.mu.Lock()
	m.live[p] = struct{}{}
	m.mu.Unlock()
	return p
}

// Release unregisters a preview and drops its frame buffers. The
// preview must not be used afterwards.
func (m *Manager) Release(p *Preview) {
	if p == nil {
		return
	}
	m.mu.Lock()
	delete(m.live, p)
	m.mu.Unlock()
	p.drop()
}

// ReleaseAll drops every live preview. Called when the window hides
// and before any destructive batch operation.
func (m *Manager) ReleaseAll() {
	m.mu.Lock()
	live := m.live
	m.live = make(map[*Preview]struct{})
	m.mu.Unlock()

	for p := range live {
		p.drop()
	}
}

// LiveCount returns the number of currently acquired previews.
func (m *Manager) LiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}
