package session

import "sync"

// TabInfo is a read-only snapshot entry for tab display.
type TabInfo struct {
	ID    string
	Title string
}

// Registry is the ordered collection of sessions, insertion order being
// the tab display order, with a single focus pointer. Every operation
// leaves the focus invariant intact: the focused session is always a
// member, or there is no focus when the registry is empty.
type Registry struct {
	mu       sync.Mutex
	sessions []*Session
	focused  int // index into sessions, -1 when empty
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{focused: -1}
}

// Insert appends the session as the rightmost tab and focuses it.
// Returns the tab index.
func (r *Registry) Insert(s *Session) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions = append(r.sessions, s)
	r.focused = len(r.sessions) - 1
	return r.focused
}

// Remove deletes the session with the given id and re-derives focus in
// the same step. Removing an unknown id is a no-op and returns false,
// which makes duplicate exit notifications harmless.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return false
	}

	r.sessions = append(r.sessions[:idx], r.sessions[idx+1:]...)

	switch {
	case len(r.sessions) == 0:
		r.focused = -1
	case idx < r.focused:
		// Focused session shifted left by one.
		r.focused--
	case idx == r.focused:
		// Focus moves to the left neighbor, or the new leftmost.
		if idx > 0 {
			r.focused = idx - 1
		} else {
			r.focused = 0
		}
	}
	return true
}

// Focus moves focus to the session with the given id. Returns false and
// changes nothing if the id is not present.
func (r *Registry) Focus(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return false
	}
	r.focused = idx
	return true
}

// FocusIndex moves focus to the tab at the given display index.
func (r *Registry) FocusIndex(idx int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if idx < 0 || idx >= len(r.sessions) {
		return false
	}
	r.focused = idx
	return true
}

// FocusNext cycles focus one tab to the right, wrapping around.
func (r *Registry) FocusNext() {
	r.step(1)
}

// FocusPrev cycles focus one tab to the left, wrapping around.
func (r *Registry) FocusPrev() {
	r.step(-1)
}

func (r *Registry) step(delta int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.sessions)
	if n == 0 {
		return
	}
	r.focused = ((r.focused+delta)%n + n) % n
}

// Focused returns the focused session, or nil when empty.
func (r *Registry) Focused() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.focused < 0 {
		return nil
	}
	return r.sessions[r.focused]
}

// FocusedID returns the focused session id, or "" when empty.
func (r *Registry) FocusedID() string {
	if s := r.Focused(); s != nil {
		return s.ID()
	}
	return ""
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, false
	}
	return r.sessions[idx], true
}

// Len returns the number of open tabs.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// List returns a display-order snapshot of (id, title) pairs.
func (r *Registry) List() []TabInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	tabs := make([]TabInfo, len(r.sessions))
	for i, s := range r.sessions {
		tabs[i] = TabInfo{ID: s.ID(), Title: s.Title()}
	}
	return tabs
}

// Sessions returns a display-order snapshot of the live sessions.
func (r *Registry) Sessions() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Session, len(r.sessions))
	copy(out, r.sessions)
	return out
}

func (r *Registry) indexOf(id string) int {
	for i, s := range r.sessions {
		if s.ID() == id {
			return i
		}
	}
	return -1
}
