// Package session holds per-browser dashboard state between requests.
// Every page render is derived from a Session snapshot; handlers swap
// whole tables in rather than mutating them.
package session

import (
	"sync"
	"time"

	"growthlens/domain/table"

	"github.com/google/uuid"
)

// Widgets captures the user's current control selections so a full
// page re-render restores them.
type Widgets struct {
	ChartKind    string
	ChartX       string
	ChartY       string
	ChartColor   string
	ExportFormat string
	Basename     string
}

// Session is the state behind one browser cookie. Table == nil means
// no file is loaded and the dashboard shows the upload prompt.
type Session struct {
	ID       string
	Name     string
	Table    *table.Table
	Filename string
	LoadedAt time.Time
	Widgets  Widgets

	// celebrate is set on a successful load and consumed by the first
	// render that follows.
	celebrate bool

	flash *Flash
}

// Flash is a one-shot message shown inline on the next dashboard
// render.
type Flash struct {
	Level   string // "error", "warning" or "info"
	Message string
}

// SetFlash queues a message for the next render, replacing any pending
// one.
func (s *Session) SetFlash(level, message string) {
	s.flash = &Flash{Level: level, Message: message}
}

// TakeFlash returns and clears the pending message.
func (s *Session) TakeFlash() *Flash {
	f := s.flash
	s.flash = nil
	return f
}

// SetTable installs a freshly loaded table and arms the one-shot
// celebration.
func (s *Session) SetTable(t *table.Table, filename string) {
	s.Table = t
	s.Filename = filename
	s.LoadedAt = time.Now()
	s.Widgets = Widgets{}
	s.celebrate = true
}

// ClearTable drops the loaded dataset, returning the session to the
// upload prompt.
func (s *Session) ClearTable() {
	s.Table = nil
	s.Filename = ""
	s.Widgets = Widgets{}
	s.celebrate = false
}

// ReplaceTable swaps in a cleaned table without resetting widgets.
func (s *Session) ReplaceTable(t *table.Table) {
	s.Table = t
}

// Loaded reports whether a dataset is present.
func (s *Session) Loaded() bool {
	return s.Table != nil
}

// Celebrate returns true exactly once after a successful load.
func (s *Session) Celebrate() bool {
	if !s.celebrate {
		return false
	}
	s.celebrate = false
	return true
}

// Store is an in-memory session registry keyed by cookie ID.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Get returns the session for id, or nil when unknown.
func (st *Store) Get(id string) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[id]
}

// GetOrCreate returns the session for id, minting a new session under
// a fresh uuid when id is empty or unknown.
func (st *Store) GetOrCreate(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	if id != "" {
		if s, ok := st.sessions[id]; ok {
			return s
		}
	}
	s := &Session{ID: uuid.New().String()}
	st.sessions[s.ID] = s
	return s
}

// Delete removes a session, for explicit resets.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
