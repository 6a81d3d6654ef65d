// Package session tracks opened Ogg buffers, giving each one exclusive
// ownership of a single ogg.Index and serializing access to it.
package session

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/zsiec/oggscope/internal/ogg"
)

// Session is one opened buffer and the index decoding it.
type Session struct {
	Key      string
	OpenedAt time.Time
	Size     int

	mu    sync.Mutex
	index *ogg.Index
}

// Do runs fn with exclusive access to the session's index. The index
// must not be retained after fn returns.
func (s *Session) Do(fn func(x *ogg.Index) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.index)
}

// Manager manages the set of open sessions.
type Manager struct {
	log      *slog.Logger
	base     *slog.Logger // unscoped, handed to each index
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a new session manager. If log is nil, slog.Default() is used.
func NewManager(log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		log:      log.With("component", "session-manager"),
		base:     log,
		sessions: make(map[string]*Session),
	}
}

// Open registers buf under key and creates its index. Returns the session
// and true if created, or nil and false if key is already open. The
// buffer must not be modified while the session is open.
func (m *Manager) Open(key string, buf []byte) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[key]; ok {
		m.log.Warn("session already open, rejecting duplicate", "key", key)
		return nil, false
	}

	s := &Session{
		Key:      key,
		OpenedAt: time.Now(),
		Size:     len(buf),
		index:    ogg.NewIndex(buf, ogg.IndexOptLogger(m.base.With("source", key))),
	}
	m.sessions[key] = s
	m.log.Info("session opened", "key", key, "bytes", len(buf))
	return s, true
}

// Get returns the session for key, or false if none is open.
func (m *Manager) Get(key string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[key]
	return s, ok
}

// Close removes a session. Pages obtained from it stay valid as long as
// the caller keeps the buffer alive.
func (m *Manager) Close(key string) {
	m.mu.Lock()
	_, ok := m.sessions[key]
	if ok {
		delete(m.sessions, key)
	}
	m.mu.Unlock()

	if ok {
		m.log.Info("session closed", "key", key)
	}
}

// List returns all open sessions sorted by key.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].Key < sessions[j].Key })
	return sessions
}
