package attendance

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionInfo describes a live session.
type SessionInfo struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
	Students  int       `json:"students"`
}

type managedSession struct {
	session  *Session
	created  time.Time
	lastUsed time.Time
}

// Manager tracks live sessions and expires idle ones.
type Manager struct {
	detector Detector
	opts     Options
	ttl      time.Duration
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*managedSession
}

// NewManager creates a session manager. Sessions idle for longer than ttl are
// removed by Sweep; a ttl of zero keeps sessions until they are ended.
func NewManager(detector Detector, opts Options, ttl time.Duration) *Manager {
	return &Manager{
		detector: detector,
		opts:     opts,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*managedSession),
	}
}

// Create starts a new empty session.
func (m *Manager) Create() SessionInfo {
	id := uuid.NewString()
	now := m.now()
	ms := &managedSession{
		session:  NewSession(id, m.detector, m.opts),
		created:  now,
		lastUsed: now,
	}

	m.mu.Lock()
	m.sessions[id] = ms
	m.mu.Unlock()

	return m.info(id, ms)
}

// Get returns a session and marks it as used.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ms, ok := m.sessions[id]
	if !ok || m.expired(ms) {
		return nil, ErrSessionNotFound
	}
	ms.lastUsed = m.now()
	return ms.session, nil
}

// Info describes a session without touching it.
func (m *Manager) Info(id string) (SessionInfo, error) {
	m.mu.Lock()
	ms, ok := m.sessions[id]
	live := ok && !m.expired(ms)
	m.mu.Unlock()

	if !live {
		return SessionInfo{}, ErrSessionNotFound
	}
	return m.info(id, ms), nil
}

// List describes every live session.
func (m *Manager) List() []SessionInfo {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	items := make([]*managedSession, 0, len(m.sessions))
	for id, ms := range m.sessions {
		if m.expired(ms) {
			continue
		}
		ids = append(ids, id)
		items = append(items, ms)
	}
	m.mu.Unlock()

	infos := make([]SessionInfo, len(ids))
	for i := range ids {
		infos[i] = m.info(ids[i], items[i])
	}
	return infos
}

// End closes and forgets a session.
func (m *Manager) End(id string) error {
	m.mu.Lock()
	ms, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	ms.session.Close()
	return nil
}

// Len returns the number of tracked sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep ends every expired session and returns how many were removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	var expired []*managedSession
	for id, ms := range m.sessions {
		if m.expired(ms) {
			expired = append(expired, ms)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, ms := range expired {
		ms.session.Close()
	}
	return len(expired)
}

// Run sweeps expired sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if m.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				log.Printf("Expired %d idle session(s)", n)
			}
		}
	}
}

// Close ends every session.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*managedSession)
	m.mu.Unlock()

	for _, ms := range sessions {
		ms.session.Close()
	}
}

// expired must be called with m.mu held.
func (m *Manager) expired(ms *managedSession) bool {
	return m.ttl > 0 && m.now().Sub(ms.lastUsed) > m.ttl
}

func (m *Manager) info(id string, ms *managedSession) SessionInfo {
	m.mu.Lock()
	lastUsed := ms.lastUsed
	m.mu.Unlock()

	info := SessionInfo{
		ID:        id,
		CreatedAt: ms.created.UTC(),
		Students:  len(ms.session.Students()),
	}
	if m.ttl > 0 {
		info.ExpiresAt = lastUsed.Add(m.ttl).UTC()
	}
	return info
}
