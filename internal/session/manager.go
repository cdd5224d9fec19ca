package session

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-tailor/internal/keywords"
)

// DefaultTTL is how long an idle session is kept
const DefaultTTL = 30 * time.Minute

// minSweepInterval keeps very short TTLs from spinning the janitor
const minSweepInterval = 10 * time.Millisecond

// Manager keeps sessions in memory keyed by ID and expires idle ones
type Manager struct {
	analyzer *keywords.Analyzer
	ttl      time.Duration
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewManager creates a Manager and starts its expiry janitor. Call Stop to end it.
func NewManager(analyzer *keywords.Analyzer, ttl time.Duration) *Manager {
	return newManager(analyzer, ttl, time.Now)
}

func newManager(analyzer *keywords.Analyzer, ttl time.Duration, now func() time.Time) *Manager {
	if analyzer == nil {
		analyzer = keywords.NewAnalyzer(nil)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Manager{
		analyzer: analyzer,
		ttl:      ttl,
		now:      now,
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go m.janitor()
	return m
}

// TTL returns the idle expiry duration
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create starts a session over a resume
func (m *Manager) Create(resumeName, resumeText string) *Session {
	s := newSession(uuid.New().String(), m.analyzer, resumeName, resumeText, m.now)

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()
	return s
}

// Get returns a live session and marks it as used
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if m.expired(s) {
		m.Delete(id)
		return nil, false
	}
	s.touch()
	return s, true
}

// Delete ends a session and removes its generated files. It reports whether the
// session existed.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.close()
	}
	return ok
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes every expired session and returns how many were removed
func (m *Manager) Sweep() int {
	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if m.expired(s) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.close()
	}
	return len(expired)
}

func (m *Manager) expired(s *Session) bool {
	return m.now().Sub(s.idleSince()) > m.ttl
}

func (m *Manager) janitor() {
	defer close(m.done)

	interval := m.ttl / 2
	if interval < minSweepInterval {
		interval = minSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				log.Printf("[session] expired %d idle session(s)", n)
			}
		case <-m.stop:
			return
		}
	}
}

// Stop ends the janitor and closes every remaining session. It is safe to call
// more than once.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
		<-m.done

		m.mu.Lock()
		remaining := make([]*Session, 0, len(m.sessions))
		for id, s := range m.sessions {
			remaining = append(remaining, s)
			delete(m.sessions, id)
		}
		m.mu.Unlock()

		for _, s := range remaining {
			s.close()
		}
	})
}
