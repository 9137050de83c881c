package authgate

import (
	"sync"
	"time"

	"eras-capsule-be/internal/pkg/logger"

	"github.com/patrickmn/go-cache"
)

// CommittedLogin is what the sequencer hands downstream once the gate
// transition finished: the payload the rest of the app may now render.
type CommittedLogin struct {
	UserData    map[string]interface{}
	AccessToken string
	CommittedAt time.Time
}

// Manager keeps one sequencer per session and collects committed logins
// until the client picks them up.
type Manager struct {
	mu        sync.Mutex
	cache     *cache.Cache
	committed map[string]*CommittedLogin

	clock    Clock
	logger   logger.ILogger
	onCommit func(sessionID string)
}

// NewManager creates the registry. onCommit runs after each commit
// (navigate-home wiring); nil is allowed.
func NewManager(clock Clock, onCommit func(sessionID string), log logger.ILogger) *Manager {
	if clock == nil {
		clock = NewRealClock()
	}
	return &Manager{
		cache:     cache.New(30*time.Minute, 10*time.Minute),
		committed: map[string]*CommittedLogin{},
		clock:     clock,
		logger:    log,
		onCommit:  onCommit,
	}
}

// Sequencer returns the session's sequencer, creating it on first use.
func (m *Manager) Sequencer(sessionID string) *Sequencer {
	m.mu.Lock()
	defer m.mu.Unlock()

	if x, found := m.cache.Get(sessionID); found {
		return x.(*Sequencer)
	}

	seq := NewSequencer(
		sessionID,
		m.clock,
		func(userData map[string]interface{}, accessToken string) {
			m.storeCommitted(sessionID, userData, accessToken)
		},
		func() {
			if m.onCommit != nil {
				m.onCommit(sessionID)
			}
		},
		m.logger,
	)
	m.cache.Set(sessionID, seq, cache.DefaultExpiration)
	return seq
}

func (m *Manager) storeCommitted(sessionID string, userData map[string]interface{}, accessToken string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.committed[sessionID] = &CommittedLogin{
		UserData:    userData,
		AccessToken: accessToken,
		CommittedAt: time.Now(),
	}
}

// TakeCommitted pops the committed login for a session, if any.
func (m *Manager) TakeCommitted(sessionID string) (*CommittedLogin, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	login, ok := m.committed[sessionID]
	if ok {
		delete(m.committed, sessionID)
	}
	return login, ok
}
