package workflow

import (
	"sync"
	"time"

	"eras-capsule-be/internal/pkg/logger"
	"eras-capsule-be/pkg/sidestore"

	"github.com/patrickmn/go-cache"
)

// Session bundles the orchestration state of one signed-in client: the
// workflow store, the tab navigator, vault sync, and the echo-migration
// seen-set.
type Session struct {
	ID     string
	UserID string

	Store *Store
	Nav   *Navigator
	Sync  *VaultSync

	mu             sync.Mutex
	migratedEchoes map[string]struct{}
}

// MarkEchoMigrated records a legacy echo id as processed. The set only
// grows for the session lifetime.
func (s *Session) MarkEchoMigrated(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.migratedEchoes[id] = struct{}{}
}

func (s *Session) IsEchoMigrated(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.migratedEchoes[id]
	return ok
}

func (s *Session) MigratedEchoCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.migratedEchoes)
}

// Manager is the in-memory session registry. Sessions idle past the TTL are
// purged; clients start fresh on their next request.
type Manager struct {
	cache     *cache.Cache
	side      sidestore.Store
	confirmer Confirmer
	logger    logger.ILogger
}

func NewManager(side sidestore.Store, confirmer Confirmer, log logger.ILogger) *Manager {
	if confirmer == nil {
		// Decline by default: the HTTP surface resolves the dialog by
		// retrying with force=true.
		confirmer = ConfirmFunc(func(fromTab, toTab string) bool { return false })
	}
	return &Manager{
		cache:     cache.New(24*time.Hour, 10*time.Minute),
		side:      side,
		confirmer: confirmer,
		logger:    log,
	}
}

// GetOrCreate returns the live session for the id, creating one on first
// touch. Each access refreshes the TTL.
func (m *Manager) GetOrCreate(sessionID, userID string) *Session {
	if x, found := m.cache.Get(sessionID); found {
		sess := x.(*Session)
		m.cache.Set(sessionID, sess, cache.DefaultExpiration)
		return sess
	}

	wf := NewStore()
	vaultSync := NewVaultSync(wf, m.logger)
	sess := &Session{
		ID:             sessionID,
		UserID:         userID,
		Store:          wf,
		Nav:            NewNavigator(sessionID, wf, vaultSync, m.confirmer, m.side, m.logger),
		Sync:           vaultSync,
		migratedEchoes: map[string]struct{}{},
	}
	m.cache.Set(sessionID, sess, cache.DefaultExpiration)
	m.logger.Info("SessionManager", "Session created", map[string]interface{}{"session_id": sessionID, "user_id": userID})
	return sess
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	if x, found := m.cache.Get(sessionID); found {
		return x.(*Session), true
	}
	return nil, false
}

func (m *Manager) Delete(sessionID string) {
	m.cache.Delete(sessionID)
}
