package authgate

import (
	"sync"
	"time"

	"eras-capsule-be/internal/pkg/logger"
)

type State string

const (
	StateIdle          State = "idle"
	StateGating        State = "gating"
	StateTransitioning State = "transitioning"

	// How long the gate may hold a login before the sequencer assumes the
	// downstream component failed and recovers.
	safetyTimeout = 15 * time.Second

	// How long the post-gate transition window stays open.
	transitionDuration = 1200 * time.Millisecond
)

// AuthData is the payload of a successful login/signup held by the gate.
type AuthData struct {
	UserData     map[string]interface{}
	AccessToken  string
	IsFreshLogin bool
}

// CommitFunc hands the authenticated user to the rest of the application.
// Invoked exactly once per gated login.
type CommitFunc func(userData map[string]interface{}, accessToken string)

// Sequencer intercepts every successful login, holds the result while the
// client plays its gate transition, and only then commits the user
// downstream. It is the one place with a timeout-based failure path: a gate
// that never reports completion is force-reset rather than left stuck.
//
// States: Idle -> Gating -> Transitioning -> Idle.
type Sequencer struct {
	mu sync.Mutex

	state     State
	gateData  *AuthData
	pending   *AuthData
	processed bool // one-shot commit guard, reset when pending clears

	safetyTimer     Timer
	transitionTimer Timer

	clock      Clock
	commit     CommitFunc
	onCommit   func() // post-commit hook: navigate home
	logger     logger.ILogger
	sessionID  string
}

func NewSequencer(sessionID string, clock Clock, commit CommitFunc, onCommit func(), log logger.ILogger) *Sequencer {
	if clock == nil {
		clock = NewRealClock()
	}
	return &Sequencer{
		state:     StateIdle,
		clock:     clock,
		commit:    commit,
		onCommit:  onCommit,
		logger:    log,
		sessionID: sessionID,
	}
}

func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Sequencer) GateData() *AuthData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gateData
}

// HandleAuthSuccess moves Idle -> Gating. Returns false when the signal is
// ignored: already gating, or gate data still set from a previous fire.
// Duplicate auth events double-fire in the wild; the guard makes the second
// one a no-op.
func (s *Sequencer) HandleAuthSuccess(data AuthData) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateGating || s.gateData != nil {
		s.logger.Warn("AuthGate", "Duplicate auth success ignored", map[string]interface{}{"session_id": s.sessionID})
		return false
	}

	s.state = StateGating
	s.gateData = &data

	s.safetyTimer = s.clock.AfterFunc(safetyTimeout, s.onSafetyTimeout)

	s.logger.Info("AuthGate", "Gating login", map[string]interface{}{
		"session_id":  s.sessionID,
		"fresh_login": data.IsFreshLogin,
	})
	return true
}

// onSafetyTimeout fires when the gate never reported completion. The
// stuck gate is treated as failed, not fatal: force-reset to Idle.
func (s *Sequencer) onSafetyTimeout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateGating {
		return
	}

	s.logger.Warn("AuthGate", "Gate timed out, force resetting", map[string]interface{}{"session_id": s.sessionID})
	s.state = StateIdle
	s.gateData = nil
	s.clearPendingLocked()
}

// GateCompleted moves Gating -> Transitioning: disarm the safety timer,
// stage the held login for commit, then commit it.
func (s *Sequencer) GateCompleted() bool {
	s.mu.Lock()

	if s.state != StateGating || s.gateData == nil {
		s.mu.Unlock()
		return false
	}

	if s.safetyTimer != nil {
		s.safetyTimer.Stop()
		s.safetyTimer = nil
	}

	s.pending = s.gateData
	s.gateData = nil
	s.state = StateTransitioning

	s.transitionTimer = s.clock.AfterFunc(transitionDuration, s.onTransitionDone)
	s.mu.Unlock()

	s.CommitPending()
	return true
}

func (s *Sequencer) onTransitionDone() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateTransitioning {
		s.state = StateIdle
	}
	s.transitionTimer = nil
}

// CommitPending invokes the downstream auth updater exactly once per gated
// login, then clears pending data and navigates home.
func (s *Sequencer) CommitPending() {
	s.mu.Lock()
	if s.pending == nil || s.processed {
		s.mu.Unlock()
		return
	}
	s.processed = true
	data := s.pending
	s.mu.Unlock()

	// Commit outside the lock: the downstream updater may call back in.
	s.commit(data.UserData, data.AccessToken)

	s.mu.Lock()
	s.clearPendingLocked()
	s.mu.Unlock()

	if s.onCommit != nil {
		s.onCommit()
	}

	s.logger.Info("AuthGate", "Login committed", map[string]interface{}{"session_id": s.sessionID})
}

// clearPendingLocked drops pending data and re-arms the one-shot guard.
func (s *Sequencer) clearPendingLocked() {
	s.pending = nil
	s.processed = false
}
