package authgate

import (
	"sync"
	"testing"
	"time"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// fakeClock drives timers by explicit advancement.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	deadline time.Duration
	f        func()
	stopped  bool
	fired    bool
}

func (t *fakeTimer) Stop() bool {
	t.stopped = true
	return !t.fired
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	timer := &fakeTimer{deadline: c.now + d, f: f}
	c.timers = append(c.timers, timer)
	return timer
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.deadline <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

type commitRecorder struct {
	mu      sync.Mutex
	commits int
	token   string
	navHome int
}

func (r *commitRecorder) commit(userData map[string]interface{}, accessToken string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commits++
	r.token = accessToken
}

func (r *commitRecorder) onCommit() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.navHome++
}

func newTestSequencer() (*Sequencer, *fakeClock, *commitRecorder) {
	clock := &fakeClock{}
	rec := &commitRecorder{}
	seq := NewSequencer("sess-test", clock, rec.commit, rec.onCommit, nopLogger{})
	return seq, clock, rec
}

func loginData(token string) AuthData {
	return AuthData{
		UserData:     map[string]interface{}{"email": "someone@example.com"},
		AccessToken:  token,
		IsFreshLogin: true,
	}
}

func TestGateSingleFire(t *testing.T) {
	seq, _, rec := newTestSequencer()

	if !seq.HandleAuthSuccess(loginData("tok-1")) {
		t.Fatal("first auth success rejected")
	}
	if seq.HandleAuthSuccess(loginData("tok-2")) {
		t.Fatal("second auth success must be ignored while gating")
	}

	if !seq.GateCompleted() {
		t.Fatal("GateCompleted rejected")
	}

	if rec.commits != 1 {
		t.Errorf("commits = %d, want exactly 1", rec.commits)
	}
	if rec.token != "tok-1" {
		t.Errorf("committed token = %q, want tok-1 (second fire must not win)", rec.token)
	}
	if rec.navHome != 1 {
		t.Errorf("navigate-home calls = %d, want 1", rec.navHome)
	}
}

func TestTimeoutRecovery(t *testing.T) {
	seq, clock, rec := newTestSequencer()

	seq.HandleAuthSuccess(loginData("tok-1"))
	if seq.State() != StateGating {
		t.Fatalf("state = %v, want gating", seq.State())
	}

	clock.Advance(15 * time.Second)

	if seq.State() != StateIdle {
		t.Errorf("state after timeout = %v, want idle", seq.State())
	}
	if seq.GateData() != nil {
		t.Errorf("gate data must be cleared on timeout")
	}
	if rec.commits != 0 {
		t.Errorf("a timed-out gate must not commit")
	}

	// A fresh login after recovery goes through normally.
	if !seq.HandleAuthSuccess(loginData("tok-2")) {
		t.Fatal("auth success after recovery rejected")
	}
	seq.GateCompleted()
	if rec.commits != 1 || rec.token != "tok-2" {
		t.Errorf("post-recovery commit = %d/%q, want 1/tok-2", rec.commits, rec.token)
	}
}

func TestCompletionDisarmsSafetyTimer(t *testing.T) {
	seq, clock, rec := newTestSequencer()

	seq.HandleAuthSuccess(loginData("tok-1"))
	seq.GateCompleted()

	// The safety window elapsing after completion must not reset anything
	// or double-commit.
	clock.Advance(15 * time.Second)

	if rec.commits != 1 {
		t.Errorf("commits = %d, want 1", rec.commits)
	}
}

func TestTransitionWindowReturnsToIdle(t *testing.T) {
	seq, clock, _ := newTestSequencer()

	seq.HandleAuthSuccess(loginData("tok-1"))
	seq.GateCompleted()

	if seq.State() != StateTransitioning {
		t.Fatalf("state = %v, want transitioning", seq.State())
	}

	clock.Advance(1200 * time.Millisecond)

	if seq.State() != StateIdle {
		t.Errorf("state = %v, want idle after transition window", seq.State())
	}
}

func TestGateCompletedWithoutGatingIsNoOp(t *testing.T) {
	seq, _, rec := newTestSequencer()

	if seq.GateCompleted() {
		t.Error("GateCompleted out of gating must be rejected")
	}
	if rec.commits != 0 {
		t.Errorf("commits = %d, want 0", rec.commits)
	}
}

func TestCommitPendingIsOneShot(t *testing.T) {
	seq, _, rec := newTestSequencer()

	seq.HandleAuthSuccess(loginData("tok-1"))
	seq.GateCompleted()

	// Extra ticks of the commit path must be no-ops.
	seq.CommitPending()
	seq.CommitPending()

	if rec.commits != 1 {
		t.Errorf("commits = %d, want 1", rec.commits)
	}
}
