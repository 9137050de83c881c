package workflow

import (
	"errors"
	"strings"
	"sync"
	"time"

	"eras-capsule-be/internal/pkg/logger"
	"eras-capsule-be/pkg/sidestore"
	"eras-capsule-be/pkg/store"

	"github.com/google/uuid"
)

// ErrConfirmationDeclined is the normal-abort result when the user keeps
// their unsaved work instead of leaving the creation flow.
var ErrConfirmationDeclined = errors.New("workflow: tab change declined to preserve unsaved work")

// Confirmer answers the unsaved-work question. The HTTP surface declines by
// default and lets the client retry with force after showing its dialog;
// tests plug in stubs.
type Confirmer interface {
	ConfirmDiscard(fromTab, toTab string) bool
}

// ConfirmFunc adapts a plain function to the Confirmer interface.
type ConfirmFunc func(fromTab, toTab string) bool

func (f ConfirmFunc) ConfirmDiscard(fromTab, toTab string) bool {
	return f(fromTab, toTab)
}

// Transition describes the outcome of a successful tab change.
type Transition struct {
	From            string `json:"from"`
	To              string `json:"to"`
	SettingsSection string `json:"settings_section,omitempty"`
	WorkflowReset   bool   `json:"workflow_reset"`
	RecorderToken   string `json:"recorder_token,omitempty"`
	ScrollToTop     bool   `json:"scroll_to_top"`
}

// Navigator owns TabState for one session and applies the guard rules and
// ordered side effects of every transition.
type Navigator struct {
	mu        sync.Mutex
	sessionID string
	tabs      store.TabState
	wf        *Store
	sync      *VaultSync
	confirmer Confirmer
	side      sidestore.Store
	logger    logger.ILogger
}

func NewNavigator(sessionID string, wf *Store, vaultSync *VaultSync, confirmer Confirmer, side sidestore.Store, log logger.ILogger) *Navigator {
	return &Navigator{
		sessionID: sessionID,
		tabs: store.TabState{
			ActiveTab:     store.TabHome,
			LastActiveTab: store.TabHome,
		},
		wf:        wf,
		sync:      vaultSync,
		confirmer: confirmer,
		side:      side,
		logger:    log,
	}
}

// Tabs returns a copy of the current tab state.
func (n *Navigator) Tabs() store.TabState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.tabs
}

// splitTarget decomposes "settings-<section>" into (settings, section).
func splitTarget(target string) (tab, section string) {
	if strings.HasPrefix(target, store.TabSettings+"-") {
		return store.TabSettings, strings.TrimPrefix(target, store.TabSettings+"-")
	}
	return target, ""
}

// ChangeTab applies a guarded transition. Declining the unsaved-work
// confirmation aborts the whole transition: no side effects, state
// unchanged. Side effects of an accepted transition run in a fixed order:
// tab bookkeeping, vault return target, workflow reset, recorder fresh-mount
// token, scroll reset.
func (n *Navigator) ChangeTab(target string, force bool) (*Transition, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	tab, section := splitTarget(target)

	if tab == n.tabs.ActiveTab && section == n.tabs.SettingsSection && !force {
		return nil, nil // no-op
	}

	leavingCreate := n.tabs.ActiveTab == store.TabCreate && tab != store.TabCreate

	if leavingCreate && !force && n.wf.HasUnsavedWork() {
		if !n.confirmer.ConfirmDiscard(n.tabs.ActiveTab, tab) {
			return nil, ErrConfirmationDeclined
		}
	}

	from := n.tabs.ActiveTab
	result := &Transition{From: from, To: tab, SettingsSection: section, ScrollToTop: true}

	// (a) tab bookkeeping
	n.tabs.LastActiveTab = from
	n.tabs.ActiveTab = tab
	n.tabs.SettingsSection = section

	// (b) remember where the vault should return to and reconcile its
	// checkmarks with the live draft
	if tab == store.TabVault {
		n.tabs.VaultReturnTab = from
		n.sync.OnEnterVault(from)
	}

	// (c) leaving create to anything but record/vault abandons the draft
	if leavingCreate && tab != store.TabRecord && tab != store.TabVault {
		n.wf.Reset()
		result.WorkflowReset = true
	}

	// (d) recorder starts from a clean mount
	if tab == store.TabRecord {
		token := uuid.New().String()
		result.RecorderToken = token
		if err := n.side.Set(sidestore.KeyMountToken+n.sessionID, token, time.Hour); err != nil {
			n.logger.Warn("Navigator", "Failed to persist recorder mount token", map[string]interface{}{"error": err.Error()})
		}
	}

	// (e) scroll reset is cosmetic; a side-store failure is not
	if err := n.side.Set(sidestore.KeyScrollPosition+n.sessionID, "0", time.Hour); err != nil {
		n.logger.Warn("Navigator", "Failed to reset scroll bookkeeping", map[string]interface{}{"error": err.Error()})
	}

	n.logger.Info("Navigator", "Tab changed", map[string]interface{}{
		"session_id": n.sessionID,
		"from":       from,
		"to":         tab,
		"forced":     force,
	})

	return result, nil
}

// VaultReturnTab is where closing the vault goes back to, falling back to
// home when the vault was somehow entered first.
func (n *Navigator) VaultReturnTab() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.tabs.VaultReturnTab == "" {
		return store.TabHome
	}
	return n.tabs.VaultReturnTab
}
