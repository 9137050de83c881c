package workflow

import (
	"errors"
	"testing"

	"eras-capsule-be/pkg/sidestore"
	"eras-capsule-be/pkg/store"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func newTestNavigator(confirm bool) (*Navigator, *Store) {
	wf := NewStore()
	nav := NewNavigator(
		"sess-test",
		wf,
		NewVaultSync(wf, nopLogger{}),
		ConfirmFunc(func(fromTab, toTab string) bool { return confirm }),
		sidestore.NewMemoryStore(),
		nopLogger{},
	)
	return nav, wf
}

func TestChangeTabNoOpOnSameTarget(t *testing.T) {
	nav, _ := newTestNavigator(true)

	result, err := nav.ChangeTab(store.TabHome, false)
	if err != nil {
		t.Fatalf("ChangeTab returned error: %v", err)
	}
	if result != nil {
		t.Errorf("expected no-op transition, got %+v", result)
	}
}

func TestDeclinedConfirmationAbortsEverything(t *testing.T) {
	nav, wf := newTestNavigator(false)

	if _, err := nav.ChangeTab(store.TabCreate, false); err != nil {
		t.Fatalf("entering create: %v", err)
	}
	wf.SetStep(store.StepCreate)
	wf.AddMedia(store.MediaItem{ID: "a", Type: "photo"})

	_, err := nav.ChangeTab(store.TabHome, false)
	if !errors.Is(err, ErrConfirmationDeclined) {
		t.Fatalf("ChangeTab = %v, want ErrConfirmationDeclined", err)
	}

	tabs := nav.Tabs()
	if tabs.ActiveTab != store.TabCreate {
		t.Errorf("activeTab = %q, want create (transition must abort)", tabs.ActiveTab)
	}
	if len(wf.Snapshot().Media) != 1 {
		t.Errorf("workflow state must survive a declined confirmation")
	}
}

func TestForcedChangeSkipsConfirmation(t *testing.T) {
	nav, wf := newTestNavigator(false)

	_, _ = nav.ChangeTab(store.TabCreate, false)
	wf.SetStep(store.StepCreate)
	wf.AddMedia(store.MediaItem{ID: "a", Type: "photo"})

	result, err := nav.ChangeTab(store.TabHome, true)
	if err != nil {
		t.Fatalf("forced ChangeTab: %v", err)
	}
	if result == nil || result.To != store.TabHome {
		t.Fatalf("transition = %+v", result)
	}
	if !result.WorkflowReset {
		t.Errorf("leaving create to home must reset the workflow")
	}
	if wf.HasUnsavedWork() {
		t.Errorf("workflow still has unsaved work after reset")
	}
}

func TestLeavingCreateToRecordPreservesDraft(t *testing.T) {
	nav, wf := newTestNavigator(true)

	_, _ = nav.ChangeTab(store.TabCreate, false)
	wf.SetStep(store.StepCreate)
	wf.AddMedia(store.MediaItem{ID: "a", Type: "photo"})

	result, err := nav.ChangeTab(store.TabRecord, false)
	if err != nil {
		t.Fatalf("ChangeTab(record): %v", err)
	}
	if result.WorkflowReset {
		t.Errorf("create -> record must preserve the draft")
	}
	if result.RecorderToken == "" {
		t.Errorf("entering record must issue a fresh-mount token")
	}
	if len(wf.Snapshot().Media) != 1 {
		t.Errorf("draft lost on create -> record")
	}
}

func TestVaultEntryRecordsReturnTarget(t *testing.T) {
	nav, _ := newTestNavigator(true)

	_, _ = nav.ChangeTab(store.TabCreate, false)
	if _, err := nav.ChangeTab(store.TabVault, false); err != nil {
		t.Fatalf("ChangeTab(vault): %v", err)
	}

	if got := nav.VaultReturnTab(); got != store.TabCreate {
		t.Errorf("VaultReturnTab = %q, want create", got)
	}
}

func TestVaultEntryFromNonCreateRebuildsImportedSet(t *testing.T) {
	nav, wf := newTestNavigator(true)

	wf.SetMedia([]store.MediaItem{{ID: "a", VaultID: "v1", FromVault: true, Type: "photo"}})
	wf.SetImportedVaultMediaIDs(map[string]struct{}{"stale": {}})

	if _, err := nav.ChangeTab(store.TabVault, false); err != nil {
		t.Fatalf("ChangeTab(vault): %v", err)
	}

	imported := wf.Snapshot().ImportedVaultMediaIDs
	if _, ok := imported["stale"]; ok {
		t.Errorf("stale key survived vault entry from non-create tab: %v", imported)
	}
	if _, ok := imported["v1"]; !ok {
		t.Errorf("rebuild on vault entry missed live vault item: %v", imported)
	}
}

func TestVaultEntryFromCreateKeepsCallerSet(t *testing.T) {
	nav, wf := newTestNavigator(true)

	_, _ = nav.ChangeTab(store.TabCreate, false)
	wf.SetImportedVaultMediaIDs(map[string]struct{}{"pending": {}})

	if _, err := nav.ChangeTab(store.TabVault, false); err != nil {
		t.Fatalf("ChangeTab(vault): %v", err)
	}

	imported := wf.Snapshot().ImportedVaultMediaIDs
	if _, ok := imported["pending"]; !ok {
		t.Errorf("create -> vault must not rebuild the caller's set: %v", imported)
	}
}

func TestVaultReturnFallsBackToHome(t *testing.T) {
	nav, _ := newTestNavigator(true)
	if got := nav.VaultReturnTab(); got != store.TabHome {
		t.Errorf("VaultReturnTab = %q, want home fallback", got)
	}
}

func TestSettingsSubsectionRouting(t *testing.T) {
	nav, _ := newTestNavigator(true)

	result, err := nav.ChangeTab("settings-privacy", false)
	if err != nil {
		t.Fatalf("ChangeTab(settings-privacy): %v", err)
	}
	if result.To != store.TabSettings || result.SettingsSection != "privacy" {
		t.Errorf("transition = %+v, want settings/privacy", result)
	}

	tabs := nav.Tabs()
	if tabs.ActiveTab != store.TabSettings || tabs.SettingsSection != "privacy" {
		t.Errorf("tab state = %+v", tabs)
	}

	// Same tab, different section still transitions.
	result, err = nav.ChangeTab("settings-account", false)
	if err != nil || result == nil || result.SettingsSection != "account" {
		t.Errorf("section change = %+v, %v", result, err)
	}
}
