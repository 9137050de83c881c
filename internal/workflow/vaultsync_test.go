package workflow

import (
	"testing"

	"eras-capsule-be/pkg/store"
)

func newTestSync() (*VaultSync, *Store) {
	wf := NewStore()
	return NewVaultSync(wf, nopLogger{}), wf
}

func TestEnterVaultFromNonCreateRebuilds(t *testing.T) {
	sync, wf := newTestSync()

	// Simulate a flow that mutated media without maintaining the set.
	wf.SetImportedVaultMediaIDs(map[string]struct{}{"stale": {}})
	wf.AddMedia(store.MediaItem{ID: "a", FromVault: true, VaultID: "v1", Type: "photo"})

	sync.OnEnterVault(store.TabHome)

	keys := sync.ImportedKeys()
	if _, ok := keys["stale"]; ok {
		t.Errorf("stale key survived rebuild: %v", keys)
	}
	if _, ok := keys["v1"]; !ok {
		t.Errorf("rebuild missed live vault item: %v", keys)
	}
}

func TestEnterVaultFromCreateSkipsRebuild(t *testing.T) {
	sync, wf := newTestSync()

	// The create flow is authoritative; whatever it set stands.
	authoritative := map[string]struct{}{"v-create": {}}
	wf.SetImportedVaultMediaIDs(authoritative)

	sync.OnEnterVault(store.TabCreate)

	keys := sync.ImportedKeys()
	if _, ok := keys["v-create"]; !ok || len(keys) != 1 {
		t.Errorf("entering from create must not rebuild: %v", keys)
	}
}

func TestImportMarksItemsFromVault(t *testing.T) {
	sync, wf := newTestSync()

	sync.Import(store.MediaItem{ID: "a", VaultID: "v1", Type: "photo"})

	snap := wf.Snapshot()
	if len(snap.Media) != 1 || !snap.Media[0].FromVault {
		t.Fatalf("imported item not flagged FromVault: %+v", snap.Media)
	}
	if _, ok := snap.ImportedVaultMediaIDs["v1"]; !ok {
		t.Errorf("import did not track vault key")
	}
}

func TestUncheckUnknownKeyIsNoOp(t *testing.T) {
	sync, wf := newTestSync()
	sync.Import(store.MediaItem{ID: "a", VaultID: "v1", Type: "photo"})

	if sync.Uncheck("v-unknown") {
		t.Errorf("Uncheck of unknown key should report false")
	}
	if len(wf.Snapshot().Media) != 1 {
		t.Errorf("no-op uncheck must not touch media")
	}
}
