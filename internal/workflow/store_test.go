package workflow

import (
	"reflect"
	"testing"

	"eras-capsule-be/pkg/store"
)

// derivedImported is the reference definition of the tracking-set
// invariant: the vault keys of all vault-sourced items currently in media.
func derivedImported(media []store.MediaItem) map[string]struct{} {
	want := map[string]struct{}{}
	for _, m := range media {
		if m.FromVault {
			want[m.VaultKey()] = struct{}{}
		}
	}
	return want
}

func assertInvariant(t *testing.T, s *Store) {
	t.Helper()
	snap := s.Snapshot()
	want := derivedImported(snap.Media)
	if !reflect.DeepEqual(snap.ImportedVaultMediaIDs, want) {
		t.Fatalf("imported set out of lockstep: got %v, want %v", snap.ImportedVaultMediaIDs, want)
	}
}

func TestImportedSetInvariantAcrossMutations(t *testing.T) {
	s := NewStore()

	s.AddMedia(store.MediaItem{ID: "a", FromVault: true, VaultID: "v1", Type: "photo"})
	assertInvariant(t, s)

	s.AddMedia(
		store.MediaItem{ID: "b", Type: "video"},
		store.MediaItem{ID: "c", FromVault: true, Type: "photo"}, // no VaultID, keyed by own id
	)
	assertInvariant(t, s)

	s.RemoveMedia("a")
	assertInvariant(t, s)

	s.UncheckVault("c")
	assertInvariant(t, s)

	s.SetMedia([]store.MediaItem{
		{ID: "d", FromVault: true, VaultID: "v9", Type: "audio"},
		{ID: "e", Type: "photo"},
	})
	assertInvariant(t, s)

	s.ApplyEnhancement("d", store.MediaItem{ID: "d2", Type: "audio"})
	assertInvariant(t, s)
}

func TestAddMediaDeduplicatesByID(t *testing.T) {
	s := NewStore()

	s.AddMedia(store.MediaItem{ID: "a", Type: "photo"})
	s.AddMedia(store.MediaItem{ID: "a", Type: "photo"}, store.MediaItem{ID: "b", Type: "video"})

	snap := s.Snapshot()
	if len(snap.Media) != 2 {
		t.Errorf("media length = %d, want 2", len(snap.Media))
	}
}

func TestRemoveMediaLeavesSetUntouchedForFreshItems(t *testing.T) {
	s := NewStore()
	s.AddMedia(
		store.MediaItem{ID: "fresh", Type: "photo"},
		store.MediaItem{ID: "imported", FromVault: true, VaultID: "v1", Type: "photo"},
	)

	removed, ok := s.RemoveMedia("fresh")
	if !ok || removed.ID != "fresh" {
		t.Fatalf("RemoveMedia(fresh) = %v, %v", removed, ok)
	}

	snap := s.Snapshot()
	if _, present := snap.ImportedVaultMediaIDs["v1"]; !present {
		t.Errorf("removing a fresh item must not disturb vault tracking")
	}
}

func TestResetIsIdempotentAndTotal(t *testing.T) {
	s := NewStore()
	theme := "uncommon-horizon"
	s.SetStep(store.StepCreate)
	s.SetTheme(&theme, map[string]interface{}{"palette": "dusk"})
	s.AddMedia(store.MediaItem{ID: "a", FromVault: true, VaultID: "v1", Type: "photo"})
	s.SetMediaReplacementMap([]string{"x"})

	s.Reset()
	first := s.Snapshot()
	s.Reset()
	second := s.Snapshot()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("double Reset diverged: %+v vs %+v", first, second)
	}
	if len(first.Media) != 0 || first.Step != store.StepNone || first.Theme != nil {
		t.Errorf("Reset left stale data: %+v", first)
	}
	if len(first.ImportedVaultMediaIDs) != 0 || len(first.MediaReplacementMap) != 0 {
		t.Errorf("Reset left stale tracking state: %+v", first)
	}
}

func TestVaultRoundTrip(t *testing.T) {
	s := NewStore()

	s.AddMedia(store.MediaItem{ID: "a", FromVault: true, VaultID: "v1", Type: "photo"})
	snap := s.Snapshot()
	if _, ok := snap.ImportedVaultMediaIDs["v1"]; !ok || len(snap.ImportedVaultMediaIDs) != 1 {
		t.Fatalf("after import, set = %v, want {v1}", snap.ImportedVaultMediaIDs)
	}

	if !s.UncheckVault("v1") {
		t.Fatal("UncheckVault(v1) = false, want true")
	}
	snap = s.Snapshot()
	if len(snap.Media) != 0 {
		t.Errorf("media after uncheck = %v, want empty", snap.Media)
	}
	if len(snap.ImportedVaultMediaIDs) != 0 {
		t.Errorf("set after uncheck = %v, want empty", snap.ImportedVaultMediaIDs)
	}
}

func TestApplyEnhancementRecordsReplacement(t *testing.T) {
	s := NewStore()
	s.AddMedia(store.MediaItem{ID: "orig", FromVault: true, VaultID: "v1", Type: "photo"})

	if !s.ApplyEnhancement("orig", store.MediaItem{ID: "enh", Type: "photo"}) {
		t.Fatal("ApplyEnhancement = false, want true")
	}

	snap := s.Snapshot()
	if len(snap.Media) != 1 || snap.Media[0].ID != "enh" {
		t.Fatalf("media after enhancement = %v", snap.Media)
	}
	if snap.Media[0].OriginalID != "orig" {
		t.Errorf("enhanced OriginalID = %q, want orig", snap.Media[0].OriginalID)
	}
	if _, ok := snap.ImportedVaultMediaIDs["v1"]; ok {
		t.Errorf("vault key of enhanced original should leave the set")
	}
	if !reflect.DeepEqual(snap.MediaReplacementMap, []string{"orig"}) {
		t.Errorf("replacement map = %v, want [orig]", snap.MediaReplacementMap)
	}
}
