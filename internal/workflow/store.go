package workflow

import (
	"sync"

	"eras-capsule-be/pkg/store"
)

// Store owns the WorkflowState of one session. All mutation goes through
// its methods, under one lock, so the imported-vault-id set can never be
// observed out of lockstep with the media slice.
type Store struct {
	mu    sync.Mutex
	state store.WorkflowState
}

func NewStore() *Store {
	s := &Store{}
	s.state = defaultState()
	return s
}

func defaultState() store.WorkflowState {
	return store.WorkflowState{
		Media:                 []store.MediaItem{},
		Step:                  store.StepNone,
		Theme:                 nil,
		ThemeMetadata:         map[string]interface{}{},
		ImportedVaultMediaIDs: map[string]struct{}{},
		MediaReplacementMap:   []string{},
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() store.WorkflowState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyStateLocked()
}

func (s *Store) copyStateLocked() store.WorkflowState {
	cp := s.state
	cp.Media = append([]store.MediaItem{}, s.state.Media...)
	cp.ImportedVaultMediaIDs = make(map[string]struct{}, len(s.state.ImportedVaultMediaIDs))
	for k := range s.state.ImportedVaultMediaIDs {
		cp.ImportedVaultMediaIDs[k] = struct{}{}
	}
	cp.MediaReplacementMap = append([]string{}, s.state.MediaReplacementMap...)
	cp.ThemeMetadata = make(map[string]interface{}, len(s.state.ThemeMetadata))
	for k, v := range s.state.ThemeMetadata {
		cp.ThemeMetadata[k] = v
	}
	return cp
}

// deriveImportedLocked recomputes the tracking set from the media slice.
// Runs after every media mutation so the §invariant holds at each settle.
func (s *Store) deriveImportedLocked() {
	derived := make(map[string]struct{})
	for _, m := range s.state.Media {
		if m.FromVault {
			derived[m.VaultKey()] = struct{}{}
		}
	}
	s.state.ImportedVaultMediaIDs = derived
}

func (s *Store) SetMedia(items []store.MediaItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Media = append([]store.MediaItem{}, items...)
	s.deriveImportedLocked()
}

// AddMedia appends items, de-duplicated by id against the current slice.
func (s *Store) AddMedia(items ...store.MediaItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing := make(map[string]struct{}, len(s.state.Media))
	for _, m := range s.state.Media {
		existing[m.ID] = struct{}{}
	}
	for _, item := range items {
		if _, dup := existing[item.ID]; dup {
			continue
		}
		existing[item.ID] = struct{}{}
		s.state.Media = append(s.state.Media, item)
	}
	s.deriveImportedLocked()
}

// RemoveMedia removes one item by id. Vault-sourced items also lose their
// tracking-set entry; fresh items leave the set untouched.
func (s *Store) RemoveMedia(id string) (store.MediaItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.state.Media {
		if m.ID != id {
			continue
		}
		s.state.Media = append(s.state.Media[:i], s.state.Media[i+1:]...)
		if m.FromVault {
			delete(s.state.ImportedVaultMediaIDs, m.VaultKey())
		}
		return m, true
	}
	return store.MediaItem{}, false
}

// UncheckVault removes every media entry imported under the given vault key
// and the key itself in a single locked operation, so no caller can observe
// one without the other.
func (s *Store) UncheckVault(vaultKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.state.Media[:0]
	removed := false
	for _, m := range s.state.Media {
		if m.FromVault && m.VaultKey() == vaultKey {
			removed = true
			continue
		}
		kept = append(kept, m)
	}
	if !removed {
		return false
	}
	s.state.Media = kept
	delete(s.state.ImportedVaultMediaIDs, vaultKey)
	return true
}

// ApplyEnhancement swaps an original media item for its enhanced version.
// A vault original is no longer "imported as-is", so its key leaves the
// tracking set; the original id is recorded in the replacement map so the
// creation form drops it when assembling the final payload.
func (s *Store) ApplyEnhancement(originalID string, enhanced store.MediaItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, m := range s.state.Media {
		if m.ID != originalID {
			continue
		}
		enhanced.OriginalID = originalID
		s.state.Media[i] = enhanced
		if m.FromVault {
			delete(s.state.ImportedVaultMediaIDs, m.VaultKey())
		}
		s.state.MediaReplacementMap = append(s.state.MediaReplacementMap, originalID)
		return true
	}
	return false
}

func (s *Store) SetStep(step string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Step = step
}

func (s *Store) SetTheme(theme *string, metadata map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Theme = theme
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	s.state.ThemeMetadata = metadata
}

// SetImportedVaultMediaIDs replaces the tracking set wholesale. Callers are
// responsible for passing a set derived from the current media slice.
func (s *Store) SetImportedVaultMediaIDs(ids map[string]struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make(map[string]struct{}, len(ids))
	for k := range ids {
		cp[k] = struct{}{}
	}
	s.state.ImportedVaultMediaIDs = cp
}

func (s *Store) SetMediaReplacementMap(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.MediaReplacementMap = append([]string{}, ids...)
}

// RebuildImportedSet re-derives the tracking set from scratch by scanning
// the current media slice. Used when entering the vault from a tab whose
// flow did not maintain the set.
func (s *Store) RebuildImportedSet() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deriveImportedLocked()
}

// HasUnsavedWork reports whether leaving the creation flow would discard
// anything the user produced.
func (s *Store) HasUnsavedWork() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.Media) > 0 || s.state.Theme != nil || s.state.Step == store.StepCreate
}

// Reset clears every field back to defaults. Idempotent and total: no field
// retains stale data, including the replacement map and imported-id set.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = defaultState()
}
