package workflow

import (
	"eras-capsule-be/internal/pkg/logger"
	"eras-capsule-be/pkg/store"
)

// VaultSync keeps the vault's "already selected" checkmarks consistent with
// the live draft across its three entry points: vault browse, recorder
// capture, and enhancement completion.
type VaultSync struct {
	wf     *Store
	logger logger.ILogger
}

func NewVaultSync(wf *Store, log logger.ILogger) *VaultSync {
	return &VaultSync{wf: wf, logger: log}
}

// OnEnterVault runs when the vault tab becomes active. Entering from the
// create tab skips the rebuild: the create flow already maintains the
// authoritative set. Everything else rebuilds from scratch.
func (v *VaultSync) OnEnterVault(fromTab string) {
	if fromTab == store.TabCreate {
		return
	}
	v.wf.RebuildImportedSet()
	v.logger.Debug("VaultSync", "Rebuilt imported set on vault entry", map[string]interface{}{"from": fromTab})
}

// ImportedKeys reports which vault keys should show as checked.
func (v *VaultSync) ImportedKeys() map[string]struct{} {
	return v.wf.Snapshot().ImportedVaultMediaIDs
}

// Import adds vault items to the draft. The store re-derives the tracking
// set in the same operation.
func (v *VaultSync) Import(items ...store.MediaItem) {
	for i := range items {
		items[i].FromVault = true
	}
	v.wf.AddMedia(items...)
}

// Uncheck removes a vault selection from the draft. The media entries and
// the tracking key go together atomically.
func (v *VaultSync) Uncheck(vaultKey string) bool {
	return v.wf.UncheckVault(vaultKey)
}

// OnEnhancementComplete replaces a draft item with its enhanced version.
// For vault originals the tracking key is dropped and the original id is
// recorded in the replacement map.
func (v *VaultSync) OnEnhancementComplete(originalID string, enhanced store.MediaItem) bool {
	ok := v.wf.ApplyEnhancement(originalID, enhanced)
	if ok {
		v.logger.Info("VaultSync", "Enhancement applied", map[string]interface{}{
			"original_id": originalID,
			"enhanced_id": enhanced.ID,
		})
	}
	return ok
}
