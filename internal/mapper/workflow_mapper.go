package mapper

import (
	"eras-capsule-be/internal/dto"
	"eras-capsule-be/internal/workflow"
	"eras-capsule-be/pkg/store"
)

func ToMediaItem(d dto.MediaItemDTO) store.MediaItem {
	return store.MediaItem{
		ID:         d.ID,
		VaultID:    d.VaultID,
		FromVault:  d.FromVault,
		URL:        d.URL,
		Type:       d.Type,
		OriginalID: d.OriginalID,
	}
}

func ToMediaItems(ds []dto.MediaItemDTO) []store.MediaItem {
	items := make([]store.MediaItem, 0, len(ds))
	for _, d := range ds {
		items = append(items, ToMediaItem(d))
	}
	return items
}

func ToMediaItemDTO(m store.MediaItem) dto.MediaItemDTO {
	return dto.MediaItemDTO{
		ID:         m.ID,
		VaultID:    m.VaultID,
		FromVault:  m.FromVault,
		URL:        m.URL,
		Type:       m.Type,
		OriginalID: m.OriginalID,
	}
}

// ToWorkflowStateResponse flattens the session's workflow and tab state into
// one snapshot payload.
func ToWorkflowStateResponse(state store.WorkflowState, tabs store.TabState) dto.WorkflowStateResponse {
	media := make([]dto.MediaItemDTO, 0, len(state.Media))
	for _, m := range state.Media {
		media = append(media, ToMediaItemDTO(m))
	}

	imported := make([]string, 0, len(state.ImportedVaultMediaIDs))
	for id := range state.ImportedVaultMediaIDs {
		imported = append(imported, id)
	}

	replacement := state.MediaReplacementMap
	if replacement == nil {
		replacement = []string{}
	}

	return dto.WorkflowStateResponse{
		Media:                 media,
		Step:                  state.Step,
		Theme:                 state.Theme,
		ThemeMetadata:         state.ThemeMetadata,
		ImportedVaultMediaIds: imported,
		MediaReplacementMap:   replacement,
		ActiveTab:             tabs.ActiveTab,
		LastActiveTab:         tabs.LastActiveTab,
		SettingsSection:       tabs.SettingsSection,
		VaultReturnTab:        tabs.VaultReturnTab,
	}
}

func ToChangeTabResponse(t *workflow.Transition) dto.ChangeTabResponse {
	if t == nil {
		return dto.ChangeTabResponse{}
	}
	return dto.ChangeTabResponse{
		ActiveTab:       t.To,
		LastActiveTab:   t.From,
		SettingsSection: t.SettingsSection,
		WorkflowReset:   t.WorkflowReset,
		RecorderToken:   t.RecorderToken,
		ScrollToTop:     t.ScrollToTop,
	}
}
