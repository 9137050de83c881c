package dto

// MediaItemDTO mirrors one workflow media entry over the wire.
type MediaItemDTO struct {
	ID         string `json:"id" validate:"required"`
	VaultID    string `json:"vault_id,omitempty"`
	FromVault  bool   `json:"from_vault"`
	URL        string `json:"url"`
	Type       string `json:"type" validate:"required,oneof=photo video audio"`
	OriginalID string `json:"original_id,omitempty"`
}

type WorkflowStateResponse struct {
	Media                []MediaItemDTO         `json:"media"`
	Step                 string                 `json:"step"`
	Theme                *string                `json:"theme,omitempty"`
	ThemeMetadata        map[string]interface{} `json:"theme_metadata,omitempty"`
	ImportedVaultMediaIds []string              `json:"imported_vault_media_ids"`
	MediaReplacementMap  []string               `json:"media_replacement_map"`
	ActiveTab            string                 `json:"active_tab"`
	LastActiveTab        string                 `json:"last_active_tab,omitempty"`
	SettingsSection      string                 `json:"settings_section,omitempty"`
	VaultReturnTab       string                 `json:"vault_return_tab,omitempty"`
}

type ChangeTabRequest struct {
	Target string `json:"target" validate:"required"`
	Force  bool   `json:"force"`
}

type ChangeTabResponse struct {
	ActiveTab       string `json:"active_tab"`
	LastActiveTab   string `json:"last_active_tab,omitempty"`
	SettingsSection string `json:"settings_section,omitempty"`
	WorkflowReset   bool   `json:"workflow_reset"`
	RecorderToken   string `json:"recorder_token,omitempty"`
	ScrollToTop     bool   `json:"scroll_to_top"`
}

type SetMediaRequest struct {
	Media []MediaItemDTO `json:"media" validate:"dive"`
}

type AddMediaRequest struct {
	Media []MediaItemDTO `json:"media" validate:"required,min=1,dive"`
}

type SetStepRequest struct {
	Step string `json:"step" validate:"oneof=none create"`
}

type SetThemeRequest struct {
	Theme         *string                `json:"theme"`
	ThemeMetadata map[string]interface{} `json:"theme_metadata"`
}

type VaultImportRequest struct {
	Media []MediaItemDTO `json:"media" validate:"required,min=1,dive"`
}

type VaultUncheckRequest struct {
	VaultKey string `json:"vault_key" validate:"required"`
}

type EnhancementCompleteRequest struct {
	OriginalID string       `json:"original_id" validate:"required"`
	Enhanced   MediaItemDTO `json:"enhanced" validate:"required"`
}
