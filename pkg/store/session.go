package store

// MediaItem is a single piece of media attached to the in-progress capsule.
// Items either come fresh from the recorder/uploader or are imported from
// the durable vault (FromVault=true, VaultID set).
type MediaItem struct {
	ID         string `json:"id"`
	VaultID    string `json:"vault_id,omitempty"`
	FromVault  bool   `json:"from_vault"`
	URL        string `json:"url,omitempty"`
	Type       string `json:"type"` // "photo" | "video" | "audio"
	OriginalID string `json:"original_id,omitempty"`
}

// VaultKey returns the identity used for vault selection tracking.
// Imported items are keyed by their vault id, falling back to the item id.
func (m MediaItem) VaultKey() string {
	if m.VaultID != "" {
		return m.VaultID
	}
	return m.ID
}

// WorkflowState is the in-progress capsule draft for one session.
// Mutated only through the workflow.Store setters.
type WorkflowState struct {
	Media                 []MediaItem            `json:"media"`
	Step                  string                 `json:"step"` // StepNone | StepCreate
	Theme                 *string                `json:"theme"`
	ThemeMetadata         map[string]interface{} `json:"theme_metadata"`
	ImportedVaultMediaIDs map[string]struct{}    `json:"imported_vault_media_ids"`
	MediaReplacementMap   []string               `json:"media_replacement_map"`
}

// TabState tracks where the user is and where they came from.
// LastActiveTab is the previous ActiveTab at the moment of the last
// successful transition; the navigator uses it for preserve-vs-reset policy.
type TabState struct {
	ActiveTab       string `json:"active_tab"`
	LastActiveTab   string `json:"last_active_tab"`
	SettingsSection string `json:"settings_section,omitempty"`
	VaultReturnTab  string `json:"vault_return_tab,omitempty"`
}

const (
	StepNone   = "none"
	StepCreate = "create"

	TabHome     = "home"
	TabCreate   = "create"
	TabRecord   = "record"
	TabVault    = "vault"
	TabSettings = "settings"
)
