package model

import (
	"time"

	"github.com/google/uuid"
)

// VaultMedia is the durable media library a user can import from when
// composing a capsule. Checksum/mime/size are filled asynchronously by the
// media pipeline worker; Processed flips to true when it finishes.
type VaultMedia struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_vault_media_user" json:"user_id"`
	Type        string    `gorm:"type:varchar(10);not null" json:"type"` // photo | video | audio
	FileName    string    `gorm:"type:varchar(255);not null" json:"file_name"`
	StoragePath string    `gorm:"type:varchar(500);not null" json:"storage_path"`
	MimeType    string    `gorm:"type:varchar(100)" json:"mime_type,omitempty"`
	SizeBytes   int64     `json:"size_bytes"`
	Checksum    string    `gorm:"type:varchar(64)" json:"checksum,omitempty"`
	Processed   bool      `gorm:"default:false" json:"processed"`
	Favorite    bool      `gorm:"default:false" json:"favorite"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
