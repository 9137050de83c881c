package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CapsuleStatus string

const (
	CapsuleStatusDraft     CapsuleStatus = "draft"
	CapsuleStatusSealed    CapsuleStatus = "sealed"
	CapsuleStatusDelivered CapsuleStatus = "delivered"
)

// Capsule is a user-authored bundle of media/text scheduled for future
// delivery. Drafts live in the workflow session; a row is only written when
// the capsule is sealed.
type Capsule struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_capsules_sender" json:"sender_id"`
	Title         string         `gorm:"type:varchar(200);not null" json:"title"`
	Message       string         `gorm:"type:text" json:"message"`
	Theme         *string        `gorm:"type:varchar(100)" json:"theme,omitempty"`
	ThemeMetadata datatypes.JSON `gorm:"type:jsonb" json:"theme_metadata,omitempty"`
	Status        CapsuleStatus  `gorm:"type:varchar(20);not null;default:'sealed';index:idx_capsules_due,priority:1" json:"status"`
	SealedAt      time.Time      `json:"sealed_at"`
	DeliverAt     time.Time      `gorm:"not null;index:idx_capsules_due,priority:2" json:"deliver_at"`
	DeliveredAt   *time.Time     `json:"delivered_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`

	Media      []CapsuleMedia     `gorm:"foreignKey:CapsuleID;constraint:OnDelete:CASCADE" json:"media,omitempty"`
	Recipients []CapsuleRecipient `gorm:"foreignKey:CapsuleID;constraint:OnDelete:CASCADE" json:"recipients,omitempty"`
}

// CapsuleMedia is a media row frozen into a sealed capsule. VaultMediaID is
// set when the item was imported from the vault rather than captured fresh.
type CapsuleMedia struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CapsuleID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"capsule_id"`
	VaultMediaID *uuid.UUID `gorm:"type:uuid" json:"vault_media_id,omitempty"`
	Type         string     `gorm:"type:varchar(10);not null" json:"type"` // photo | video | audio
	StoragePath  string     `gorm:"type:varchar(500);not null" json:"storage_path"`
	Position     int        `json:"position"`
	CreatedAt    time.Time  `json:"created_at"`
}

// CapsuleRecipient is one delivery target. RecipientUserID is resolved when
// the email belongs to a registered account.
type CapsuleRecipient struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CapsuleID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"capsule_id"`
	Email           string     `gorm:"type:varchar(255);not null" json:"email"`
	RecipientUserID *uuid.UUID `gorm:"type:uuid;index" json:"recipient_user_id,omitempty"`
	NotifiedAt      *time.Time `json:"notified_at,omitempty"`
	OpenedAt        *time.Time `json:"opened_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}
