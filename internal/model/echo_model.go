package model

import (
	"time"

	"github.com/google/uuid"
)

type EchoType string

const (
	EchoTypeReacted   EchoType = "reacted"
	EchoTypeCommented EchoType = "commented"
)

// Echo is the legacy reaction/comment feed, kept alive while the unified
// notification feed takes over. New echoes still land here; the migration
// service folds unread ones into the unified feed at most once each.
type Echo struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CapsuleID    uuid.UUID `gorm:"type:uuid;not null;index" json:"capsule_id"`
	OwnerID      uuid.UUID `gorm:"type:uuid;not null;index:idx_echoes_owner" json:"owner_id"`
	SenderName   string    `gorm:"type:varchar(100);not null" json:"sender_name"`
	EchoType     EchoType  `gorm:"type:varchar(20);not null" json:"echo_type"`
	EchoContent  string    `gorm:"type:text" json:"echo_content"`
	CapsuleTitle string    `gorm:"type:varchar(200)" json:"capsule_title"`
	Read         bool      `gorm:"default:false" json:"read"`
	Seen         bool      `gorm:"default:false" json:"seen"`
	CreatedAt    time.Time `json:"created_at"`
}
