package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Achievement is a registry row: unlock when the user has produced
// Threshold events of TriggerEvent.
type Achievement struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Code         string         `gorm:"type:varchar(50);unique;not null" json:"code"`
	Name         string         `gorm:"type:varchar(100);not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	TriggerEvent string         `gorm:"type:varchar(50);not null;index" json:"trigger_event"`
	Threshold    int            `gorm:"not null;default:1" json:"threshold"`
	TitleReward  *string        `gorm:"type:varchar(100)" json:"title_reward,omitempty"`
	Metadata     datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
}

type UserAchievement struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_achievement,priority:1" json:"user_id"`
	AchievementCode string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_user_achievement,priority:2" json:"achievement_code"`
	UnlockedAt      time.Time `json:"unlocked_at"`
}

// UserTitle is an earned display title. Users pick one as User.SelectedTitle.
type UserTitle struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_title,priority:1" json:"user_id"`
	Title    string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_user_title,priority:2" json:"title"`
	EarnedAt time.Time `json:"earned_at"`
}

// EventCounter tracks how many times a user has produced a given event,
// maintained by the achievement tracker.
type EventCounter struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	EventType string    `gorm:"type:varchar(50);primaryKey" json:"event_type"`
	Count     int       `gorm:"not null;default:0" json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}
