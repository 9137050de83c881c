package dto

import (
	"time"

	"github.com/google/uuid"
)

// SealCapsuleRequest freezes the session's draft into a durable capsule.
// Media comes from the workflow state, not the request body.
type SealCapsuleRequest struct {
	Title      string    `json:"title" validate:"required,min=1,max=200"`
	Message    string    `json:"message"`
	DeliverAt  time.Time `json:"deliver_at" validate:"required"`
	Recipients []string  `json:"recipients" validate:"required,min=1,dive,email"`
}

type CapsuleMediaDTO struct {
	Id           uuid.UUID  `json:"id"`
	VaultMediaId *uuid.UUID `json:"vault_media_id,omitempty"`
	Type         string     `json:"type"`
	StoragePath  string     `json:"storage_path"`
	Position     int        `json:"position"`
}

type CapsuleRecipientDTO struct {
	Id       uuid.UUID  `json:"id"`
	Email    string     `json:"email"`
	OpenedAt *time.Time `json:"opened_at,omitempty"`
}

type CapsuleResponse struct {
	Id          uuid.UUID             `json:"id"`
	Title       string                `json:"title"`
	Message     string                `json:"message,omitempty"`
	Theme       *string               `json:"theme,omitempty"`
	Status      string                `json:"status"`
	SealedAt    time.Time             `json:"sealed_at"`
	DeliverAt   time.Time             `json:"deliver_at"`
	DeliveredAt *time.Time            `json:"delivered_at,omitempty"`
	Media       []CapsuleMediaDTO     `json:"media,omitempty"`
	Recipients  []CapsuleRecipientDTO `json:"recipients,omitempty"`
}

type CapsuleListResponse struct {
	Capsules []CapsuleResponse `json:"capsules"`
	Total    int64             `json:"total"`
}

type CreateEchoRequest struct {
	CapsuleId   uuid.UUID `json:"capsule_id" validate:"required"`
	SenderName  string    `json:"sender_name" validate:"required,min=1,max=100"`
	EchoType    string    `json:"echo_type" validate:"required,oneof=reacted commented"`
	EchoContent string    `json:"echo_content" validate:"max=2000"`
}

type EchoResponse struct {
	Id           uuid.UUID `json:"id"`
	CapsuleId    uuid.UUID `json:"capsule_id"`
	SenderName   string    `json:"sender_name"`
	EchoType     string    `json:"echo_type"`
	EchoContent  string    `json:"echo_content,omitempty"`
	CapsuleTitle string    `json:"capsule_title,omitempty"`
	Read         bool      `json:"read"`
	CreatedAt    time.Time `json:"created_at"`
}
