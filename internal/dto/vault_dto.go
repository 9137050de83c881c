package dto

import (
	"time"

	"github.com/google/uuid"
)

type VaultMediaResponse struct {
	Id        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	FileName  string    `json:"file_name"`
	URL       string    `json:"url"`
	MimeType  string    `json:"mime_type,omitempty"`
	SizeBytes int64     `json:"size_bytes"`
	Processed bool      `json:"processed"`
	Favorite  bool      `json:"favorite"`
	CreatedAt time.Time `json:"created_at"`
}

type VaultListResponse struct {
	Media []VaultMediaResponse `json:"media"`
	Total int64                `json:"total"`
}

type SetFavoriteRequest struct {
	Favorite bool `json:"favorite"`
}
