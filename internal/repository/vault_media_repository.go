package repository

import (
	"context"

	"eras-capsule-be/internal/model"

	"github.com/google/uuid"
)

type VaultMediaRepository interface {
	Create(ctx context.Context, media *model.VaultMedia) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.VaultMedia, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.VaultMedia, int64, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	SetFavorite(ctx context.Context, userID, id uuid.UUID, favorite bool) error

	// Pipeline result
	UpdateProcessingResult(ctx context.Context, id uuid.UUID, mimeType, checksum string, sizeBytes int64) error
}
