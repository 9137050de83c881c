package implementation

import (
	"context"
	"errors"

	"eras-capsule-be/internal/model"
	"eras-capsule-be/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VaultMediaRepositoryImpl struct {
	db *gorm.DB
}

func NewVaultMediaRepository(db *gorm.DB) repository.VaultMediaRepository {
	return &VaultMediaRepositoryImpl{db: db}
}

func (r *VaultMediaRepositoryImpl) Create(ctx context.Context, media *model.VaultMedia) error {
	return r.db.WithContext(ctx).Create(media).Error
}

func (r *VaultMediaRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*model.VaultMedia, error) {
	var media model.VaultMedia
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&media).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &media, nil
}

func (r *VaultMediaRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.VaultMedia, int64, error) {
	var items []model.VaultMedia
	var total int64

	db := r.db.WithContext(ctx).Model(&model.VaultMedia{}).Where("user_id = ?", userID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error

	return items, total, err
}

func (r *VaultMediaRepositoryImpl) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.VaultMedia{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("vault media not found")
	}
	return nil
}

func (r *VaultMediaRepositoryImpl) SetFavorite(ctx context.Context, userID, id uuid.UUID, favorite bool) error {
	return r.db.WithContext(ctx).
		Model(&model.VaultMedia{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("favorite", favorite).Error
}

func (r *VaultMediaRepositoryImpl) UpdateProcessingResult(ctx context.Context, id uuid.UUID, mimeType, checksum string, sizeBytes int64) error {
	return r.db.WithContext(ctx).
		Model(&model.VaultMedia{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"mime_type":  mimeType,
			"checksum":   checksum,
			"size_bytes": sizeBytes,
			"processed":  true,
		}).Error
}
