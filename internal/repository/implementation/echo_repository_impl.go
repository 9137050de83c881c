package implementation

import (
	"context"
	"errors"

	"eras-capsule-be/internal/model"
	"eras-capsule-be/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EchoRepositoryImpl struct {
	db *gorm.DB
}

func NewEchoRepository(db *gorm.DB) repository.EchoRepository {
	return &EchoRepositoryImpl{db: db}
}

func (r *EchoRepositoryImpl) Create(ctx context.Context, echo *model.Echo) error {
	return r.db.WithContext(ctx).Create(echo).Error
}

func (r *EchoRepositoryImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]model.Echo, int64, error) {
	var echoes []model.Echo
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Echo{}).Where("owner_id = ?", ownerID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&echoes).Error

	return echoes, total, err
}

func (r *EchoRepositoryImpl) ListPendingMigration(ctx context.Context, ownerID uuid.UUID) ([]model.Echo, error) {
	var echoes []model.Echo
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND (read = ? OR seen = ?)", ownerID, false, false).
		Order("created_at ASC").
		Find(&echoes).Error
	return echoes, err
}

func (r *EchoRepositoryImpl) MarkSeen(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.Echo{}).
		Where("owner_id = ? AND id IN ?", ownerID, ids).
		Update("seen", true).Error
}

func (r *EchoRepositoryImpl) MarkRead(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&model.Echo{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Updates(map[string]interface{}{"read": true, "seen": true})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("echo not found")
	}
	return nil
}
