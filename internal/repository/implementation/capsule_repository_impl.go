package implementation

import (
	"context"
	"errors"
	"time"

	"eras-capsule-be/internal/model"
	"eras-capsule-be/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CapsuleRepositoryImpl struct {
	db *gorm.DB
}

func NewCapsuleRepository(db *gorm.DB) repository.CapsuleRepository {
	return &CapsuleRepositoryImpl{db: db}
}

func (r *CapsuleRepositoryImpl) Create(ctx context.Context, capsule *model.Capsule) error {
	// Associations (media, recipients) are created in the same insert.
	return r.db.WithContext(ctx).Create(capsule).Error
}

func (r *CapsuleRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*model.Capsule, error) {
	var capsule model.Capsule
	err := r.db.WithContext(ctx).
		Preload("Media").
		Preload("Recipients").
		Where("id = ?", id).
		First(&capsule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &capsule, nil
}

func (r *CapsuleRepositoryImpl) ListBySender(ctx context.Context, senderID uuid.UUID, limit, offset int) ([]model.Capsule, int64, error) {
	var capsules []model.Capsule
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Capsule{}).Where("sender_id = ?", senderID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Media").
		Preload("Recipients").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&capsules).Error

	return capsules, total, err
}

func (r *CapsuleRepositoryImpl) ListDeliveredForRecipient(ctx context.Context, userID uuid.UUID) ([]model.Capsule, error) {
	var capsules []model.Capsule
	err := r.db.WithContext(ctx).
		Joins("JOIN capsule_recipients ON capsule_recipients.capsule_id = capsules.id").
		Where("capsule_recipients.recipient_user_id = ? AND capsules.status = ?", userID, model.CapsuleStatusDelivered).
		Preload("Media").
		Order("capsules.delivered_at DESC").
		Find(&capsules).Error
	return capsules, err
}

func (r *CapsuleRepositoryImpl) ListDue(ctx context.Context, now time.Time, limit int) ([]model.Capsule, error) {
	var capsules []model.Capsule
	err := r.db.WithContext(ctx).
		Where("status = ? AND deliver_at <= ?", model.CapsuleStatusSealed, now).
		Preload("Recipients").
		Order("deliver_at ASC").
		Limit(limit).
		Find(&capsules).Error
	return capsules, err
}

func (r *CapsuleRepositoryImpl) MarkDelivered(ctx context.Context, id uuid.UUID, deliveredAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.Capsule{}).
		Where("id = ? AND status = ?", id, model.CapsuleStatusSealed).
		Updates(map[string]interface{}{
			"status":       model.CapsuleStatusDelivered,
			"delivered_at": deliveredAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Another sweep got there first. Not an error.
		return nil
	}
	return nil
}

func (r *CapsuleRepositoryImpl) MarkRecipientNotified(ctx context.Context, recipientID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.CapsuleRecipient{}).
		Where("id = ?", recipientID).
		Update("notified_at", at).Error
}

func (r *CapsuleRepositoryImpl) MarkRecipientOpened(ctx context.Context, capsuleID uuid.UUID, userID uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.CapsuleRecipient{}).
		Where("capsule_id = ? AND recipient_user_id = ? AND opened_at IS NULL", capsuleID, userID).
		Update("opened_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("recipient not found or already opened")
	}
	return nil
}
