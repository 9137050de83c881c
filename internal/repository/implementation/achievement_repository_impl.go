package implementation

import (
	"context"
	"errors"
	"time"

	"eras-capsule-be/internal/model"
	"eras-capsule-be/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepositoryImpl struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) repository.AchievementRepository {
	return &AchievementRepositoryImpl{db: db}
}

func (r *AchievementRepositoryImpl) ListActiveByTrigger(ctx context.Context, triggerEvent string) ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.db.WithContext(ctx).
		Where("trigger_event = ? AND is_active = ?", triggerEvent, true).
		Find(&achievements).Error
	return achievements, err
}

func (r *AchievementRepositoryImpl) IncrementCounter(ctx context.Context, userID uuid.UUID, eventType string) (int, error) {
	counter := model.EventCounter{
		UserID:    userID,
		EventType: eventType,
		Count:     1,
		UpdatedAt: time.Now(),
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "event_type"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count":      gorm.Expr("event_counters.count + 1"),
			"updated_at": time.Now(),
		}),
	}).Create(&counter).Error
	if err != nil {
		return 0, err
	}

	// Upsert doesn't scan the updated value back; read the fresh count.
	var fresh model.EventCounter
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND event_type = ?", userID, eventType).
		First(&fresh).Error; err != nil {
		return 0, err
	}
	return fresh.Count, nil
}

func (r *AchievementRepositoryImpl) HasAchievement(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.UserAchievement{}).
		Where("user_id = ? AND achievement_code = ?", userID, code).
		Count(&count).Error
	return count > 0, err
}

func (r *AchievementRepositoryImpl) CreateUserAchievement(ctx context.Context, ua *model.UserAchievement) error {
	err := r.db.WithContext(ctx).Create(ua).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Raced with another unlock of the same achievement. Fine.
		return nil
	}
	return err
}

func (r *AchievementRepositoryImpl) CreateUserTitle(ctx context.Context, title *model.UserTitle) error {
	err := r.db.WithContext(ctx).Create(title).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

func (r *AchievementRepositoryImpl) ListUserAchievements(ctx context.Context, userID uuid.UUID) ([]model.UserAchievement, error) {
	var achievements []model.UserAchievement
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("unlocked_at DESC").
		Find(&achievements).Error
	return achievements, err
}

func (r *AchievementRepositoryImpl) ListUserTitles(ctx context.Context, userID uuid.UUID) ([]model.UserTitle, error) {
	var titles []model.UserTitle
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&titles).Error
	return titles, err
}
