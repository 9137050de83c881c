package repository

import (
	"context"

	"eras-capsule-be/internal/model"

	"github.com/google/uuid"
)

type AchievementRepository interface {
	ListActiveByTrigger(ctx context.Context, triggerEvent string) ([]model.Achievement, error)
	IncrementCounter(ctx context.Context, userID uuid.UUID, eventType string) (int, error)
	HasAchievement(ctx context.Context, userID uuid.UUID, code string) (bool, error)
	CreateUserAchievement(ctx context.Context, ua *model.UserAchievement) error
	CreateUserTitle(ctx context.Context, title *model.UserTitle) error
	ListUserAchievements(ctx context.Context, userID uuid.UUID) ([]model.UserAchievement, error)
	ListUserTitles(ctx context.Context, userID uuid.UUID) ([]model.UserTitle, error)
}
