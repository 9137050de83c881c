package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"eras-capsule-be/internal/model"
	"eras-capsule-be/internal/pkg/logger"
	"eras-capsule-be/internal/repository/unitofwork"
	"eras-capsule-be/pkg/events"
	pktNats "eras-capsule-be/pkg/nats"

	"github.com/google/uuid"
)

var ErrTitleNotEarned = errors.New("title has not been earned")

type IAchievementService interface {
	Start()
	ListUserAchievements(ctx context.Context, userID uuid.UUID) ([]model.UserAchievement, error)
	ListUserTitles(ctx context.Context, userID uuid.UUID) ([]model.UserTitle, error)
	SelectTitle(ctx context.Context, userID uuid.UUID, title *string) error
}

// achievementService counts domain events per user and unlocks achievements
// when a counter crosses its threshold. Unlocks may grant a display title
// and always raise ACHIEVEMENT_UNLOCKED.
type achievementService struct {
	uowFactory     unitofwork.RepositoryFactory
	subscriber     *pktNats.Subscriber
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewAchievementService(
	uowFactory unitofwork.RepositoryFactory,
	subscriber *pktNats.Subscriber,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IAchievementService {
	return &achievementService{
		uowFactory:     uowFactory,
		subscriber:     subscriber,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *achievementService) Start() {
	err := s.subscriber.Subscribe("events.>", "achievement-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("AchievementService", "Failed to start achievement subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("AchievementService", "Achievement tracker started, listening to events.>", nil)
}

func (s *achievementService) handleEvent(ctx context.Context, event events.Event) error {
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	// Unlock events never feed back into counters.
	if typeCode == events.TypeAchievementUnlocked {
		return nil
	}

	uidStr, ok := event.Payload()["user_id"].(string)
	if !ok {
		return nil
	}
	userID, err := uuid.Parse(uidStr)
	if err != nil {
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	count, err := uow.AchievementRepository().IncrementCounter(ctx, userID, typeCode)
	if err != nil {
		s.logger.Error("AchievementService", "Failed to increment counter", map[string]interface{}{"user_id": userID, "event": typeCode, "error": err})
		return err // NATS redelivers
	}

	candidates, err := uow.AchievementRepository().ListActiveByTrigger(ctx, typeCode)
	if err != nil {
		return err
	}

	for _, achievement := range candidates {
		if count < achievement.Threshold {
			continue
		}

		unlocked, err := uow.AchievementRepository().HasAchievement(ctx, userID, achievement.Code)
		if err != nil || unlocked {
			continue
		}

		if err := s.unlock(ctx, uow, userID, &achievement); err != nil {
			s.logger.Error("AchievementService", "Failed to unlock achievement", map[string]interface{}{"user_id": userID, "code": achievement.Code, "error": err})
		}
	}

	return nil
}

func (s *achievementService) unlock(ctx context.Context, uow unitofwork.UnitOfWork, userID uuid.UUID, achievement *model.Achievement) error {
	ua := &model.UserAchievement{
		ID:              uuid.New(),
		UserID:          userID,
		AchievementCode: achievement.Code,
		UnlockedAt:      time.Now(),
	}
	if err := uow.AchievementRepository().CreateUserAchievement(ctx, ua); err != nil {
		return err
	}

	if achievement.TitleReward != nil {
		title := &model.UserTitle{
			ID:       uuid.New(),
			UserID:   userID,
			Title:    *achievement.TitleReward,
			EarnedAt: time.Now(),
		}
		if err := uow.AchievementRepository().CreateUserTitle(ctx, title); err != nil {
			s.logger.Warn("AchievementService", "Failed to grant title", map[string]interface{}{"user_id": userID, "title": *achievement.TitleReward, "error": err.Error()})
		}
	}

	s.logger.Info("AchievementService", "Achievement unlocked", map[string]interface{}{"user_id": userID, "code": achievement.Code})

	if s.eventPublisher != nil {
		event := events.BaseEvent{
			Type: events.TypeAchievementUnlocked,
			Data: map[string]interface{}{
				"user_id":          userID.String(),
				"achievement_code": achievement.Code,
				"achievement_name": achievement.Name,
				"title_reward":     achievement.TitleReward,
			},
			OccurredAt: time.Now(),
		}
		_ = s.eventPublisher.Publish(ctx, event)
	}

	return nil
}

func (s *achievementService) ListUserAchievements(ctx context.Context, userID uuid.UUID) ([]model.UserAchievement, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.AchievementRepository().ListUserAchievements(ctx, userID)
}

func (s *achievementService) ListUserTitles(ctx context.Context, userID uuid.UUID) ([]model.UserTitle, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.AchievementRepository().ListUserTitles(ctx, userID)
}

// SelectTitle sets (or clears) the user's displayed title. Only earned
// titles may be selected.
func (s *achievementService) SelectTitle(ctx context.Context, userID uuid.UUID, title *string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if title != nil {
		titles, err := uow.AchievementRepository().ListUserTitles(ctx, userID)
		if err != nil {
			return err
		}
		earned := false
		for _, t := range titles {
			if t.Title == *title {
				earned = true
				break
			}
		}
		if !earned {
			return ErrTitleNotEarned
		}
	}

	return uow.UserRepository().UpdateSelectedTitle(ctx, userID, title)
}
