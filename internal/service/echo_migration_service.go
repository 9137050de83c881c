package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"eras-capsule-be/internal/model"
	"eras-capsule-be/internal/pkg/logger"
	"eras-capsule-be/internal/repository"
	"eras-capsule-be/internal/workflow"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EchoMigrationService folds legacy echo-feed entries into the unified
// notification store. Each legacy id is processed at most once per session:
// the session's migrated-id set is the first guard, the unique index on
// notifications.source_echo_id is the second.
type EchoMigrationService struct {
	notifRepo repository.NotificationRepository
	echoRepo  repository.EchoRepository
	logger    logger.ILogger
}

func NewEchoMigrationService(notifRepo repository.NotificationRepository, echoRepo repository.EchoRepository, log logger.ILogger) *EchoMigrationService {
	return &EchoMigrationService{
		notifRepo: notifRepo,
		echoRepo:  echoRepo,
		logger:    log,
	}
}

// MigrateForSession loads the user's pending legacy echoes and migrates them.
func (s *EchoMigrationService) MigrateForSession(ctx context.Context, session *workflow.Session) (int, error) {
	ownerID, err := uuid.Parse(session.UserID)
	if err != nil {
		return 0, fmt.Errorf("invalid user id on session: %w", err)
	}

	// 1. Pending = unread or unseen legacy entries for this user.
	pending, err := s.echoRepo.ListPendingMigration(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending echoes: %w", err)
	}
	return s.Migrate(ctx, session, pending), nil
}

// Migrate converts the given legacy echoes into unified notifications.
// Returns the number of records actually inserted.
func (s *EchoMigrationService) Migrate(ctx context.Context, session *workflow.Session, legacy []model.Echo) int {
	migrated := 0
	var seen []uuid.UUID
	var ownerID uuid.UUID

	for i := range legacy {
		echo := legacy[i]

		// 1. Already consumed entries never migrate.
		if echo.Read && echo.Seen {
			continue
		}

		// 2. At-most-once per session.
		if session.IsEchoMigrated(echo.ID.String()) {
			continue
		}

		notif := s.buildNotification(&echo)

		// 3. Insert; a duplicate-key rejection means another path already
		// migrated this echo and counts as done.
		err := s.notifRepo.CreateNotification(ctx, &notif)
		switch {
		case err == nil:
			migrated++
			seen = append(seen, echo.ID)
			ownerID = echo.OwnerID
		case errors.Is(err, gorm.ErrDuplicatedKey):
			s.logger.Info("EchoMigration", "Echo already migrated elsewhere", map[string]interface{}{"echo_id": echo.ID})
		default:
			s.logger.Error("EchoMigration", "Failed to insert migrated notification", map[string]interface{}{"echo_id": echo.ID, "error": err})
		}

		// 4. The migrated set grows no matter how the insert went, so a
		// retry within this session can never produce a second copy.
		session.MarkEchoMigrated(echo.ID.String())
	}

	// 5. Flip the seen flag on everything that landed, in one write.
	if len(seen) > 0 {
		if err := s.echoRepo.MarkSeen(ctx, ownerID, seen); err != nil {
			s.logger.Warn("EchoMigration", "Failed to mark echoes seen", map[string]interface{}{"count": len(seen), "error": err.Error()})
		}
	}

	return migrated
}

func (s *EchoMigrationService) buildNotification(echo *model.Echo) model.Notification {
	var title, message string
	switch echo.EchoType {
	case model.EchoTypeCommented:
		title = fmt.Sprintf("%s commented on \"%s\"", echo.SenderName, echo.CapsuleTitle)
		message = echo.EchoContent
	default:
		title = fmt.Sprintf("%s reacted to \"%s\"", echo.SenderName, echo.CapsuleTitle)
		message = fmt.Sprintf("%s sent a reaction to your capsule.", echo.SenderName)
	}

	metaJSON, _ := json.Marshal(map[string]interface{}{
		"capsule_id":    echo.CapsuleID.String(),
		"capsule_title": echo.CapsuleTitle,
		"echo_type":     string(echo.EchoType),
		"sender_name":   echo.SenderName,
		"migrated":      true,
	})

	sourceID := echo.ID
	return model.Notification{
		ID:           uuid.New(),
		UserID:       echo.OwnerID,
		TypeCode:     "ECHO_RECEIVED",
		EntityType:   "capsule",
		EntityID:     &echo.CapsuleID,
		SourceEchoID: &sourceID,
		Title:        title,
		Message:      message,
		Metadata:     datatypes.JSON(metaJSON),
		IsRead:       false,
		// Original feed timestamp carries over verbatim.
		CreatedAt: echo.CreatedAt,
	}
}
