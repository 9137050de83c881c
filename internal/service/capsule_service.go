package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"eras-capsule-be/internal/dto"
	"eras-capsule-be/internal/mapper"
	"eras-capsule-be/internal/model"
	"eras-capsule-be/internal/repository/unitofwork"
	"eras-capsule-be/internal/workflow"
	"eras-capsule-be/pkg/events"
	pktNats "eras-capsule-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ICapsuleService interface {
	Seal(ctx context.Context, sessionID string, userID uuid.UUID, req *dto.SealCapsuleRequest) (*dto.CapsuleResponse, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) (*dto.CapsuleListResponse, error)
	ListReceived(ctx context.Context, userID uuid.UUID) (*dto.CapsuleListResponse, error)
	Open(ctx context.Context, userID, capsuleID uuid.UUID) (*dto.CapsuleResponse, error)
}

type capsuleService struct {
	uowFactory     unitofwork.RepositoryFactory
	sessions       *workflow.Manager
	eventPublisher *pktNats.Publisher
}

func NewCapsuleService(
	uowFactory unitofwork.RepositoryFactory,
	sessions *workflow.Manager,
	eventPublisher *pktNats.Publisher,
) ICapsuleService {
	return &capsuleService{
		uowFactory:     uowFactory,
		sessions:       sessions,
		eventPublisher: eventPublisher,
	}
}

// Seal freezes the session's draft into a durable capsule row. The media
// list comes from the workflow store; the store is reset only after the
// transaction commits.
func (s *capsuleService) Seal(ctx context.Context, sessionID string, userID uuid.UUID, req *dto.SealCapsuleRequest) (*dto.CapsuleResponse, error) {
	sess, found := s.sessions.Get(sessionID)
	if !found {
		return nil, errors.New("no active session")
	}

	snapshot := sess.Store.Snapshot()
	if len(snapshot.Media) == 0 && req.Message == "" {
		return nil, errors.New("cannot seal an empty capsule")
	}
	if !req.DeliverAt.After(time.Now()) {
		return nil, errors.New("delivery time must be in the future")
	}

	capsule := &model.Capsule{
		ID:        uuid.New(),
		SenderID:  userID,
		Title:     req.Title,
		Message:   req.Message,
		Theme:     snapshot.Theme,
		Status:    model.CapsuleStatusSealed,
		SealedAt:  time.Now(),
		DeliverAt: req.DeliverAt,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if len(snapshot.ThemeMetadata) > 0 {
		if metaJSON, err := json.Marshal(snapshot.ThemeMetadata); err == nil {
			capsule.ThemeMetadata = datatypes.JSON(metaJSON)
		}
	}

	// 1. Media rows from the draft. Originals listed in the replacement map
	// were superseded by an enhanced version and never reach the capsule;
	// vault imports keep their vault link.
	replaced := make(map[string]struct{}, len(snapshot.MediaReplacementMap))
	for _, id := range snapshot.MediaReplacementMap {
		replaced[id] = struct{}{}
	}
	position := 0
	for _, m := range snapshot.Media {
		if _, ok := replaced[m.ID]; ok {
			continue
		}
		row := model.CapsuleMedia{
			ID:          uuid.New(),
			CapsuleID:   capsule.ID,
			Type:        m.Type,
			StoragePath: m.URL,
			Position:    position,
			CreatedAt:   time.Now(),
		}
		position++
		if m.FromVault {
			if vaultID, err := uuid.Parse(m.VaultKey()); err == nil {
				row.VaultMediaID = &vaultID
			}
		}
		capsule.Media = append(capsule.Media, row)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// 2. Resolve recipient accounts by email where they exist
	var recipientUserIDs []string
	for _, email := range req.Recipients {
		recipient := model.CapsuleRecipient{
			ID:        uuid.New(),
			CapsuleID: capsule.ID,
			Email:     email,
			CreatedAt: time.Now(),
		}
		if user, err := uow.UserRepository().FindByEmail(ctx, email); err == nil && user != nil {
			recipient.RecipientUserID = &user.Id
			recipientUserIDs = append(recipientUserIDs, user.Id.String())
		}
		capsule.Recipients = append(capsule.Recipients, recipient)
	}

	// 3. Persist atomically
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.CapsuleRepository().Create(ctx, capsule); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// 4. Draft is gone once sealed
	sess.Store.Reset()

	if s.eventPublisher != nil {
		event := events.BaseEvent{
			Type: events.TypeCapsuleSealed,
			Data: map[string]interface{}{
				"user_id":       userID.String(),
				"capsule_id":    capsule.ID.String(),
				"capsule_title": capsule.Title,
				"entity_type":   "capsule",
				"entity_id":     capsule.ID.String(),
				"deliver_at":    capsule.DeliverAt.Format(time.RFC3339),
				"recipient_ids": recipientUserIDs,
			},
			OccurredAt: time.Now(),
		}
		// Sealing already committed; losing the event is acceptable.
		_ = s.eventPublisher.Publish(ctx, event)
	}

	res := mapper.ToCapsuleResponse(capsule)
	return &res, nil
}

func (s *capsuleService) List(ctx context.Context, userID uuid.UUID, limit, offset int) (*dto.CapsuleListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	capsules, total, err := uow.CapsuleRepository().ListBySender(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	res := mapper.ToCapsuleListResponse(capsules, total)
	return &res, nil
}

func (s *capsuleService) ListReceived(ctx context.Context, userID uuid.UUID) (*dto.CapsuleListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	capsules, err := uow.CapsuleRepository().ListDeliveredForRecipient(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := mapper.ToCapsuleListResponse(capsules, int64(len(capsules)))
	return &res, nil
}

// Open returns a capsule's content to its sender or, once delivered, to a
// recipient. First open by a recipient is recorded.
func (s *capsuleService) Open(ctx context.Context, userID, capsuleID uuid.UUID) (*dto.CapsuleResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	capsule, err := uow.CapsuleRepository().GetByID(ctx, capsuleID)
	if err != nil {
		return nil, err
	}
	if capsule == nil {
		return nil, errors.New("capsule not found")
	}

	if capsule.SenderID == userID {
		res := mapper.ToCapsuleResponse(capsule)
		return &res, nil
	}

	// Recipients wait for delivery.
	var isRecipient bool
	for _, r := range capsule.Recipients {
		if r.RecipientUserID != nil && *r.RecipientUserID == userID {
			isRecipient = true
			break
		}
	}
	if !isRecipient {
		return nil, errors.New("capsule not found")
	}
	if capsule.Status != model.CapsuleStatusDelivered {
		return nil, errors.New("this capsule has not been delivered yet")
	}

	if err := uow.CapsuleRepository().MarkRecipientOpened(ctx, capsule.ID, userID, time.Now()); err == nil {
		// Refresh the opened_at we just wrote
		capsule, _ = uow.CapsuleRepository().GetByID(ctx, capsuleID)
	}

	res := mapper.ToCapsuleResponse(capsule)
	return &res, nil
}
