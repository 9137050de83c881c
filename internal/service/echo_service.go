package service

import (
	"context"
	"errors"
	"time"

	"eras-capsule-be/internal/dto"
	"eras-capsule-be/internal/mapper"
	"eras-capsule-be/internal/model"
	"eras-capsule-be/internal/repository/unitofwork"
	"eras-capsule-be/pkg/events"
	pktNats "eras-capsule-be/pkg/nats"

	"github.com/google/uuid"
)

type IEchoService interface {
	Create(ctx context.Context, req *dto.CreateEchoRequest) (*dto.EchoResponse, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]dto.EchoResponse, int64, error)
	MarkRead(ctx context.Context, ownerID, echoID uuid.UUID) error
}

type echoService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
}

func NewEchoService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher) IEchoService {
	return &echoService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
	}
}

// Create records a recipient's reaction or comment on a delivered capsule
// and raises ECHO_RECEIVED for the capsule's owner.
func (s *echoService) Create(ctx context.Context, req *dto.CreateEchoRequest) (*dto.EchoResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	capsule, err := uow.CapsuleRepository().GetByID(ctx, req.CapsuleId)
	if err != nil {
		return nil, err
	}
	if capsule == nil {
		return nil, errors.New("capsule not found")
	}
	if capsule.Status != model.CapsuleStatusDelivered {
		return nil, errors.New("echoes can only be left on delivered capsules")
	}

	echo := &model.Echo{
		ID:           uuid.New(),
		CapsuleID:    capsule.ID,
		OwnerID:      capsule.SenderID,
		SenderName:   req.SenderName,
		EchoType:     model.EchoType(req.EchoType),
		EchoContent:  req.EchoContent,
		CapsuleTitle: capsule.Title,
		CreatedAt:    time.Now(),
	}

	if err := uow.EchoRepository().Create(ctx, echo); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		event := events.BaseEvent{
			Type: events.TypeEchoReceived,
			Data: map[string]interface{}{
				"user_id":       capsule.SenderID.String(),
				"capsule_id":    capsule.ID.String(),
				"capsule_title": capsule.Title,
				"sender_name":   req.SenderName,
				"echo_type":     req.EchoType,
				"entity_type":   "capsule",
				"entity_id":     capsule.ID.String(),
			},
			OccurredAt: time.Now(),
		}
		_ = s.eventPublisher.Publish(ctx, event)
	}

	res := mapper.ToEchoResponse(echo)
	return &res, nil
}

func (s *echoService) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]dto.EchoResponse, int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	echoes, total, err := uow.EchoRepository().ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	res := make([]dto.EchoResponse, 0, len(echoes))
	for i := range echoes {
		res = append(res, mapper.ToEchoResponse(&echoes[i]))
	}
	return res, total, nil
}

func (s *echoService) MarkRead(ctx context.Context, ownerID, echoID uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.EchoRepository().MarkRead(ctx, ownerID, echoID)
}
