package service

import (
	"context"
	"fmt"
	"time"

	"eras-capsule-be/internal/model"
	"eras-capsule-be/internal/pkg/logger"
	"eras-capsule-be/internal/pkg/mailer"
	"eras-capsule-be/internal/repository/unitofwork"
	"eras-capsule-be/pkg/events"
	pktNats "eras-capsule-be/pkg/nats"
)

type IDeliveryService interface {
	Run(ctx context.Context)
}

// deliveryService sweeps for capsules whose delivery time has passed, marks
// them delivered, notifies recipients by email and raises CAPSULE_DELIVERED.
type deliveryService struct {
	uowFactory     unitofwork.RepositoryFactory
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
	interval       time.Duration
	clientURL      string
	logger         logger.ILogger
}

func NewDeliveryService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
	interval time.Duration,
	clientURL string,
	log logger.ILogger,
) IDeliveryService {
	return &deliveryService{
		uowFactory:     uowFactory,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		interval:       interval,
		clientURL:      clientURL,
		logger:         log,
	}
}

func (s *deliveryService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("DeliveryService", "Delivery sweep started", map[string]interface{}{"interval": s.interval.String()})

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("DeliveryService", "Delivery sweep stopped", nil)
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *deliveryService) sweep(ctx context.Context) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	due, err := uow.CapsuleRepository().ListDue(ctx, time.Now(), 100)
	if err != nil {
		s.logger.Error("DeliveryService", "Failed to list due capsules", map[string]interface{}{"error": err})
		return
	}

	for i := range due {
		s.deliver(ctx, &due[i])
	}
}

func (s *deliveryService) deliver(ctx context.Context, capsule *model.Capsule) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	if err := uow.CapsuleRepository().MarkDelivered(ctx, capsule.ID, now); err != nil {
		s.logger.Error("DeliveryService", "Failed to mark capsule delivered", map[string]interface{}{"capsule_id": capsule.ID, "error": err})
		return
	}

	sender, _ := uow.UserRepository().FindByID(ctx, capsule.SenderID)
	senderName := "Someone"
	if sender != nil {
		senderName = sender.FullName
	}

	capsuleURL := fmt.Sprintf("%s/capsule/%s", s.clientURL, capsule.ID)

	var recipientIDs []string
	for _, r := range capsule.Recipients {
		if r.RecipientUserID != nil {
			recipientIDs = append(recipientIDs, r.RecipientUserID.String())
		}

		go func(email string) {
			if err := s.emailService.SendCapsuleDelivered(email, senderName, capsule.Title, capsuleURL); err != nil {
				s.logger.Warn("DeliveryService", "Failed to send delivery email", map[string]interface{}{"email": email, "error": err.Error()})
			}
		}(r.Email)

		if err := uow.CapsuleRepository().MarkRecipientNotified(ctx, r.ID, now); err != nil {
			s.logger.Warn("DeliveryService", "Failed to mark recipient notified", map[string]interface{}{"recipient_id": r.ID, "error": err.Error()})
		}
	}

	s.logger.Info("DeliveryService", "Capsule delivered", map[string]interface{}{"capsule_id": capsule.ID, "recipients": len(capsule.Recipients)})

	if s.eventPublisher != nil {
		event := events.BaseEvent{
			Type: events.TypeCapsuleDelivered,
			Data: map[string]interface{}{
				"user_id":       capsule.SenderID.String(),
				"capsule_id":    capsule.ID.String(),
				"capsule_title": capsule.Title,
				"sender_name":   senderName,
				"entity_type":   "capsule",
				"entity_id":     capsule.ID.String(),
				"recipient_ids": recipientIDs,
			},
			OccurredAt: now,
		}
		_ = s.eventPublisher.Publish(ctx, event)
	}
}
