package repository

import (
	"context"
	"time"

	"eras-capsule-be/internal/model"

	"github.com/google/uuid"
)

type CapsuleRepository interface {
	Create(ctx context.Context, capsule *model.Capsule) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Capsule, error)
	ListBySender(ctx context.Context, senderID uuid.UUID, limit, offset int) ([]model.Capsule, int64, error)
	ListDeliveredForRecipient(ctx context.Context, userID uuid.UUID) ([]model.Capsule, error)

	// Delivery sweep
	ListDue(ctx context.Context, now time.Time, limit int) ([]model.Capsule, error)
	MarkDelivered(ctx context.Context, id uuid.UUID, deliveredAt time.Time) error
	MarkRecipientNotified(ctx context.Context, recipientID uuid.UUID, at time.Time) error
	MarkRecipientOpened(ctx context.Context, capsuleID uuid.UUID, userID uuid.UUID, at time.Time) error
}
