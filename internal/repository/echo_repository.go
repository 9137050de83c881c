package repository

import (
	"context"

	"eras-capsule-be/internal/model"

	"github.com/google/uuid"
)

type EchoRepository interface {
	Create(ctx context.Context, echo *model.Echo) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]model.Echo, int64, error)

	// Migration source: unread-or-unseen echoes for the signed-in owner.
	ListPendingMigration(ctx context.Context, ownerID uuid.UUID) ([]model.Echo, error)
	MarkSeen(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) error
	MarkRead(ctx context.Context, ownerID, id uuid.UUID) error
}
