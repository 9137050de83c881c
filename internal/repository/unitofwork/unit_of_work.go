package unitofwork

import (
	"context"

	"eras-capsule-be/internal/repository"
)

// UnitOfWork groups repository access behind a single (optional)
// transaction. Call Begin/Commit around multi-repo writes; without Begin the
// repositories run against the base connection.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() repository.UserRepository
	CapsuleRepository() repository.CapsuleRepository
	VaultMediaRepository() repository.VaultMediaRepository
	EchoRepository() repository.EchoRepository
	NotificationRepository() repository.NotificationRepository
	AchievementRepository() repository.AchievementRepository
}
