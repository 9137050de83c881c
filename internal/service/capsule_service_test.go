package service

import (
	"context"
	"testing"
	"time"

	"eras-capsule-be/internal/dto"
	"eras-capsule-be/internal/model"
	"eras-capsule-be/internal/repository"
	"eras-capsule-be/internal/repository/unitofwork"
	"eras-capsule-be/internal/workflow"
	"eras-capsule-be/pkg/sidestore"
	"eras-capsule-be/pkg/store"

	"github.com/google/uuid"
)

type fakeCapsuleRepo struct {
	repository.CapsuleRepository
	created *model.Capsule
}

func (f *fakeCapsuleRepo) Create(ctx context.Context, capsule *model.Capsule) error {
	f.created = capsule
	return nil
}

type fakeUserRepo struct {
	repository.UserRepository
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}

type fakeSealUow struct {
	capsules *fakeCapsuleRepo
	users    *fakeUserRepo
}

func (f *fakeSealUow) Begin(ctx context.Context) error { return nil }
func (f *fakeSealUow) Commit() error                   { return nil }
func (f *fakeSealUow) Rollback() error                 { return nil }

func (f *fakeSealUow) UserRepository() repository.UserRepository       { return f.users }
func (f *fakeSealUow) CapsuleRepository() repository.CapsuleRepository { return f.capsules }
func (f *fakeSealUow) VaultMediaRepository() repository.VaultMediaRepository {
	return nil
}
func (f *fakeSealUow) EchoRepository() repository.EchoRepository { return nil }
func (f *fakeSealUow) NotificationRepository() repository.NotificationRepository {
	return nil
}
func (f *fakeSealUow) AchievementRepository() repository.AchievementRepository {
	return nil
}

type fakeSealUowFactory struct {
	uow *fakeSealUow
}

func (f *fakeSealUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func TestSealDropsReplacedOriginals(t *testing.T) {
	sessions := workflow.NewManager(sidestore.NewMemoryStore(), nil, nopLogger{})
	userID := uuid.New()
	sess := sessions.GetOrCreate("sess-seal", userID.String())

	// A draft where "orig" was superseded by "enh" but is still listed,
	// plus one untouched item.
	sess.Store.SetMedia([]store.MediaItem{
		{ID: "orig", VaultID: "v1", FromVault: true, URL: "u-orig", Type: "photo"},
		{ID: "enh", URL: "u-enh", Type: "photo"},
		{ID: "keep", URL: "u-keep", Type: "video"},
	})
	sess.Store.SetMediaReplacementMap([]string{"orig"})

	uow := &fakeSealUow{capsules: &fakeCapsuleRepo{}, users: &fakeUserRepo{}}
	svc := NewCapsuleService(&fakeSealUowFactory{uow: uow}, sessions, nil)

	_, err := svc.Seal(context.Background(), "sess-seal", userID, &dto.SealCapsuleRequest{
		Title:     "Letter to the future",
		Message:   "open me later",
		DeliverAt: time.Now().Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	created := uow.capsules.created
	if created == nil {
		t.Fatal("capsule was never persisted")
	}
	if len(created.Media) != 2 {
		t.Fatalf("sealed media rows = %d, want 2 (superseded original dropped)", len(created.Media))
	}
	for i, row := range created.Media {
		if row.StoragePath == "u-orig" {
			t.Errorf("superseded original sealed into the capsule: %+v", row)
		}
		if row.Position != i {
			t.Errorf("media position = %d at index %d, positions must stay contiguous", row.Position, i)
		}
	}
}

func TestSealResetsDraftAfterCommit(t *testing.T) {
	sessions := workflow.NewManager(sidestore.NewMemoryStore(), nil, nopLogger{})
	userID := uuid.New()
	sess := sessions.GetOrCreate("sess-seal-reset", userID.String())
	sess.Store.SetMedia([]store.MediaItem{{ID: "a", URL: "u-a", Type: "photo"}})

	uow := &fakeSealUow{capsules: &fakeCapsuleRepo{}, users: &fakeUserRepo{}}
	svc := NewCapsuleService(&fakeSealUowFactory{uow: uow}, sessions, nil)

	_, err := svc.Seal(context.Background(), "sess-seal-reset", userID, &dto.SealCapsuleRequest{
		Title:     "t",
		Message:   "m",
		DeliverAt: time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	if sess.Store.HasUnsavedWork() {
		t.Error("draft must be gone once sealed")
	}
}
