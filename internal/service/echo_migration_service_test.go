package service

import (
	"context"
	"testing"
	"time"

	"eras-capsule-be/internal/model"
	"eras-capsule-be/internal/workflow"
	"eras-capsule-be/pkg/sidestore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeNotifRepo struct {
	created  []model.Notification
	failWith error
}

func (f *fakeNotifRepo) CreateNotification(ctx context.Context, n *model.Notification) error {
	if f.failWith != nil {
		return f.failWith
	}
	for _, existing := range f.created {
		if existing.SourceEchoID != nil && n.SourceEchoID != nil && *existing.SourceEchoID == *n.SourceEchoID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.created = append(f.created, *n)
	return nil
}

func (f *fakeNotifRepo) GetNotificationsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	return f.created, int64(len(f.created)), nil
}

func (f *fakeNotifRepo) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return int64(len(f.created)), nil
}

func (f *fakeNotifRepo) MarkAsRead(ctx context.Context, id uuid.UUID) error        { return nil }
func (f *fakeNotifRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error { return nil }
func (f *fakeNotifRepo) GetNotificationTypeByCode(ctx context.Context, code string) (*model.NotificationType, error) {
	return nil, nil
}

type fakeEchoRepo struct {
	pending []model.Echo
	seen    []uuid.UUID
}

func (f *fakeEchoRepo) Create(ctx context.Context, echo *model.Echo) error { return nil }
func (f *fakeEchoRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]model.Echo, int64, error) {
	return f.pending, int64(len(f.pending)), nil
}
func (f *fakeEchoRepo) ListPendingMigration(ctx context.Context, ownerID uuid.UUID) ([]model.Echo, error) {
	return f.pending, nil
}
func (f *fakeEchoRepo) MarkSeen(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) error {
	f.seen = append(f.seen, ids...)
	return nil
}
func (f *fakeEchoRepo) MarkRead(ctx context.Context, ownerID, id uuid.UUID) error { return nil }

func newTestSession() *workflow.Session {
	mgr := workflow.NewManager(sidestore.NewMemoryStore(), nil, nopLogger{})
	return mgr.GetOrCreate(uuid.NewString(), uuid.NewString())
}

func legacyEcho(echoType model.EchoType, read, seen bool) model.Echo {
	return model.Echo{
		ID:           uuid.New(),
		CapsuleID:    uuid.New(),
		OwnerID:      uuid.New(),
		SenderName:   "Maya",
		EchoType:     echoType,
		EchoContent:  "This brought me right back.",
		CapsuleTitle: "Summer 2019",
		Read:         read,
		Seen:         seen,
		CreatedAt:    time.Date(2023, 4, 12, 9, 30, 0, 0, time.UTC),
	}
}

func TestMigrateRunsAtMostOncePerEcho(t *testing.T) {
	notifRepo := &fakeNotifRepo{}
	echoRepo := &fakeEchoRepo{}
	svc := NewEchoMigrationService(notifRepo, echoRepo, nopLogger{})
	sess := newTestSession()

	legacy := []model.Echo{
		legacyEcho(model.EchoTypeReacted, false, false),
		legacyEcho(model.EchoTypeCommented, true, false),
	}

	got := svc.Migrate(context.Background(), sess, legacy)
	assert.Equal(t, 2, got)
	assert.Len(t, notifRepo.created, 2)

	// A second pass over the same feed inserts nothing.
	got = svc.Migrate(context.Background(), sess, legacy)
	assert.Equal(t, 0, got)
	assert.Len(t, notifRepo.created, 2)
	assert.Equal(t, 2, sess.MigratedEchoCount())
}

func TestMigrateSkipsConsumedEchoes(t *testing.T) {
	notifRepo := &fakeNotifRepo{}
	svc := NewEchoMigrationService(notifRepo, &fakeEchoRepo{}, nopLogger{})
	sess := newTestSession()

	legacy := []model.Echo{
		legacyEcho(model.EchoTypeReacted, true, true),
		legacyEcho(model.EchoTypeReacted, false, true),
	}

	got := svc.Migrate(context.Background(), sess, legacy)
	assert.Equal(t, 1, got)
	assert.Equal(t, 1, sess.MigratedEchoCount())
}

func TestMigratePreservesOriginalTimestamp(t *testing.T) {
	notifRepo := &fakeNotifRepo{}
	svc := NewEchoMigrationService(notifRepo, &fakeEchoRepo{}, nopLogger{})
	sess := newTestSession()

	echo := legacyEcho(model.EchoTypeCommented, false, false)
	svc.Migrate(context.Background(), sess, []model.Echo{echo})

	if assert.Len(t, notifRepo.created, 1) {
		assert.Equal(t, echo.CreatedAt, notifRepo.created[0].CreatedAt)
		assert.Equal(t, "Maya commented on \"Summer 2019\"", notifRepo.created[0].Title)
		assert.Equal(t, echo.EchoContent, notifRepo.created[0].Message)
	}
}

func TestMigrateMarksDuplicateInsertsAsDone(t *testing.T) {
	notifRepo := &fakeNotifRepo{failWith: gorm.ErrDuplicatedKey}
	svc := NewEchoMigrationService(notifRepo, &fakeEchoRepo{}, nopLogger{})
	sess := newTestSession()

	echo := legacyEcho(model.EchoTypeReacted, false, false)

	got := svc.Migrate(context.Background(), sess, []model.Echo{echo})
	assert.Equal(t, 0, got)
	// Rejected as duplicate still counts as migrated for this session.
	assert.True(t, sess.IsEchoMigrated(echo.ID.String()))

	got = svc.Migrate(context.Background(), sess, []model.Echo{echo})
	assert.Equal(t, 0, got)
	assert.Equal(t, 1, sess.MigratedEchoCount())
}

func TestMigrateForSessionLoadsPendingFeed(t *testing.T) {
	owner := uuid.New()
	echo := legacyEcho(model.EchoTypeReacted, false, false)
	echo.OwnerID = owner
	echoRepo := &fakeEchoRepo{pending: []model.Echo{echo}}
	notifRepo := &fakeNotifRepo{}
	svc := NewEchoMigrationService(notifRepo, echoRepo, nopLogger{})

	mgr := workflow.NewManager(sidestore.NewMemoryStore(), nil, nopLogger{})
	sess := mgr.GetOrCreate(uuid.NewString(), owner.String())

	got, err := svc.MigrateForSession(context.Background(), sess)
	assert.NoError(t, err)
	assert.Equal(t, 1, got)
	assert.Equal(t, []uuid.UUID{echo.ID}, echoRepo.seen)
}
