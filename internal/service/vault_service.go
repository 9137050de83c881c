package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"eras-capsule-be/internal/dto"
	"eras-capsule-be/internal/mapper"
	"eras-capsule-be/internal/model"
	"eras-capsule-be/internal/pkg/logger"
	"eras-capsule-be/internal/repository/unitofwork"
	"eras-capsule-be/pkg/events"
	pktNats "eras-capsule-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var allowedMediaTypes = map[string]bool{
	"photo": true,
	"video": true,
	"audio": true,
}

type IVaultService interface {
	Upload(ctx *fiber.Ctx, userID uuid.UUID, mediaType string, file *multipart.FileHeader) (*dto.VaultMediaResponse, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) (*dto.VaultListResponse, error)
	Delete(ctx context.Context, userID, mediaID uuid.UUID) error
	SetFavorite(ctx context.Context, userID, mediaID uuid.UUID, favorite bool) error
}

type vaultService struct {
	uowFactory     unitofwork.RepositoryFactory
	publisher      IPublisherService
	eventPublisher *pktNats.Publisher
	uploadDir      string
	baseURL        string
	logger         logger.ILogger
}

func NewVaultService(
	uowFactory unitofwork.RepositoryFactory,
	publisher IPublisherService,
	eventPublisher *pktNats.Publisher,
	uploadDir string,
	baseURL string,
	log logger.ILogger,
) IVaultService {
	return &vaultService{
		uowFactory:     uowFactory,
		publisher:      publisher,
		eventPublisher: eventPublisher,
		uploadDir:      uploadDir,
		baseURL:        baseURL,
		logger:         log,
	}
}

// Upload stores the file under the user's vault directory and queues the
// post-processing job. Checksum/mime arrive asynchronously.
func (s *vaultService) Upload(ctx *fiber.Ctx, userID uuid.UUID, mediaType string, file *multipart.FileHeader) (*dto.VaultMediaResponse, error) {
	if !allowedMediaTypes[mediaType] {
		return nil, errors.New("unsupported media type")
	}

	mediaID := uuid.New()
	ext := strings.ToLower(filepath.Ext(file.Filename))
	storagePath := filepath.Join(userID.String(), fmt.Sprintf("%s%s", mediaID, ext))

	fullPath := filepath.Join(s.uploadDir, storagePath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to prepare upload directory: %v", err)
	}
	if err := ctx.SaveFile(file, fullPath); err != nil {
		return nil, fmt.Errorf("failed to store file: %v", err)
	}

	media := &model.VaultMedia{
		ID:          mediaID,
		UserID:      userID,
		Type:        mediaType,
		FileName:    file.Filename,
		StoragePath: storagePath,
		SizeBytes:   file.Size,
		Processed:   false,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx.Context())
	if err := uow.VaultMediaRepository().Create(ctx.Context(), media); err != nil {
		_ = os.Remove(fullPath)
		return nil, err
	}

	// Queue enrichment; upload succeeds even if the queue is down.
	if err := s.publisher.PublishVaultMedia(ctx.Context(), media.ID); err != nil {
		s.logger.Warn("VaultService", "Failed to queue media processing", map[string]interface{}{"media_id": media.ID, "error": err.Error()})
	}

	if s.eventPublisher != nil {
		event := events.BaseEvent{
			Type: events.TypeMediaVaulted,
			Data: map[string]interface{}{
				"user_id":    userID.String(),
				"media_id":   media.ID.String(),
				"media_type": mediaType,
				"file_name":  file.Filename,
			},
			OccurredAt: time.Now(),
		}
		_ = s.eventPublisher.Publish(ctx.Context(), event)
	}

	res := mapper.ToVaultMediaResponse(media, s.baseURL)
	return &res, nil
}

func (s *vaultService) List(ctx context.Context, userID uuid.UUID, limit, offset int) (*dto.VaultListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	media, total, err := uow.VaultMediaRepository().ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	res := mapper.ToVaultListResponse(media, total, s.baseURL)
	return &res, nil
}

func (s *vaultService) Delete(ctx context.Context, userID, mediaID uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	media, err := uow.VaultMediaRepository().GetByID(ctx, mediaID)
	if err != nil {
		return err
	}
	if media == nil || media.UserID != userID {
		return errors.New("media not found")
	}

	if err := uow.VaultMediaRepository().Delete(ctx, userID, mediaID); err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.uploadDir, media.StoragePath)); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("VaultService", "Failed to remove media file", map[string]interface{}{"media_id": mediaID, "error": err.Error()})
	}
	return nil
}

func (s *vaultService) SetFavorite(ctx context.Context, userID, mediaID uuid.UUID, favorite bool) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.VaultMediaRepository().SetFavorite(ctx, userID, mediaID, favorite)
}
