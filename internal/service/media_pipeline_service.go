package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"eras-capsule-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// mediaPipelineService enriches freshly uploaded vault media in the
// background: checksum, mime sniffing and size, then flips Processed.
type mediaPipelineService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uploadDir  string
	uowFactory unitofwork.RepositoryFactory
}

func NewMediaPipelineService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uploadDir string,
	uowFactory unitofwork.RepositoryFactory,
) IConsumerService {
	return &mediaPipelineService{
		pubSub:     pubSub,
		topicName:  topicName,
		uploadDir:  uploadDir,
		uowFactory: uowFactory,
	}
}

func (cs *mediaPipelineService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *mediaPipelineService) processMessage(ctx context.Context, msg *message.Message) {
	var payload ProcessVaultMediaMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal media pipeline message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing vault media %s", payload.MediaId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	media, err := uow.VaultMediaRepository().GetByID(ctx, payload.MediaId)
	if err != nil {
		log.Printf("[ERROR] Failed to load vault media %s: %v", payload.MediaId, err)
		msg.Nack()
		return
	}
	if media == nil {
		// Deleted before the worker got to it. Nothing to do.
		msg.Ack()
		return
	}

	fullPath := filepath.Join(cs.uploadDir, media.StoragePath)
	f, err := os.Open(fullPath)
	if err != nil {
		log.Printf("[ERROR] Failed to open media file %s: %v", fullPath, err)
		msg.Nack()
		return
	}
	defer f.Close()

	// Sniff mime from the first bytes, then hash the whole file.
	head := make([]byte, 512)
	n, _ := f.Read(head)
	mimeType := http.DetectContentType(head[:n])

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		log.Printf("[ERROR] Failed to rewind media file %s: %v", fullPath, err)
		msg.Nack()
		return
	}

	hasher := sha256.New()
	size, err := io.Copy(hasher, f)
	if err != nil {
		log.Printf("[ERROR] Failed to hash media file %s: %v", fullPath, err)
		msg.Nack()
		return
	}
	checksum := hex.EncodeToString(hasher.Sum(nil))

	if err := uow.VaultMediaRepository().UpdateProcessingResult(ctx, media.ID, mimeType, checksum, size); err != nil {
		log.Printf("[ERROR] Failed to store processing result for %s: %v", media.ID, err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Vault media processed: %s (%d bytes, %s)", media.ID, size, mimeType)
	msg.Ack()
}
