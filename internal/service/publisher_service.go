package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// ProcessVaultMediaMessage is the in-process pipeline payload published on
// every vault upload.
type ProcessVaultMediaMessage struct {
	MediaId uuid.UUID `json:"media_id"`
}

type IPublisherService interface {
	PublishVaultMedia(ctx context.Context, mediaID uuid.UUID) error
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (p *publisherService) PublishVaultMedia(ctx context.Context, mediaID uuid.UUID) error {
	payload, err := json.Marshal(ProcessVaultMediaMessage{MediaId: mediaID})
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	return p.pubSub.Publish(p.topicName, msg)
}
