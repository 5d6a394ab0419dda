package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"ftth-viability-be/internal/dto"
)

type IPublisherService interface {
	PublishRefreshInventory(ctx context.Context, kind string) error
}

type publisherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
}

func NewPublisherService(pubSub *gochannel.GoChannel, topicName string) IPublisherService {
	return &publisherService{
		pubSub:    pubSub,
		topicName: topicName,
	}
}

// PublishRefreshInventory queues a refresh of one inventory kind. The HTTP
// handler returns immediately; the consumer does the slow fetch.
func (ps *publisherService) PublishRefreshInventory(ctx context.Context, kind string) error {
	payload, err := json.Marshal(dto.RefreshInventoryMessage{Kind: kind})
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	return ps.pubSub.Publish(ps.topicName, msg)
}
