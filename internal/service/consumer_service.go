package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"ftth-viability-be/internal/dto"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the refresh topic and re-fetches inventory
// snapshots so auditors never wait on a cold cache.
type consumerService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	inventories InventoryProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	inventories InventoryProvider,
) IConsumerService {
	return &consumerService{
		pubSub:      pubSub,
		topicName:   topicName,
		inventories: inventories,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
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

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.RefreshInventoryMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal refresh message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Refreshing inventory for kind: %s", payload.Kind)

	snapshot, err := cs.inventories.Refresh(ctx, payload.Kind)
	if err != nil {
		// The source may be briefly unreachable. Nack so the message is
		// retried; the stale snapshot stays served meanwhile.
		log.Printf("[ERROR] Failed to refresh inventory %s: %v", payload.Kind, err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Inventory %s refreshed: %d cabinets (version %s)",
		payload.Kind, len(snapshot.Cabinets), snapshot.Version.Format("2006-01-02T15:04:05Z07:00"))
	msg.Ack()
}
