package service

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/anup4khandelwal/travel-planner-agent/internal/dto"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IConsumerService drains the turn topic and aggregates per-response-type
// counters for the health endpoint.
type IConsumerService interface {
	Consume(ctx context.Context) error
	TurnCounts() map[string]int64
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string

	mu     sync.Mutex
	counts map[string]int64
}

func NewConsumerService(pubSub *gochannel.GoChannel, topicName string) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		counts:    make(map[string]int64),
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.TurnProcessedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal turn message: %v", err)
		// Ack invalid messages to prevent infinite retry
		msg.Ack()
		return
	}

	cs.mu.Lock()
	cs.counts[payload.ResponseType]++
	cs.mu.Unlock()

	msg.Ack()
}

// TurnCounts returns a copy of the counters keyed by response type.
func (cs *consumerService) TurnCounts() map[string]int64 {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	out := make(map[string]int64, len(cs.counts))
	for k, v := range cs.counts {
		out[k] = v
	}
	return out
}
