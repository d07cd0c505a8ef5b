package service

import (
	"context"
	"encoding/json"

	"ai-crm-be/internal/dto"
	"ai-crm-be/internal/pkg/logger"
	"ai-crm-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// Broadcaster pushes a message to every live client.
type Broadcaster interface {
	Broadcast(ctx context.Context, message []byte)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type consumerService struct {
	subscriber  message.Subscriber
	topicName   string
	broadcaster Broadcaster
	events      EventPublisher
	logger      logger.ILogger
}

// NewConsumerService fans contact events out to the live feed and, when
// eventPublisher is non-nil, to NATS.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	broadcaster Broadcaster,
	eventPublisher EventPublisher,
	log logger.ILogger,
) IConsumerService {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &consumerService{
		subscriber:  subscriber,
		topicName:   topicName,
		broadcaster: broadcaster,
		events:      eventPublisher,
		logger:      log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
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
	var payload dto.ContactEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // invalid messages are never retried
		return
	}

	frame, err := json.Marshal(map[string]interface{}{
		"type": "contact_event",
		"data": payload,
	})
	if err != nil {
		msg.Ack()
		return
	}
	if cs.broadcaster != nil {
		cs.broadcaster.Broadcast(ctx, frame)
	}

	if cs.events != nil {
		ids := make([]string, 0, len(payload.ContactIds))
		for _, id := range payload.ContactIds {
			ids = append(ids, id.String())
		}
		event := events.BaseEvent{
			Type:       payload.Type,
			Data:       map[string]interface{}{"contact_ids": ids},
			OccurredAt: payload.OccurredAt,
		}
		if err := cs.events.Publish(ctx, event); err != nil {
			cs.logger.Warn("ConsumerService", "Failed to forward event to NATS", map[string]interface{}{
				"event_type": payload.Type,
				"error":      err.Error(),
			})
		}
	}

	cs.logger.Debug("ConsumerService", "Contact event delivered", map[string]interface{}{
		"event_type": payload.Type,
		"contacts":   len(payload.ContactIds),
	})
	msg.Ack()
}
