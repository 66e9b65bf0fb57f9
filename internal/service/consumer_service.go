package service

import (
	"context"
	"encoding/json"
	"time"

	"starter-coach-be/internal/constant"
	"starter-coach-be/internal/dto"
	"starter-coach-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

// SummaryBroadcaster pushes an encoded frame to every live dashboard.
// *websocket.Hub implements it.
type SummaryBroadcaster interface {
	Broadcast(data []byte)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber  message.Subscriber
	topicName   string
	completions ICompletionService
	broadcaster SummaryBroadcaster
	logger      logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	completions ICompletionService,
	broadcaster SummaryBroadcaster,
	log logger.ILogger,
) IConsumerService {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &consumerService{
		subscriber:  subscriber,
		topicName:   topicName,
		completions: completions,
		broadcaster: broadcaster,
		logger:      log,
	}
}

// Consume recomputes and broadcasts the summary of every day announced on
// the topic until ctx is cancelled.
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
	var payload dto.PartitionChangedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack() // a malformed payload will never succeed
		return
	}

	day, err := time.ParseInLocation(constant.DateLayout, payload.Date, time.UTC)
	if err != nil {
		cs.logger.Error("ConsumerService", "Invalid partition date", map[string]interface{}{
			"date":  payload.Date,
			"error": err.Error(),
		})
		msg.Ack()
		return
	}

	summary := cs.completions.Summary(ctx, day)
	frame, err := json.Marshal(dto.LiveMessage{Type: "summary", Data: summary})
	if err != nil {
		cs.logger.Error("ConsumerService", "Failed to encode summary frame", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	cs.broadcaster.Broadcast(frame)
	cs.logger.Debug("ConsumerService", "Summary broadcast", map[string]interface{}{
		"date":    summary.Date,
		"actions": summary.Summary.TotalActions,
	})
	msg.Ack()
}
