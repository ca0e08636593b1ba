package repository

import (
	"context"

	"PacePulse/internal/domain/models"
	domrepo "PacePulse/internal/domain/repository"
	pkgkafka "PacePulse/pkg/kafka"
)

// KafkaLinePublisher implements LinePublisher for Kafka.
type KafkaLinePublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaLinePublisher creates a Kafka line publisher.
func NewKafkaLinePublisher(producer *pkgkafka.Producer, topic string) domrepo.LinePublisher {
	return &KafkaLinePublisher{producer: producer, topic: topic}
}

func (p *KafkaLinePublisher) Publish(ctx context.Context, t *models.LineTick) error {
	return p.producer.Publish(ctx, p.topic, []byte(t.GameID), tickPayload(t))
}

func (p *KafkaLinePublisher) PublishBatch(ctx context.Context, ticks []*models.LineTick) error {
	if len(ticks) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(ticks))
	for i, t := range ticks {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(t.GameID),
			Value: tickPayload(t),
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaLinePublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// Wire schema: {gameId, total, rateOfChange, t (ms), liveBox}.
func tickPayload(t *models.LineTick) map[string]interface{} {
	payload := map[string]interface{}{
		"gameId":       t.GameID,
		"total":        t.Total,
		"rateOfChange": t.RateOfChange,
		"t":            t.Timestamp.UnixMilli(),
	}
	if t.LiveBox != nil {
		payload["liveBox"] = t.LiveBox
	}
	return payload
}
