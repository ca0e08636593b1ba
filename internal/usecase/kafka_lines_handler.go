package usecase

import (
	"context"
	"encoding/json"
	"time"

	"PacePulse/internal/domain/models"
	domrepo "PacePulse/internal/domain/repository"
	pkgkafka "PacePulse/pkg/kafka"
)

// KafkaLinesHandler consumes line tick messages and writes durable history.
type KafkaLinesHandler struct {
	topic   string
	storage domrepo.LineHistoryStore
	metrics domrepo.Metrics
}

func NewKafkaLinesHandler(topic string, storage domrepo.LineHistoryStore, metrics domrepo.Metrics) *KafkaLinesHandler {
	return &KafkaLinesHandler{topic: topic, storage: storage, metrics: metrics}
}

func (h *KafkaLinesHandler) Topic() string { return h.topic }

// incoming message schema: {gameId, total, rateOfChange, t}
func (h *KafkaLinesHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		GameID       string  `json:"gameId"`
		Total        float64 `json:"total"`
		RateOfChange string  `json:"rateOfChange"`
		T            int64   `json:"t"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.T < 1e11 { // seconds
		m.T = m.T * 1000
	}
	ts := time.UnixMilli(m.T).UTC()
	// E2E latency from event time to now (approx)
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(ts).Seconds())

	start := time.Now()
	err := h.storage.Store(ctx, &models.LineTick{
		GameID:       m.GameID,
		Total:        m.Total,
		RateOfChange: m.RateOfChange,
		Timestamp:    ts,
	})
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordTickSent("clickhouse", m.GameID)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaLinesHandler)(nil)
