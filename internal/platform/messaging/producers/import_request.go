package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/fintrack-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

type ImportMessageProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// Creates a new import producer and ensures topic exists
func NewImportMessageProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*ImportMessageProducer, error) {
	if cfg.ImportTopic == "" {
		return nil, fmt.Errorf("kafka import topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for import producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.ImportTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure import topic %s exists for import producer: %w", cfg.ImportTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.ImportTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true, // Using async for high throughput
		WriteTimeout: cfg.MaxWait,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write messages asynchronously", "topic", cfg.ImportTopic, "error", err, "count", len(messages))
			} else {
				logger.Debug("Successfully wrote messages asynchronously", "topic", cfg.ImportTopic, "count", len(messages))
			}
		},
	}

	return &ImportMessageProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.ImportTopic,
	}, nil
}

func (p *ImportMessageProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message value for import producer: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish message via import producer",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish message to %s via import producer: %w", p.topic, err)
	}

	p.logger.Debug("Published message via import producer",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *ImportMessageProducer) Close() error {
	p.logger.Info("Closing import Kafka message producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close import kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
