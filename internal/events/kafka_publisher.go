package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"inventory-service/internal/config"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxPublishAttempts = 3
	publishBaseDelay   = 100 * time.Millisecond
	publishTimeout     = 5 * time.Second
)

// KafkaEventPublisher implements EventPublisher using Kafka
type KafkaEventPublisher struct {
	producer sarama.SyncProducer
	logger   *zap.Logger
	config   *config.Config
}

// NewPublisher returns a Kafka publisher when Kafka is enabled and reachable,
// otherwise an in-memory publisher.
func NewPublisher(cfg *config.Config, logger *zap.Logger) EventPublisher {
	if !cfg.KafkaEnabled {
		logger.Info("Kafka disabled, using in-memory event publisher")
		return NewInMemoryEventPublisher(logger)
	}

	publisher, err := NewKafkaEventPublisher(cfg, logger)
	if err != nil {
		logger.Warn("Failed to create Kafka publisher, using in-memory event publisher",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.Error(err),
		)
		return NewInMemoryEventPublisher(logger)
	}

	logger.Info("Kafka event publisher initialized",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("items_topic", cfg.KafkaTopicItems),
		zap.String("imports_topic", cfg.KafkaTopicImports),
	)
	return publisher
}

// NewKafkaEventPublisher creates a new Kafka event publisher
func NewKafkaEventPublisher(cfg *config.Config, logger *zap.Logger) (*KafkaEventPublisher, error) {
	producer, err := sarama.NewSyncProducer(cfg.KafkaBrokers, producerConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return NewKafkaEventPublisherWithProducer(producer, cfg, logger), nil
}

// NewKafkaEventPublisherWithProducer wraps an existing producer
func NewKafkaEventPublisherWithProducer(producer sarama.SyncProducer, cfg *config.Config, logger *zap.Logger) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		producer: producer,
		logger:   logger,
		config:   cfg,
	}
}

func producerConfig(cfg *config.Config) *sarama.Config {
	sc := sarama.NewConfig()
	sc.ClientID = cfg.KafkaClientID
	sc.Producer.Return.Successes = true
	sc.Producer.Retry.Max = cfg.KafkaRetries

	switch cfg.KafkaAcks {
	case "0":
		sc.Producer.RequiredAcks = sarama.NoResponse
	case "1":
		sc.Producer.RequiredAcks = sarama.WaitForLocal
	default:
		sc.Producer.RequiredAcks = sarama.WaitForAll
		sc.Producer.Idempotent = true
		sc.Net.MaxOpenRequests = 1
	}
	return sc
}

// Publish publishes an event to Kafka with retries and exponential backoff
func (p *KafkaEventPublisher) Publish(ctx context.Context, event interface{}) error {
	message, err := p.buildMessage(event)
	if err != nil {
		return err
	}

	for attempt := 0; attempt < maxPublishAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		err = p.send(ctx, message)
		if err == nil {
			return nil
		}
		p.logger.Warn("Failed to publish event to Kafka, retrying",
			zap.String("topic", message.Topic),
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxPublishAttempts),
		)

		if attempt < maxPublishAttempts-1 {
			delay := publishBaseDelay * time.Duration(1<<uint(attempt))
			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled during backoff: %w", ctx.Err())
			case <-time.After(delay):
			}
		}
	}

	return fmt.Errorf("failed to publish event to Kafka after %d attempts: %w", maxPublishAttempts, err)
}

func (p *KafkaEventPublisher) send(ctx context.Context, message *sarama.ProducerMessage) error {
	sendCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		partition, offset, err := p.producer.SendMessage(message)
		if err == nil {
			p.logger.Info("Event published to Kafka",
				zap.String("topic", message.Topic),
				zap.Int32("partition", partition),
				zap.Int64("offset", offset),
			)
		}
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-sendCtx.Done():
		return fmt.Errorf("timeout publishing event to Kafka: %w", sendCtx.Err())
	}
}

func (p *KafkaEventPublisher) buildMessage(event interface{}) (*sarama.ProducerMessage, error) {
	topic, err := p.getTopicForEvent(event)
	if err != nil {
		return nil, fmt.Errorf("failed to determine topic: %w", err)
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(eventJSON),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(eventType(event))},
			{Key: []byte("event-id"), Value: []byte(uuid.New().String())},
			{Key: []byte("timestamp"), Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		},
	}
	if key := getPartitionKey(event); key != "" {
		message.Key = sarama.StringEncoder(key)
	}
	return message, nil
}

// Close closes the Kafka producer
func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

func (p *KafkaEventPublisher) getTopicForEvent(event interface{}) (string, error) {
	switch event.(type) {
	case InventoryItemCreatedEvent, InventoryItemUpdatedEvent:
		return p.config.KafkaTopicItems, nil
	case InventoryItemsImportedEvent:
		return p.config.KafkaTopicImports, nil
	default:
		return "", fmt.Errorf("unknown event type: %T", event)
	}
}

// getPartitionKey keeps all events of one item on the same partition
func getPartitionKey(event interface{}) string {
	switch e := event.(type) {
	case InventoryItemCreatedEvent:
		return strconv.FormatInt(e.ItemID, 10)
	case InventoryItemUpdatedEvent:
		return strconv.FormatInt(e.ItemID, 10)
	}
	return ""
}
