package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"inventory-service/internal/config"
	"inventory-service/internal/domain"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		KafkaTopicItems:   "inventory.items",
		KafkaTopicImports: "inventory.imports",
		KafkaAcks:         "all",
		KafkaRetries:      3,
	}
}

func sampleItem(id int64) domain.InventoryItem {
	return domain.NewInventoryItem(id, domain.ItemFields{Name: "Aspirin", Stock: 100}, time.Now())
}

func TestKafkaEventPublisher_Publish_ItemCreated(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var decoded InventoryItemCreatedEvent
		if err := json.Unmarshal(val, &decoded); err != nil {
			return err
		}
		if decoded.ItemID != 42 || decoded.Item.Name != "Aspirin" {
			return errors.New("unexpected event payload")
		}
		return nil
	})

	publisher := NewKafkaEventPublisherWithProducer(producer, testConfig(), zap.NewNop())
	event := InventoryItemCreatedEvent{ItemID: 42, Item: sampleItem(42), OccurredAt: time.Now()}

	require.NoError(t, publisher.Publish(context.Background(), event))
	require.NoError(t, publisher.Close())
}

func TestKafkaEventPublisher_Publish_RetriesThenFails(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	for i := 0; i < maxPublishAttempts; i++ {
		producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	}

	publisher := NewKafkaEventPublisherWithProducer(producer, testConfig(), zap.NewNop())
	err := publisher.Publish(context.Background(), InventoryItemsImportedEvent{ItemCount: 0})

	assert.Error(t, err)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, publisher.Close())
}

func TestKafkaEventPublisher_Publish_UnknownEvent(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	publisher := NewKafkaEventPublisherWithProducer(producer, testConfig(), zap.NewNop())

	err := publisher.Publish(context.Background(), "unknown")

	assert.Error(t, err)
	require.NoError(t, publisher.Close())
}

func TestKafkaEventPublisher_BuildMessage(t *testing.T) {
	publisher := &KafkaEventPublisher{logger: zap.NewNop(), config: testConfig()}

	testCases := []struct {
		name      string
		event     interface{}
		topic     string
		eventType string
		key       string
	}{
		{"created", InventoryItemCreatedEvent{ItemID: 7}, "inventory.items", "InventoryItemCreated", "7"},
		{"updated", InventoryItemUpdatedEvent{ItemID: 8}, "inventory.items", "InventoryItemUpdated", "8"},
		{"imported", InventoryItemsImportedEvent{ItemCount: 3}, "inventory.imports", "InventoryItemsImported", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := publisher.buildMessage(tc.event)
			require.NoError(t, err)

			assert.Equal(t, tc.topic, msg.Topic)
			assert.Equal(t, "event-type", string(msg.Headers[0].Key))
			assert.Equal(t, tc.eventType, string(msg.Headers[0].Value))
			if tc.key == "" {
				assert.Nil(t, msg.Key)
			} else {
				assert.Equal(t, sarama.StringEncoder(tc.key), msg.Key)
			}
		})
	}
}

func TestProducerConfig_Acks(t *testing.T) {
	cfg := testConfig()
	cfg.KafkaAcks = "1"
	assert.Equal(t, sarama.WaitForLocal, producerConfig(cfg).Producer.RequiredAcks)

	cfg.KafkaAcks = "all"
	sc := producerConfig(cfg)
	assert.Equal(t, sarama.WaitForAll, sc.Producer.RequiredAcks)
	assert.True(t, sc.Producer.Idempotent)
}

func TestNewPublisher_DisabledUsesInMemory(t *testing.T) {
	publisher := NewPublisher(&config.Config{KafkaEnabled: false}, zap.NewNop())

	_, ok := publisher.(*InMemoryEventPublisher)
	assert.True(t, ok)
}

func TestInMemoryEventPublisher_Publish(t *testing.T) {
	publisher := NewInMemoryEventPublisher(zap.NewNop())

	event := InventoryItemCreatedEvent{ItemID: 1, Item: sampleItem(1), OccurredAt: time.Now()}
	require.NoError(t, publisher.Publish(context.Background(), event))

	published := publisher.Events()
	require.Len(t, published, 1)
	assert.Equal(t, event, published[0])
}

func TestInMemoryEventPublisher_KeepsOnlyRecentEvents(t *testing.T) {
	publisher := NewBoundedEventPublisher(3, zap.NewNop())
	ctx := context.Background()

	for id := int64(1); id <= 5; id++ {
		require.NoError(t, publisher.Publish(ctx, InventoryItemCreatedEvent{ItemID: id}))
	}

	published := publisher.Events()
	require.Len(t, published, 3)
	for i, want := range []int64{3, 4, 5} {
		assert.Equal(t, want, published[i].(InventoryItemCreatedEvent).ItemID)
	}
}
