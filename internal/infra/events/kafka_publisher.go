package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	sharedBus "github.com/davicafu/quickasset/shared/platform/bus"
	sharedUtils "github.com/davicafu/quickasset/shared/utils"
)

// KafkaPublisher publica los eventos de integración del pipeline en Kafka.
// Los reintentos aquí son legítimos: el ack al proveedor de pagos ya salió
// y esta publicación es fire-and-forget respecto al webhook.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

var _ sharedBus.EventPublisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(writer *kafka.Writer, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	var key []byte
	if keyer, ok := event.(sharedBus.Keyer); ok {
		key = []byte(keyer.PartitionKey())
	}

	msg := kafka.Message{
		Key:   key,
		Value: data,
	}

	err = sharedUtils.Retry(ctx, 3, 500*time.Millisecond, func() error {
		return p.writer.WriteMessages(ctx, msg)
	})
	if err != nil {
		p.log.Error("Error publishing to Kafka", zap.Error(err))
		return err
	}

	p.log.Debug("Event published successfully", zap.Any("event", event))
	return nil
}
