package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/commodity-tracker/internal/inventory/domain"
	"github.com/tair/commodity-tracker/pkg/logger"
)

// Publisher wraps Kafka producer
type Publisher struct {
	producer sarama.SyncProducer
}

// NewPublisher creates a new Kafka publisher
func NewPublisher(brokers []string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.MaxMessageBytes = 1000000

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Msg("Kafka publisher initialized")

	return NewPublisherWithProducer(producer), nil
}

// NewPublisherWithProducer wraps an existing producer
func NewPublisherWithProducer(producer sarama.SyncProducer) *Publisher {
	return &Publisher{producer: producer}
}

// PublishMovementRecorded publishes a stock movement event
func (p *Publisher) PublishMovementRecorded(ctx context.Context, movement domain.StockMovement, commodity domain.Commodity) error {
	event := newMovementRecordedEvent(movement, commodity)
	event.EventID = uuid.NewString()
	event.EventType = EventTypeMovementRecorded

	return p.publish(ctx, TopicStockMovements, EventTypeMovementRecorded, event.EventID, movement.CommodityID, event,
		attribute.String("commodity.id", movement.CommodityID),
		attribute.String("movement.type", string(movement.Kind)),
		attribute.Int("movement.delta", movement.Delta),
	)
}

// PublishAlertRaised publishes an alert event
func (p *Publisher) PublishAlertRaised(ctx context.Context, alert domain.Alert) error {
	event := newAlertRaisedEvent(alert)
	event.EventID = uuid.NewString()
	event.EventType = EventTypeAlertRaised

	return p.publish(ctx, TopicStockAlerts, EventTypeAlertRaised, event.EventID, alert.CommodityID, event,
		attribute.String("commodity.id", alert.CommodityID),
		attribute.String("alert.type", string(alert.Kind)),
	)
}

// PublishCommodityConsumed publishes a consumption event, as an upstream system would
func (p *Publisher) PublishCommodityConsumed(ctx context.Context, event CommodityConsumedEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	event.EventType = EventTypeCommodityConsumed

	return p.publish(ctx, TopicCommodityConsumption, EventTypeCommodityConsumed, event.EventID, event.CommodityID, event,
		attribute.String("commodity.id", event.CommodityID),
		attribute.Int("commodity.quantity", event.Quantity),
	)
}

// publish sends one event with its type, id and trace context as headers
func (p *Publisher) publish(ctx context.Context, topic, eventType, eventID, key string, event any, attrs ...attribute.KeyValue) error {
	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish."+eventType,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", topic),
			attribute.String("messaging.destination_kind", "topic"),
			attribute.String("event.type", eventType),
			attribute.String("event.id", eventID),
		),
		trace.WithAttributes(attrs...),
	)
	defer span.End()

	eventBytes, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{Key: []byte("event_type"), Value: []byte(eventType)},
		{Key: []byte("event_id"), Value: []byte(eventID)},
	}
	for k, v := range carrier {
		headers = append(headers, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}

	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder("commodity_" + key),
		Value:   sarama.ByteEncoder(eventBytes),
		Headers: headers,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send message")
		logger.WithContext(ctx).Error().
			Err(err).
			Str("topic", topic).
			Str("event_type", eventType).
			Msg("Failed to publish event")
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	span.SetStatus(codes.Ok, "Event published successfully")

	logger.WithContext(ctx).Info().
		Str("event_id", eventID).
		Str("event_type", eventType).
		Str("topic", topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Event published")

	return nil
}

// Close closes the Kafka producer
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NoopPublisher drops events; used when Kafka is disabled
type NoopPublisher struct{}

func (NoopPublisher) PublishMovementRecorded(context.Context, domain.StockMovement, domain.Commodity) error {
	return nil
}

func (NoopPublisher) PublishAlertRaised(context.Context, domain.Alert) error {
	return nil
}
