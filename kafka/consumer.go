package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/stride/stride-backend/pkg/logger"
)

// PriceUpdateHandler processes an ad-hoc price observation
type PriceUpdateHandler func(ctx context.Context, event PriceUpdatedEvent) error

// Consumer consumes price update events and applies them to the catalog
type Consumer struct {
	consumer sarama.ConsumerGroup
	groupID  string
	handler  PriceUpdateHandler
}

// NewConsumer creates a consumer group subscribed to the price update topic
func NewConsumer(brokers []string, groupID string, handler PriceUpdateHandler) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_6_0_0
	config.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	config.Consumer.Offsets.Initial = sarama.OffsetNewest
	config.Consumer.Return.Errors = true

	consumer, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Str("group_id", groupID).
		Str("topic", TopicPriceUpdated).
		Msg("Kafka consumer initialized")

	return &Consumer{
		consumer: consumer,
		groupID:  groupID,
		handler:  handler,
	}, nil
}

// Start begins consuming in the background until ctx is cancelled
func (c *Consumer) Start(ctx context.Context) {
	handler := &priceGroupHandler{handler: c.handler}

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Logger.Info().Msg("Consumer context cancelled, stopping")
				return
			default:
				if err := c.consumer.Consume(ctx, []string{TopicPriceUpdated}, handler); err != nil {
					logger.Logger.Error().Err(err).Msg("Error from consumer")
				}
			}
		}
	}()

	go func() {
		for err := range c.consumer.Errors() {
			logger.Logger.Error().Err(err).Msg("Consumer error")
		}
	}()

	logger.Logger.Info().
		Str("group_id", c.groupID).
		Str("topic", TopicPriceUpdated).
		Msg("Kafka consumer started")
}

// Close closes the Kafka consumer
func (c *Consumer) Close() error {
	if c == nil || c.consumer == nil {
		return nil
	}
	return c.consumer.Close()
}

// priceGroupHandler implements sarama.ConsumerGroupHandler
type priceGroupHandler struct {
	handler PriceUpdateHandler
}

func (h *priceGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *priceGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *priceGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		h.handleMessage(session.Context(), message)
		session.MarkMessage(message, "")
	}
	return nil
}

func (h *priceGroupHandler) handleMessage(ctx context.Context, message *sarama.ConsumerMessage) {
	// Restore trace context injected by the publisher
	carrier := propagation.MapCarrier{}
	for _, header := range message.Headers {
		key := string(header.Key)
		if key == "traceparent" || key == "tracestate" {
			carrier[key] = string(header.Value)
		}
	}
	ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)

	tracer := otel.Tracer("kafka-consumer")
	ctx, span := tracer.Start(ctx, "kafka.consume.price_updated",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.source", message.Topic),
			attribute.Int("messaging.kafka.partition", int(message.Partition)),
			attribute.Int64("messaging.kafka.offset", message.Offset),
		),
	)
	defer span.End()

	var event PriceUpdatedEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to unmarshal event")
		logger.Logger.Error().
			Err(err).
			Str("topic", message.Topic).
			Msg("Failed to unmarshal price update event")
		return
	}

	span.SetAttributes(
		attribute.String("event.id", event.EventID),
		attribute.Int64("sneaker.id", int64(event.SneakerID)),
		attribute.Float64("price", event.Price),
	)

	if err := h.handler(ctx, event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Handler failed")
		logger.Logger.Error().
			Err(err).
			Uint("sneaker_id", event.SneakerID).
			Msg("Failed to apply price update")
		return
	}

	logger.Logger.Info().
		Uint("sneaker_id", event.SneakerID).
		Float64("price", event.Price).
		Msg("Price update applied")
}
