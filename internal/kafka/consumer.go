package kafka

import (
	"context"
	"time"

	"github.com/Domenick1991/flightbooking/internal/logger"
	"github.com/segmentio/kafka-go"
)

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// ConsumeBookingEvents reads until ctx is done or the reader fails.
// Undecodable messages are logged and skipped. A handler error stops
// consumption.
func (c *Consumer) ConsumeBookingEvents(ctx context.Context, handler func(context.Context, BookingEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		if err := handleMessage(ctx, msg, handler); err != nil {
			return err
		}
	}
}

func handleMessage(ctx context.Context, msg kafka.Message, handler func(context.Context, BookingEvent) error) error {
	event, err := DecodeBookingEvent(msg.Value)
	if err != nil {
		logger.WithContext(ctx).Warn("Skipping malformed booking event",
			"partition", msg.Partition, "offset", msg.Offset, "error", err)
		return nil
	}
	return handler(ctx, event)
}
