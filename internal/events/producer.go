package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Event types published to the booking topic.
const (
	TypeBookingCreated   = "booking.created"
	TypeOfferSubmitted   = "booking.offer_submitted"
	TypeOfferAccepted    = "booking.offer_accepted"
	TypeTripStarted      = "booking.trip_started"
	TypeBookingCompleted = "booking.completed"
	TypeBookingCancelled = "booking.cancelled"
)

// BookingEvent is the payload published for every booking state change.
type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	CustomerID string    `json:"customer_id"`
	DriverID   string    `json:"driver_id,omitempty"`
	Fare       float64   `json:"fare,omitempty"`
	Status     string    `json:"status"`
	At         time.Time `json:"at"`
}

// Producer publishes booking events to Kafka. A nil Producer is valid and
// drops everything, so callers need no guard when eventing is disabled.
type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewProducer creates a producer for the given brokers and topic.
func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	return &Producer{writer: writer, logger: logger}
}

// Publish sends the event, keyed by booking so per-booking order holds.
// Publish failures are logged, not returned; eventing never blocks a booking.
func (p *Producer) Publish(ctx context.Context, event BookingEvent) {
	if p == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("marshal booking event", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.BookingID),
		Value: payload,
	})
	if err != nil {
		p.logger.Error("publish booking event",
			zap.String("type", event.Type),
			zap.String("booking_id", event.BookingID),
			zap.Error(err),
		)
	}
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
