// Package kafkasink publishes booking confirmations to a Kafka topic for the
// itinerary service to consume.
package kafkasink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jrsteele09/go-travel-booking/booking"
	"github.com/jrsteele09/go-travel-booking/itinerary"
	"github.com/segmentio/kafka-go"
)

var _ itinerary.Recorder = (*Sink)(nil)

// Event types.
const (
	EventFlightBooked = "flight_booked"
	EventHotelBooked  = "hotel_booked"
)

// MessageWriter is the part of *kafka.Writer the sink uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Event is the message value. Confirmation holds the full confirmation.
type Event struct {
	Type             string          `json:"type"`
	BookingReference string          `json:"bookingReference"`
	SessionID        string          `json:"sessionId"`
	CorrelationID    string          `json:"correlationId"`
	TotalPrice       float64         `json:"totalPrice"`
	Currency         string          `json:"currency"`
	BookedAt         time.Time       `json:"bookedAt"`
	Confirmation     json.RawMessage `json:"confirmation"`
}

// Sink is an itinerary.Recorder writing one message per confirmation, keyed
// by booking reference.
type Sink struct {
	writer MessageWriter
}

// NewWriter builds a kafka.Writer for topic.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
}

func New(writer MessageWriter) (*Sink, error) {
	if writer == nil {
		return nil, errors.New("[kafkasink.New] writer is required")
	}
	return &Sink{writer: writer}, nil
}

func (s *Sink) RecordFlightBooking(ctx context.Context, c booking.FlightConfirmation) error {
	return s.publish(ctx, EventFlightBooked, c.BookingReference, c.SessionID, c.CorrelationID, c.TotalPrice, c.Currency, c.BookedAt, c)
}

func (s *Sink) RecordHotelBooking(ctx context.Context, c booking.HotelConfirmation) error {
	return s.publish(ctx, EventHotelBooked, c.BookingReference, c.SessionID, c.CorrelationID, c.TotalPrice, c.Currency, c.BookedAt, c)
}

func (s *Sink) publish(ctx context.Context, eventType, reference, sessionID, correlationID string, total float64, currency string, bookedAt time.Time, confirmation any) error {
	raw, err := json.Marshal(confirmation)
	if err != nil {
		return fmt.Errorf("failed to encode confirmation: %w", err)
	}
	value, err := json.Marshal(Event{
		Type:             eventType,
		BookingReference: reference,
		SessionID:        sessionID,
		CorrelationID:    correlationID,
		TotalPrice:       total,
		Currency:         currency,
		BookedAt:         bookedAt,
		Confirmation:     raw,
	})
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	err = s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(reference),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}
	return nil
}

// Close closes the underlying writer.
func (s *Sink) Close() error {
	return s.writer.Close()
}
