package kafkasink_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jrsteele09/go-travel-booking/booking"
	"github.com/jrsteele09/go-travel-booking/itinerary/kafkasink"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestNew_RequiresWriter(t *testing.T) {
	_, err := kafkasink.New(nil)
	require.Error(t, err)
}

func TestRecordFlightBooking_PublishesKeyedEvent(t *testing.T) {
	w := &fakeWriter{}
	sink, err := kafkasink.New(w)
	require.NoError(t, err)

	bookedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	err = sink.RecordFlightBooking(context.Background(), booking.FlightConfirmation{
		BookingReference: "BK-1",
		PNR:              "ABC123",
		SessionID:        "session-1",
		CorrelationID:    "trace-1",
		TotalPrice:       540,
		Currency:         "USD",
		BookedAt:         bookedAt,
	})
	require.NoError(t, err)
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	require.Equal(t, "BK-1", string(msg.Key))

	var event kafkasink.Event
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	require.Equal(t, kafkasink.EventFlightBooked, event.Type)
	require.Equal(t, 540.0, event.TotalPrice)
	require.True(t, bookedAt.Equal(event.BookedAt))

	var confirmation booking.FlightConfirmation
	require.NoError(t, json.Unmarshal(event.Confirmation, &confirmation))
	require.Equal(t, "ABC123", confirmation.PNR)

	require.NoError(t, sink.Close())
	require.True(t, w.closed)
}

func TestRecordHotelBooking_WriteFailure(t *testing.T) {
	boom := errors.New("leader not available")
	sink, err := kafkasink.New(&fakeWriter{err: boom})
	require.NoError(t, err)

	err = sink.RecordHotelBooking(context.Background(), booking.HotelConfirmation{BookingReference: "HB-1"})
	require.ErrorIs(t, err, boom)
}
