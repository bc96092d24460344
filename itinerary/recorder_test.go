package itinerary_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jrsteele09/go-travel-booking/booking"
	"github.com/jrsteele09/go-travel-booking/itinerary"
	"github.com/stretchr/testify/require"
)

type failingRecorder struct {
	err error
}

func (f failingRecorder) RecordFlightBooking(context.Context, booking.FlightConfirmation) error {
	return f.err
}

func (f failingRecorder) RecordHotelBooking(context.Context, booking.HotelConfirmation) error {
	return f.err
}

func TestInMemory_RecordsInOrder(t *testing.T) {
	m := itinerary.NewInMemory()
	ctx := context.Background()

	require.NoError(t, m.RecordFlightBooking(ctx, booking.FlightConfirmation{BookingReference: "F1"}))
	require.NoError(t, m.RecordFlightBooking(ctx, booking.FlightConfirmation{BookingReference: "F2"}))
	require.NoError(t, m.RecordHotelBooking(ctx, booking.HotelConfirmation{BookingReference: "H1"}))

	flights := m.Flights()
	require.Len(t, flights, 2)
	require.Equal(t, "F2", flights[1].BookingReference)
	require.Len(t, m.Hotels(), 1)
}

func TestMulti_TriesEveryRecorder(t *testing.T) {
	boom := errors.New("broker down")
	first, last := itinerary.NewInMemory(), itinerary.NewInMemory()
	multi := itinerary.Multi{first, failingRecorder{err: boom}, last}

	err := multi.RecordHotelBooking(context.Background(), booking.HotelConfirmation{BookingReference: "H1"})
	require.ErrorIs(t, err, boom)
	require.Len(t, first.Hotels(), 1)
	require.Len(t, last.Hotels(), 1)

	require.NoError(t, itinerary.Multi{first}.RecordFlightBooking(context.Background(), booking.FlightConfirmation{}))
}
