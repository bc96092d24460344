// Package itinerary hands completed bookings to the traveller's itinerary.
// Recording is fire-and-forget from the booking flow's point of view: the
// orchestrators log a recorder failure and carry on.
package itinerary

import (
	"context"
	"errors"
	"sync"

	"github.com/jrsteele09/go-travel-booking/booking"
)

// Recorder receives confirmations once a booking succeeds.
type Recorder interface {
	RecordFlightBooking(ctx context.Context, confirmation booking.FlightConfirmation) error
	RecordHotelBooking(ctx context.Context, confirmation booking.HotelConfirmation) error
}

var (
	_ Recorder = (*InMemory)(nil)
	_ Recorder = (Multi)(nil)
	_ Recorder = Nop{}
)

// Nop discards confirmations.
type Nop struct{}

func (Nop) RecordFlightBooking(context.Context, booking.FlightConfirmation) error { return nil }
func (Nop) RecordHotelBooking(context.Context, booking.HotelConfirmation) error   { return nil }

// InMemory keeps confirmations in memory, newest last.
type InMemory struct {
	flights []booking.FlightConfirmation
	hotels  []booking.HotelConfirmation
	lock    sync.RWMutex
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (m *InMemory) RecordFlightBooking(_ context.Context, confirmation booking.FlightConfirmation) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.flights = append(m.flights, confirmation)
	return nil
}

func (m *InMemory) RecordHotelBooking(_ context.Context, confirmation booking.HotelConfirmation) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.hotels = append(m.hotels, confirmation)
	return nil
}

// Flights returns the recorded flight confirmations.
func (m *InMemory) Flights() []booking.FlightConfirmation {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return append([]booking.FlightConfirmation(nil), m.flights...)
}

// Hotels returns the recorded hotel confirmations.
func (m *InMemory) Hotels() []booking.HotelConfirmation {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return append([]booking.HotelConfirmation(nil), m.hotels...)
}

// Multi records to every recorder in turn. All recorders are tried even
// when one fails; the failures are joined.
type Multi []Recorder

func (m Multi) RecordFlightBooking(ctx context.Context, confirmation booking.FlightConfirmation) error {
	var errs []error
	for _, r := range m {
		if err := r.RecordFlightBooking(ctx, confirmation); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) RecordHotelBooking(ctx context.Context, confirmation booking.HotelConfirmation) error {
	var errs []error
	for _, r := range m {
		if err := r.RecordHotelBooking(ctx, confirmation); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
