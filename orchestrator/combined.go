package orchestrator

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-travel-booking/booking"
	"github.com/jrsteele09/go-travel-booking/pricing"
	"github.com/jrsteele09/go-travel-booking/sessions"
	"github.com/pkg/errors"
)

// TripSession is the outer session of a combined booking.
type TripSession = sessions.Session[booking.TripState]

// Trip is a snapshot of a combined booking and its live legs.
type Trip struct {
	Session TripSession    `json:"session"`
	Flight  *FlightSession `json:"flight,omitempty"`
	Hotel   *HotelSession  `json:"hotel,omitempty"`
}

// CombinedOrchestrator books a flight and a hotel as one trip. Each leg
// keeps its own session in its own orchestrator; the trip session tracks
// which legs exist and the outer status.
type CombinedOrchestrator struct {
	store    *sessions.Store[booking.TripState]
	flights  *FlightOrchestrator
	hotels   *HotelOrchestrator
	settings settings

	// mu serializes trip steps. It is always taken before a leg's own lock.
	mu sync.Mutex
}

func NewCombinedOrchestrator(store *sessions.Store[booking.TripState], flights *FlightOrchestrator, hotels *HotelOrchestrator, options ...Option) (*CombinedOrchestrator, error) {
	if store == nil {
		return nil, errors.New("[NewCombinedOrchestrator] session store is required")
	}
	if flights == nil {
		return nil, errors.New("[NewCombinedOrchestrator] flight orchestrator is required")
	}
	if hotels == nil {
		return nil, errors.New("[NewCombinedOrchestrator] hotel orchestrator is required")
	}
	return &CombinedOrchestrator{
		store:    store,
		flights:  flights,
		hotels:   hotels,
		settings: newSettings(options),
	}, nil
}

// Flights returns the orchestrator of the flight leg.
func (o *CombinedOrchestrator) Flights() *FlightOrchestrator {
	return o.flights
}

// Hotels returns the orchestrator of the hotel leg.
func (o *CombinedOrchestrator) Hotels() *HotelOrchestrator {
	return o.hotels
}

// Start begins a trip with a flight, a hotel or both. Any existing trip is
// discarded and both leg sessions are cancelled first, even for a single
// leg trip.
func (o *CombinedOrchestrator) Start(ctx context.Context, flight *booking.FlightOffer, hotel *booking.HotelOffer, correlationID string) (Trip, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if flight == nil && hotel == nil {
		return Trip{}, ErrEmptyTrip
	}

	o.store.Clear(ctx)
	o.flights.Cancel(ctx)
	o.hotels.Cancel(ctx)

	state := booking.TripState{Status: booking.TripHotelPreBook}
	var trip Trip
	if flight != nil {
		fs := o.flights.Start(ctx, *flight, correlationID)
		trip.Flight = &fs
		state.HasFlight = true
		state.FlightSessionID = fs.ID
		state.FlightQuote = flight.Price
		state.Status = booking.TripFlightRepricing
	}
	if hotel != nil {
		hs := o.hotels.Start(ctx, *hotel, correlationID)
		trip.Hotel = &hs
		state.HasHotel = true
		state.HotelSessionID = hs.ID
	}

	trip.Session = o.store.Start(ctx, correlationID, state)
	o.settings.logger.Info().
		Str("session_id", trip.Session.ID).
		Str("correlation_id", correlationID).
		Bool("flight", state.HasFlight).
		Bool("hotel", state.HasHotel).
		Msg("trip booking session started")
	return trip, nil
}

// Current returns the trip with whichever legs are still live.
func (o *CombinedOrchestrator) Current(ctx context.Context) (Trip, bool) {
	session, ok := o.store.Current(ctx)
	if !ok {
		return Trip{}, false
	}
	return o.withLegs(ctx, session), true
}

func (o *CombinedOrchestrator) withLegs(ctx context.Context, session TripSession) Trip {
	trip := Trip{Session: session}
	if session.Data.HasFlight {
		if fs, ok := o.flights.Current(ctx); ok {
			trip.Flight = &fs
		}
	}
	if session.Data.HasHotel {
		if hs, ok := o.hotels.Current(ctx); ok {
			trip.Hotel = &hs
		}
	}
	return trip
}

// SetStatus moves the trip to status. Stage order is not enforced.
func (o *CombinedOrchestrator) SetStatus(ctx context.Context, status booking.TripStatus) (TripSession, error) {
	return o.store.Update(ctx, func(state *booking.TripState) {
		state.Status = status
	})
}

// CalculateTotalCost sums the quoted prices of the legs. A booked flight
// still counts at its quoted price. A missing leg adds nothing and no trip
// at all costs 0.
func (o *CombinedOrchestrator) CalculateTotalCost(ctx context.Context) float64 {
	session, ok := o.store.Current(ctx)
	if !ok {
		return 0
	}

	total := 0.0
	if session.Data.FlightBooked != nil {
		total += session.Data.FlightQuote
	} else if fs, ok := o.flights.Current(ctx); ok && session.Data.HasFlight {
		total += fs.Data.Offer.Price
	}
	if hs, ok := o.hotels.Current(ctx); ok && session.Data.HasHotel {
		total += hs.Data.Offer.Price
	}
	return total
}

// RepriceFlight reprices the flight leg and moves the trip on to the hotel
// pre-book, or to passenger details when there is no hotel.
func (o *CombinedOrchestrator) RepriceFlight(ctx context.Context) (pricing.FlightResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	session, err := o.store.Get(ctx)
	if err != nil {
		return pricing.FlightResult{}, err
	}
	if !session.Data.HasFlight {
		return pricing.FlightResult{}, ErrUnsupportedLeg
	}

	result, err := o.flights.Reprice(ctx)
	if err != nil || !result.Available {
		return result, err
	}

	next := booking.TripPassengerDetails
	if session.Data.HasHotel {
		next = booking.TripHotelPreBook
	}
	if _, err := o.SetStatus(ctx, next); err != nil {
		return pricing.FlightResult{}, err
	}
	return result, nil
}

// PreBookHotel pre-books the hotel leg and moves the trip to passenger
// details.
func (o *CombinedOrchestrator) PreBookHotel(ctx context.Context) (pricing.HotelResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	session, err := o.store.Get(ctx)
	if err != nil {
		return pricing.HotelResult{}, err
	}
	if !session.Data.HasHotel {
		return pricing.HotelResult{}, ErrUnsupportedLeg
	}

	result, err := o.hotels.PreBook(ctx)
	if err != nil || !result.Available {
		return result, err
	}
	if _, err := o.SetStatus(ctx, booking.TripPassengerDetails); err != nil {
		return pricing.HotelResult{}, err
	}
	return result, nil
}

// Complete books the flight and then the hotel. If the hotel fails after
// the flight was booked, the flight confirmation is returned with the
// error and the hotel session is kept so the hotel alone can be retried.
func (o *CombinedOrchestrator) Complete(ctx context.Context, passengers []booking.Passenger, guests []booking.Guest, payment booking.Payment) (booking.TripConfirmation, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	session, err := o.SetStatus(ctx, booking.TripPayment)
	if err != nil {
		return booking.TripConfirmation{}, err
	}
	log := o.settings.logger.With().Str("session_id", session.ID).Str("correlation_id", session.CorrelationID).Logger()

	var result booking.TripConfirmation
	if session.Data.HasFlight {
		flight := session.Data.FlightBooked
		if flight == nil {
			confirmation, err := o.flights.Complete(ctx, passengers, payment)
			if err != nil {
				return booking.TripConfirmation{}, errors.Wrap(err, "[CombinedOrchestrator.Complete] flight leg")
			}
			flight = &confirmation
			if _, err := o.store.Update(ctx, func(state *booking.TripState) {
				state.FlightBooked = flight
			}); err != nil {
				log.Warn().Err(err).Msg("could not record booked flight on trip")
			}
		}
		result.Flight = flight
		result.TotalPrice += flight.TotalPrice
	}

	if session.Data.HasHotel {
		confirmation, err := o.hotels.Complete(ctx, guests, payment)
		if err != nil {
			log.Error().Err(err).Bool("flight_booked", result.Flight != nil).Msg("hotel leg failed")
			return result, errors.Wrap(err, "[CombinedOrchestrator.Complete] hotel leg")
		}
		result.Hotel = &confirmation
		result.TotalPrice += confirmation.TotalPrice
	}

	if _, err := o.SetStatus(ctx, booking.TripConfirmed); err != nil {
		log.Warn().Err(err).Msg("could not mark trip confirmed")
	}
	o.store.Clear(ctx)
	log.Info().Float64("total_price", result.TotalPrice).Msg("trip booked")
	return result, nil
}

// Cancel drops the trip and both leg sessions.
func (o *CombinedOrchestrator) Cancel(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.store.Clear(ctx)
	o.flights.Cancel(ctx)
	o.hotels.Cancel(ctx)
}

// Restore reloads the persisted trip and its legs after a restart.
func (o *CombinedOrchestrator) Restore(ctx context.Context) (Trip, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	session, ok := o.store.Restore(ctx)
	if !ok {
		return Trip{}, false
	}
	if session.Data.HasFlight {
		o.flights.Restore(ctx)
	}
	if session.Data.HasHotel {
		o.hotels.Restore(ctx)
	}
	return o.withLegs(ctx, session), true
}
