package orchestrator

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-travel-booking/ancillary"
	"github.com/jrsteele09/go-travel-booking/booking"
	"github.com/jrsteele09/go-travel-booking/pricing"
	"github.com/jrsteele09/go-travel-booking/seats"
	"github.com/jrsteele09/go-travel-booking/sessions"
	"github.com/jrsteele09/go-travel-booking/upstream"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// FlightSession is a timed flight booking session.
type FlightSession = sessions.Session[booking.FlightState]

// FlightOrchestrator runs one flight booking session through repricing,
// seats, ancillaries and booking.
type FlightOrchestrator struct {
	store     *sessions.Store[booking.FlightState]
	api       upstream.FlightAPI
	repricing *pricing.RepricingCoordinator
	seats     *seats.Coordinator
	ancillary *ancillary.Coordinator
	settings  settings

	// mu serializes the steps that read the session, call upstream and
	// write back, so a repeated Complete finds the session already gone.
	mu sync.Mutex
}

// NewFlightOrchestrator creates a FlightOrchestrator keeping its session in
// store and calling api for every upstream step.
func NewFlightOrchestrator(store *sessions.Store[booking.FlightState], api upstream.FlightAPI, options ...Option) (*FlightOrchestrator, error) {
	if store == nil {
		return nil, errors.New("[NewFlightOrchestrator] session store is required")
	}
	if api == nil {
		return nil, errors.New("[NewFlightOrchestrator] flight API is required")
	}

	s := newSettings(options)
	repricing, err := pricing.NewRepricingCoordinator(api, pricing.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	seatCoordinator, err := seats.NewCoordinator(api, seats.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	ancillaryCoordinator, err := ancillary.NewCoordinator(api, ancillary.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}

	return &FlightOrchestrator{
		store:     store,
		api:       api,
		repricing: repricing,
		seats:     seatCoordinator,
		ancillary: ancillaryCoordinator,
		settings:  s,
	}, nil
}

func (o *FlightOrchestrator) log(session FlightSession) zerolog.Logger {
	return o.settings.logger.With().
		Str("session_id", session.ID).
		Str("correlation_id", session.CorrelationID).
		Str("offer_id", session.Data.Offer.OfferID).
		Logger()
}

// Start begins a new session for offer in the repricing stage, discarding
// any current session.
func (o *FlightOrchestrator) Start(ctx context.Context, offer booking.FlightOffer, correlationID string) FlightSession {
	o.mu.Lock()
	defer o.mu.Unlock()

	session := o.store.Start(ctx, correlationID, booking.FlightState{
		Status: booking.FlightRepricing,
		Offer:  offer,
	})
	l := o.log(session)
	l.Info().Msg("flight booking session started")
	return session
}

// Current returns the live session, if any.
func (o *FlightOrchestrator) Current(ctx context.Context) (FlightSession, bool) {
	return o.store.Current(ctx)
}

// Update merges caller changes into the live session. Stage order is not
// enforced.
func (o *FlightOrchestrator) Update(ctx context.Context, mutate func(state *booking.FlightState)) (FlightSession, error) {
	return o.store.Update(ctx, mutate)
}

// Cancel drops the session. It is safe to call at any time.
func (o *FlightOrchestrator) Cancel(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.store.Clear(ctx)
}

// Restore reloads a persisted session after a restart.
func (o *FlightOrchestrator) Restore(ctx context.Context) (FlightSession, bool) {
	return o.store.Restore(ctx)
}

// Reprice re-validates the session's offer. An available result is stored
// as the repriced offer and moves the session to seat selection; a sold out
// result leaves the session where it was.
func (o *FlightOrchestrator) Reprice(ctx context.Context) (pricing.FlightResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	session, err := o.store.Get(ctx)
	if err != nil {
		return pricing.FlightResult{}, err
	}

	offer := session.Data.Offer
	result, err := o.repricing.Validate(ctx, session.CorrelationID, offer.OfferID, offer.Price)
	if err != nil {
		return pricing.FlightResult{}, errors.Wrap(err, "[FlightOrchestrator.Reprice] reprice offer")
	}
	if !result.Available {
		return result, nil
	}

	repriced := offer
	if result.Offer != nil {
		repriced = *result.Offer
	}
	repriced.Price = result.CurrentPrice
	repriced.Currency = result.Currency

	_, err = o.store.Update(ctx, func(state *booking.FlightState) {
		state.RepricedOffer = &repriced
		state.FareRules = result.FareRules
		state.Status = booking.FlightSeats
	})
	if err != nil {
		return pricing.FlightResult{}, err
	}
	return result, nil
}

// SeatMap fetches the seat map of the offer being booked.
func (o *FlightOrchestrator) SeatMap(ctx context.Context) (seats.SeatMap, error) {
	session, err := o.store.Get(ctx)
	if err != nil {
		return seats.SeatMap{}, err
	}
	seatMap, err := o.seats.SeatMap(ctx, session.CorrelationID, session.Data.BookableOffer().OfferID)
	if err != nil {
		return seats.SeatMap{}, errors.Wrap(err, "[FlightOrchestrator.SeatMap] fetch seat map")
	}
	return seatMap, nil
}

// SelectSeats reserves seats and records them with their cost, moving the
// session to ancillaries.
func (o *FlightOrchestrator) SelectSeats(ctx context.Context, selections []booking.SeatSelection) (seats.Reservation, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	session, err := o.store.Get(ctx)
	if err != nil {
		return seats.Reservation{}, err
	}

	reservation, err := o.seats.Reserve(ctx, session.CorrelationID, session.Data.BookableOffer().OfferID, selections)
	if err != nil {
		return seats.Reservation{}, errors.Wrap(err, "[FlightOrchestrator.SelectSeats] reserve seats")
	}

	_, err = o.store.Update(ctx, func(state *booking.FlightState) {
		state.Seats = reservation.ReservedSeats
		state.SeatCost = reservation.TotalCost
		state.Status = booking.FlightAncillary
	})
	if err != nil {
		return seats.Reservation{}, err
	}
	return reservation, nil
}

// Ancillaries lists the baggage and meal options of the offer being booked.
func (o *FlightOrchestrator) Ancillaries(ctx context.Context) (ancillary.Options, error) {
	session, err := o.store.Get(ctx)
	if err != nil {
		return ancillary.Options{}, err
	}
	options, err := o.ancillary.List(ctx, session.CorrelationID, session.Data.BookableOffer().OfferID)
	if err != nil {
		return ancillary.Options{}, errors.Wrap(err, "[FlightOrchestrator.Ancillaries] list services")
	}
	return options, nil
}

// AddAncillaries prices the selected services and records them, moving the
// session to passenger details. Nothing is sent upstream until Complete.
func (o *FlightOrchestrator) AddAncillaries(ctx context.Context, selections []booking.AncillarySelection) (ancillary.Addition, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	session, err := o.store.Get(ctx)
	if err != nil {
		return ancillary.Addition{}, err
	}

	addition, err := o.ancillary.Add(ctx, session.CorrelationID, session.Data.BookableOffer().OfferID, selections)
	if err != nil {
		return ancillary.Addition{}, errors.Wrap(err, "[FlightOrchestrator.AddAncillaries] price services")
	}

	_, err = o.store.Update(ctx, func(state *booking.FlightState) {
		state.Ancillaries = addition.AddedServices
		state.AncillaryCost = addition.TotalCost
		state.Status = booking.FlightPassenger
	})
	if err != nil {
		return ancillary.Addition{}, err
	}
	return addition, nil
}

// Complete books the session's offer for passengers. On success the
// confirmation is recorded and the session is cleared. If the booking call
// fails the session is kept so the caller can retry.
func (o *FlightOrchestrator) Complete(ctx context.Context, passengers []booking.Passenger, payment booking.Payment) (booking.FlightConfirmation, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, err := o.store.Get(ctx); err != nil {
		return booking.FlightConfirmation{}, err
	}
	if err := validatePassengers(passengers); err != nil {
		return booking.FlightConfirmation{}, err
	}

	session, err := o.store.Update(ctx, func(state *booking.FlightState) {
		state.Status = booking.FlightPayment
	})
	if err != nil {
		return booking.FlightConfirmation{}, err
	}
	log := o.log(session)

	state := session.Data
	offer := state.BookableOffer()
	resp, err := o.api.CreateBooking(ctx, upstream.BookRequest{
		CorrelationID: session.CorrelationID,
		OfferID:       offer.OfferID,
		Passengers:    wirePassengers(passengers, state.Seats, state.Ancillaries),
	})
	if err == nil && resp == nil {
		err = &upstream.APIError{Code: "BOOKING_FAILED", Message: "booking response was empty"}
	}
	if err == nil && resp.Error != nil {
		err = resp.Error
	}
	if err != nil {
		log.Error().Err(err).Msg("flight booking failed, session kept for retry")
		return booking.FlightConfirmation{}, errors.Wrap(err, "[FlightOrchestrator.Complete] create booking")
	}

	confirmation := booking.FlightConfirmation{
		BookingReference: resp.BookingID,
		PNR:              resp.PNR,
		TicketNumbers:    resp.TicketNumbers,
		SessionID:        session.ID,
		CorrelationID:    session.CorrelationID,
		Offer:            offer,
		TotalPrice:       offer.Price + state.SeatCost + state.AncillaryCost,
		Currency:         offer.Currency,
		BookedAt:         o.settings.nowTime(),
		Passengers:       append([]booking.Passenger(nil), passengers...),
		Seats:            state.Seats,
		Ancillaries:      state.Ancillaries,
	}

	if _, err := o.store.Update(ctx, func(state *booking.FlightState) {
		state.Status = booking.FlightConfirmed
	}); err != nil {
		log.Warn().Err(err).Msg("could not mark session confirmed")
	}

	if err := o.settings.itinerary.RecordFlightBooking(ctx, confirmation); err != nil {
		log.Error().Err(err).Str("booking_reference", confirmation.BookingReference).Msg("failed to record flight booking in itinerary")
	}

	o.store.Clear(ctx)
	log.Info().
		Str("booking_reference", confirmation.BookingReference).
		Str("pnr", confirmation.PNR).
		Float64("total_price", confirmation.TotalPrice).
		Str("payment_method", string(payment.Method)).
		Msg("flight booked")

	return confirmation, nil
}
