package orchestrator

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-travel-booking/booking"
	"github.com/jrsteele09/go-travel-booking/pricing"
	"github.com/jrsteele09/go-travel-booking/sessions"
	"github.com/jrsteele09/go-travel-booking/upstream"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// HotelSession is a timed hotel booking session.
type HotelSession = sessions.Session[booking.HotelState]

// HotelOrchestrator runs one hotel booking session through pre-booking,
// guest details and booking.
type HotelOrchestrator struct {
	store    *sessions.Store[booking.HotelState]
	api      upstream.HotelAPI
	prebook  *pricing.PreBookCoordinator
	settings settings

	// mu serializes the session steps; see FlightOrchestrator.
	mu sync.Mutex
}

// NewHotelOrchestrator creates a HotelOrchestrator keeping its session in
// store.
func NewHotelOrchestrator(store *sessions.Store[booking.HotelState], api upstream.HotelAPI, options ...Option) (*HotelOrchestrator, error) {
	if store == nil {
		return nil, errors.New("[NewHotelOrchestrator] session store is required")
	}
	if api == nil {
		return nil, errors.New("[NewHotelOrchestrator] hotel API is required")
	}

	s := newSettings(options)
	prebook, err := pricing.NewPreBookCoordinator(api, pricing.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}

	return &HotelOrchestrator{
		store:    store,
		api:      api,
		prebook:  prebook,
		settings: s,
	}, nil
}

func (o *HotelOrchestrator) log(session HotelSession) zerolog.Logger {
	return o.settings.logger.With().
		Str("session_id", session.ID).
		Str("correlation_id", session.CorrelationID).
		Str("offer_id", session.Data.Offer.OfferID).
		Logger()
}

// Start begins a new session for offer, discarding any current session.
func (o *HotelOrchestrator) Start(ctx context.Context, offer booking.HotelOffer, correlationID string) HotelSession {
	o.mu.Lock()
	defer o.mu.Unlock()

	session := o.store.Start(ctx, correlationID, booking.HotelState{
		Status: booking.HotelDetails,
		Offer:  offer,
	})
	l := o.log(session)
	l.Info().Msg("hotel booking session started")
	return session
}

// Current returns the live session, if any.
func (o *HotelOrchestrator) Current(ctx context.Context) (HotelSession, bool) {
	return o.store.Current(ctx)
}

// Update merges caller changes into the live session. Stage order is not
// enforced.
func (o *HotelOrchestrator) Update(ctx context.Context, mutate func(state *booking.HotelState)) (HotelSession, error) {
	return o.store.Update(ctx, mutate)
}

// Cancel drops the session. It is safe to call at any time.
func (o *HotelOrchestrator) Cancel(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.store.Clear(ctx)
}

// Restore reloads a persisted session after a restart.
func (o *HotelOrchestrator) Restore(ctx context.Context) (HotelSession, bool) {
	return o.store.Restore(ctx)
}

// PreBook re-validates the offer's price and cancellation policy. An
// available result is stored and moves the session to guest details.
func (o *HotelOrchestrator) PreBook(ctx context.Context) (pricing.HotelResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	session, err := o.store.Get(ctx)
	if err != nil {
		return pricing.HotelResult{}, err
	}

	offer := session.Data.Offer
	result, err := o.prebook.Validate(ctx, session.CorrelationID, offer.OfferID, offer.Price)
	if err != nil {
		return pricing.HotelResult{}, errors.Wrap(err, "[HotelOrchestrator.PreBook] pre-book offer")
	}
	if !result.Available {
		return result, nil
	}

	prebooked := offer
	if result.Offer != nil {
		prebooked = *result.Offer
	}
	prebooked.Price = result.CurrentPrice
	prebooked.Currency = result.Currency
	if len(result.CancellationPolicy) > 0 {
		prebooked.CancellationPolicy = result.CancellationPolicy
	}

	_, err = o.store.Update(ctx, func(state *booking.HotelState) {
		state.PreBookedOffer = &prebooked
		state.CancellationPolicy = prebooked.CancellationPolicy
		state.Status = booking.HotelGuestDetails
	})
	if err != nil {
		return pricing.HotelResult{}, err
	}
	return result, nil
}

// SetGuestDetails stores the guests and moves the session to payment.
func (o *HotelOrchestrator) SetGuestDetails(ctx context.Context, guests []booking.Guest) (HotelSession, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, err := o.store.Get(ctx); err != nil {
		return HotelSession{}, err
	}
	if err := validateGuests(guests); err != nil {
		return HotelSession{}, err
	}
	return o.store.Update(ctx, func(state *booking.HotelState) {
		state.Guests = append([]booking.Guest(nil), guests...)
		state.Status = booking.HotelPayment
	})
}

// Complete books the session's offer. When guests is empty the guests
// stored by SetGuestDetails are used. On success the confirmation is
// recorded and the session is cleared; on failure it is kept for a retry.
func (o *HotelOrchestrator) Complete(ctx context.Context, guests []booking.Guest, payment booking.Payment) (booking.HotelConfirmation, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	current, err := o.store.Get(ctx)
	if err != nil {
		return booking.HotelConfirmation{}, err
	}
	if len(guests) == 0 {
		guests = current.Data.Guests
	}
	if err := validateGuests(guests); err != nil {
		return booking.HotelConfirmation{}, err
	}

	session, err := o.store.Update(ctx, func(state *booking.HotelState) {
		state.Guests = append([]booking.Guest(nil), guests...)
		state.Status = booking.HotelPayment
	})
	if err != nil {
		return booking.HotelConfirmation{}, err
	}
	log := o.log(session)

	mode := payment.Method
	if mode == "" {
		mode = pricing.DefaultPaymentMode
	}
	offer := session.Data.BookableOffer()
	resp, err := o.api.Book(ctx, upstream.HotelBookRequest{
		BookingCode:  offer.OfferID,
		ClientRef:    session.ID,
		PaymentMode:  string(mode),
		NetAmount:    offer.Price,
		Currency:     offer.Currency,
		Guests:       wireGuests(guests),
		PaymentToken: payment.Token,
	})
	if err == nil && resp == nil {
		err = &upstream.APIError{Code: "HOTEL_BOOKING_FAILED", Message: "booking response was empty"}
	}
	if err == nil && resp.Error != nil {
		err = resp.Error
	}
	if err != nil {
		log.Error().Err(err).Msg("hotel booking failed, session kept for retry")
		return booking.HotelConfirmation{}, errors.Wrap(err, "[HotelOrchestrator.Complete] book hotel")
	}

	confirmation := booking.HotelConfirmation{
		BookingReference:   resp.BookingReferenceID,
		ConfirmationNumber: resp.ConfirmationNumber,
		VoucherID:          resp.VoucherID,
		SessionID:          session.ID,
		CorrelationID:      session.CorrelationID,
		Offer:              offer,
		TotalPrice:         offer.Price,
		Currency:           offer.Currency,
		BookedAt:           o.settings.nowTime(),
		Guests:             append([]booking.Guest(nil), guests...),
	}

	if _, err := o.store.Update(ctx, func(state *booking.HotelState) {
		state.Status = booking.HotelConfirmed
	}); err != nil {
		log.Warn().Err(err).Msg("could not mark session confirmed")
	}

	if err := o.settings.itinerary.RecordHotelBooking(ctx, confirmation); err != nil {
		log.Error().Err(err).Str("booking_reference", confirmation.BookingReference).Msg("failed to record hotel booking in itinerary")
	}

	o.store.Clear(ctx)
	log.Info().
		Str("booking_reference", confirmation.BookingReference).
		Str("confirmation_number", confirmation.ConfirmationNumber).
		Float64("total_price", confirmation.TotalPrice).
		Str("payment_method", string(mode)).
		Msg("hotel booked")

	return confirmation, nil
}
