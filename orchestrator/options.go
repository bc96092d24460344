// Package orchestrator drives flight, hotel and combined booking sessions
// from start to confirmation.
package orchestrator

import (
	"time"

	apperrors "github.com/jrsteele09/go-travel-booking/internal/errors"
	"github.com/jrsteele09/go-travel-booking/itinerary"
	"github.com/rs/zerolog"
)

// Traveller validation failures, raised before any upstream call.
var (
	ErrNoPassengers   = apperrors.NewValidation("invalid passenger details: at least one passenger is required")
	ErrPassengerName  = apperrors.NewValidation("invalid passenger details: first and last name are required")
	ErrNoGuests       = apperrors.NewValidation("invalid guest details: at least one guest is required")
	ErrGuestName      = apperrors.NewValidation("invalid guest details: first and last name are required")
	ErrEmptyTrip      = apperrors.NewValidation("a trip needs a flight or a hotel")
	ErrUnsupportedLeg = apperrors.NewValidation("the trip does not include this leg")
)

type settings struct {
	logger    zerolog.Logger
	nowTime   func() time.Time
	itinerary itinerary.Recorder
}

// Option configures an orchestrator.
type Option func(*settings)

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(s *settings) {
		s.nowTime = nowFunc
	}
}

// WithItinerary sets where confirmations are recorded. Recording failures
// are logged and never fail a booking.
func WithItinerary(recorder itinerary.Recorder) Option {
	return func(s *settings) {
		s.itinerary = recorder
	}
}

func newSettings(options []Option) settings {
	s := settings{
		logger:    zerolog.Nop(),
		nowTime:   time.Now,
		itinerary: itinerary.Nop{},
	}
	for _, opt := range options {
		opt(&s)
	}
	return s
}
