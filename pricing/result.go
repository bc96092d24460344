// Package pricing re-validates quoted flight and hotel offers right before
// they are booked.
package pricing

import (
	"errors"
	"strings"

	"github.com/jrsteele09/go-travel-booking/booking"
	"github.com/jrsteele09/go-travel-booking/upstream"
	"github.com/rs/zerolog"
)

// Result compares a quoted price with the live price. When Available is
// false the offer is gone and CurrentPrice is 0.
type Result struct {
	OriginalPrice float64 `json:"originalPrice"`
	CurrentPrice  float64 `json:"currentPrice"`
	PriceChanged  bool    `json:"priceChanged"`
	PriceIncrease float64 `json:"priceIncrease"` // CurrentPrice - OriginalPrice, negative for a drop
	Available     bool    `json:"available"`
	Currency      string  `json:"currency"`
}

// FlightResult is the outcome of repricing a flight offer.
type FlightResult struct {
	Result
	TimeChanged bool                 `json:"timeChanged"`
	Offer       *booking.FlightOffer `json:"offer,omitempty"`
	FareRules   *booking.FareRules   `json:"fareRules,omitempty"`
}

// HotelResult is the outcome of pre-booking a hotel offer.
type HotelResult struct {
	Result
	CancellationPolicyChanged bool                         `json:"cancellationPolicyChanged"`
	Offer                     *booking.HotelOffer          `json:"offer,omitempty"`
	CancellationPolicy        []booking.CancellationPolicy `json:"cancellationPolicy,omitempty"`
}

func unavailable(originalPrice float64, currency string) Result {
	return Result{
		OriginalPrice: originalPrice,
		CurrentPrice:  0,
		PriceChanged:  true,
		PriceIncrease: 0,
		Available:     false,
		Currency:      currency,
	}
}

func compare(originalPrice, currentPrice float64, changed bool, currency string) Result {
	return Result{
		OriginalPrice: originalPrice,
		CurrentPrice:  currentPrice,
		PriceChanged:  changed,
		PriceIncrease: currentPrice - originalPrice,
		Available:     true,
		Currency:      currency,
	}
}

var unavailablePatterns = []string{"unavailable", "sold out", "no longer available"}

// isUnavailableError reports whether a thrown error means the offer is gone.
// Server-side failures are never read as unavailability even when their
// text says "unavailable".
func isUnavailableError(err error) bool {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) && (apiErr.StatusCode >= 500 || upstream.IsServerCode(apiErr.Code)) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range unavailablePatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

type settings struct {
	logger   zerolog.Logger
	currency string
}

type Option func(*settings)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithDefaultCurrency sets the currency reported when upstream omits one.
func WithDefaultCurrency(currency string) Option {
	return func(s *settings) {
		s.currency = currency
	}
}

func newSettings(options []Option) settings {
	s := settings{logger: zerolog.Nop(), currency: "USD"}
	for _, opt := range options {
		opt(&s)
	}
	return s
}

func currencyOr(currency, fallback string) string {
	if currency == "" {
		return fallback
	}
	return currency
}
