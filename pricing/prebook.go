package pricing

import (
	"context"
	"errors"

	"github.com/jrsteele09/go-travel-booking/booking"
	"github.com/jrsteele09/go-travel-booking/upstream"
)

// DefaultPaymentMode is sent to pre-book when the caller has not chosen one.
const DefaultPaymentMode = booking.PaymentLimit

// PreBookCoordinator checks a hotel offer's live price, availability and
// cancellation policy.
type PreBookCoordinator struct {
	api      upstream.HotelAPI
	settings settings
}

func NewPreBookCoordinator(api upstream.HotelAPI, options ...Option) (*PreBookCoordinator, error) {
	if api == nil {
		return nil, errors.New("[NewPreBookCoordinator] hotel API is required")
	}
	return &PreBookCoordinator{api: api, settings: newSettings(options)}, nil
}

// Validate pre-books offerID with the default payment mode.
func (c *PreBookCoordinator) Validate(ctx context.Context, correlationID, offerID string, originalPrice float64) (HotelResult, error) {
	return c.ValidateWithPayment(ctx, correlationID, offerID, originalPrice, DefaultPaymentMode)
}

// ValidateWithPayment pre-books offerID. The hotel API has no correlation id
// of its own; correlationID is only used for logging. Failure handling is
// the same as RepricingCoordinator.Validate.
func (c *PreBookCoordinator) ValidateWithPayment(ctx context.Context, correlationID, offerID string, originalPrice float64, mode booking.PaymentMethod) (HotelResult, error) {
	log := c.settings.logger.With().Str("correlation_id", correlationID).Str("offer_id", offerID).Logger()
	if mode == "" {
		mode = DefaultPaymentMode
	}

	resp, err := c.api.PreBook(ctx, offerID, string(mode))
	if err != nil {
		if isUnavailableError(err) {
			log.Info().Err(err).Msg("hotel offer reported unavailable while pre-booking")
			return HotelResult{Result: unavailable(originalPrice, c.settings.currency)}, nil
		}
		return HotelResult{}, err
	}
	if resp != nil && resp.Error != nil {
		return HotelResult{}, resp.Error
	}
	if resp == nil || resp.Hotel == nil {
		log.Info().Msg("pre-book returned no hotel, room sold out")
		return HotelResult{Result: unavailable(originalPrice, c.settings.currency)}, nil
	}

	h := resp.Hotel
	result := HotelResult{
		Result:                    compare(originalPrice, h.TotalFare, h.PriceChanged, currencyOr(h.Currency, c.settings.currency)),
		CancellationPolicyChanged: h.CancellationPolicyChanged,
		Offer:                     h.Offer,
		CancellationPolicy:        h.CancelPolicies,
	}
	if result.PriceChanged || result.CancellationPolicyChanged {
		log.Info().
			Float64("original_price", originalPrice).
			Float64("current_price", h.TotalFare).
			Bool("policy_changed", h.CancellationPolicyChanged).
			Msg("hotel offer changed on pre-book")
	}
	return result, nil
}
