package pricing

import (
	"context"
	"errors"

	"github.com/jrsteele09/go-travel-booking/upstream"
)

// RepricingCoordinator checks a flight offer's live price and availability.
type RepricingCoordinator struct {
	api      upstream.FlightAPI
	settings settings
}

func NewRepricingCoordinator(api upstream.FlightAPI, options ...Option) (*RepricingCoordinator, error) {
	if api == nil {
		return nil, errors.New("[NewRepricingCoordinator] flight API is required")
	}
	return &RepricingCoordinator{api: api, settings: newSettings(options)}, nil
}

// Validate reprices offerID. A structured upstream error is returned as the
// error. A missing result, or a thrown error saying the offer is gone, is
// returned as an unavailable Result with a nil error.
func (c *RepricingCoordinator) Validate(ctx context.Context, correlationID, offerID string, originalPrice float64) (FlightResult, error) {
	log := c.settings.logger.With().Str("correlation_id", correlationID).Str("offer_id", offerID).Logger()

	resp, err := c.api.Reprice(ctx, correlationID, offerID)
	if err != nil {
		if isUnavailableError(err) {
			log.Info().Err(err).Msg("offer reported unavailable while repricing")
			return FlightResult{Result: unavailable(originalPrice, c.settings.currency)}, nil
		}
		return FlightResult{}, err
	}
	if resp != nil && resp.Error != nil {
		return FlightResult{}, resp.Error
	}
	if resp == nil || resp.Result == nil {
		log.Info().Msg("reprice returned no result, offer sold out")
		return FlightResult{Result: unavailable(originalPrice, c.settings.currency)}, nil
	}

	r := resp.Result
	result := FlightResult{
		Result:      compare(originalPrice, r.OfferedFare, r.IsPriceChanged, currencyOr(r.Currency, c.settings.currency)),
		TimeChanged: r.IsTimeChanged,
		Offer:       r.Offer,
		FareRules:   r.FareRules,
	}
	if result.PriceChanged {
		log.Info().Float64("original_price", originalPrice).Float64("current_price", r.OfferedFare).Msg("flight price changed")
	}
	return result, nil
}
